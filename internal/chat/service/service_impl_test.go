package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/smallbiznis/hostelhub/internal/chat/domain"
	"github.com/smallbiznis/hostelhub/internal/chat/repository"
	"github.com/smallbiznis/hostelhub/internal/clock"
	"github.com/smallbiznis/hostelhub/internal/config"
	"github.com/smallbiznis/hostelhub/internal/datastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type chatFixture struct {
	svc domain.Service
	db  *datastore.DB
	clk *clock.FakeClock
}

func setupChatService(t *testing.T, holder *config.StoreConfigHolder) chatFixture {
	t.Helper()
	clk := clock.NewFakeClock(time.Date(2026, 4, 10, 8, 0, 0, 0, time.UTC))
	db := datastore.New(datastore.Options{})
	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		Clock:       clk,
		Repo:        repository.Provide(db),
		StoreConfig: holder,
	})
	return chatFixture{svc: svc, db: db, clk: clk}
}

func (f chatFixture) open(t *testing.T, productID, a, b string) *domain.Thread {
	t.Helper()
	thread, err := f.svc.GetOrCreateThread(context.Background(), domain.ThreadRequest{
		ProductID: productID, ProductName: "Casa Azul", UserA: a, UserB: b,
	})
	require.NoError(t, err)
	return thread
}

func (f chatFixture) send(t *testing.T, threadID int64, sender, content string) *domain.Message {
	t.Helper()
	msg, err := f.svc.Send(context.Background(), domain.SendRequest{
		ThreadID: itoa(threadID), SenderID: sender, SenderName: sender, Content: content,
	})
	require.NoError(t, err)
	require.NotNil(t, msg)
	f.clk.Advance(time.Second)
	return msg
}

func TestGetOrCreateThreadIsOrderInsensitive(t *testing.T) {
	f := setupChatService(t, nil)

	first := f.open(t, "1", "host", "guest")
	assert.Equal(t, []string{"guest", "host"}, first.Participants)
	assert.Equal(t, config.DefaultOpeningMessage, first.LastMessage)

	again := f.open(t, "1", "guest", "host")
	assert.Equal(t, first.ID, again.ID)

	other := f.open(t, "2", "guest", "host")
	assert.NotEqual(t, first.ID, other.ID)

	n, err := f.db.Threads.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGetOrCreateThreadConcurrentCallsShareOneThread(t *testing.T) {
	f := setupChatService(t, nil)

	var g errgroup.Group
	ids := make([]int64, 24)
	for i := range ids {
		a, b := "host", "guest"
		if i%2 == 1 {
			a, b = b, a
		}
		g.Go(func() error {
			thread, err := f.svc.GetOrCreateThread(context.Background(), domain.ThreadRequest{ProductID: "9", UserA: a, UserB: b})
			if err != nil {
				return err
			}
			ids[i] = thread.ID
			return nil
		})
	}
	require.NoError(t, g.Wait())

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	n, err := f.db.Threads.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetOrCreateThreadUsesConfiguredOpeningMessage(t *testing.T) {
	cfg := config.DefaultStoreConfig()
	cfg.Chat.OpeningMessage = "Conversation started"
	f := setupChatService(t, config.NewStaticStoreConfigHolder(cfg))

	thread := f.open(t, "3", "a", "b")
	assert.Equal(t, "Conversation started", thread.LastMessage)
}

func TestGetOrCreateThreadRejectsBadParticipants(t *testing.T) {
	f := setupChatService(t, nil)
	ctx := context.Background()

	_, err := f.svc.GetOrCreateThread(ctx, domain.ThreadRequest{ProductID: "1", UserA: "a", UserB: "a"})
	assert.ErrorIs(t, err, domain.ErrInvalidParticipants)
	_, err = f.svc.GetOrCreateThread(ctx, domain.ThreadRequest{ProductID: "1", UserA: "a"})
	assert.ErrorIs(t, err, domain.ErrInvalidParticipants)
	_, err = f.svc.GetOrCreateThread(ctx, domain.ThreadRequest{ProductID: "zero", UserA: "a", UserB: "b"})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestSendUpdatesThreadSummary(t *testing.T) {
	f := setupChatService(t, nil)
	ctx := context.Background()
	thread := f.open(t, "1", "host", "guest")

	f.send(t, thread.ID, "guest", "hola")
	last := f.send(t, thread.ID, "host", "bienvenido")
	assert.Equal(t, domain.MessageTypeText, last.Type)
	assert.False(t, last.Read)

	got, err := f.svc.Thread(ctx, itoa(thread.ID))
	require.NoError(t, err)
	assert.Equal(t, "bienvenido", got.LastMessage)
	assert.Equal(t, last.CreatedAt, got.LastMessageTime)

	msgs, err := f.svc.ByThread(ctx, itoa(thread.ID))
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "hola", msgs[0].Content)
	assert.Equal(t, "bienvenido", msgs[1].Content)
}

func TestSendToUnknownThreadIsNoOp(t *testing.T) {
	f := setupChatService(t, nil)
	ctx := context.Background()

	msg, err := f.svc.Send(ctx, domain.SendRequest{ThreadID: "41", SenderID: "a", Content: "hi"})
	require.NoError(t, err)
	assert.Nil(t, msg)

	n, err := f.db.Messages.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, f.db.Messages.Version())
}

func TestSendValidation(t *testing.T) {
	f := setupChatService(t, nil)
	ctx := context.Background()
	thread := f.open(t, "1", "a", "b")
	id := itoa(thread.ID)

	_, err := f.svc.Send(ctx, domain.SendRequest{ThreadID: id, SenderID: " ", Content: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidSender)
	_, err = f.svc.Send(ctx, domain.SendRequest{ThreadID: id, SenderID: "a", Content: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidContent)
	_, err = f.svc.Send(ctx, domain.SendRequest{ThreadID: id, SenderID: "a", Content: "x", Type: "VIDEO"})
	assert.ErrorIs(t, err, domain.ErrInvalidMessageType)

	img, err := f.svc.Send(ctx, domain.SendRequest{ThreadID: id, SenderID: "a", Content: "https://img/1.png", Type: "IMAGE"})
	require.NoError(t, err)
	assert.Equal(t, domain.MessageTypeImage, img.Type)
}

func TestUnreadCountsAndMarkRead(t *testing.T) {
	f := setupChatService(t, nil)
	ctx := context.Background()
	first := f.open(t, "1", "host", "guest")
	second := f.open(t, "2", "host", "traveller")

	f.send(t, first.ID, "guest", "one")
	f.send(t, first.ID, "guest", "two")
	f.send(t, first.ID, "host", "reply")
	f.send(t, second.ID, "traveller", "three")

	n, err := f.svc.UnreadCount(ctx, itoa(first.ID), "host")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = f.svc.UnreadCount(ctx, itoa(first.ID), "guest")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	total, err := f.svc.TotalUnread(ctx, "host")
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	marked, err := f.svc.MarkRead(ctx, itoa(first.ID), "host")
	require.NoError(t, err)
	assert.Equal(t, 2, marked)

	marked, err = f.svc.MarkRead(ctx, itoa(first.ID), "host")
	require.NoError(t, err)
	assert.Zero(t, marked)

	total, err = f.svc.TotalUnread(ctx, "host")
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	total, err = f.svc.TotalUnread(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestByUserMostRecentActivityFirst(t *testing.T) {
	f := setupChatService(t, nil)
	ctx := context.Background()
	older := f.open(t, "1", "host", "guest")
	f.clk.Advance(time.Minute)
	newer := f.open(t, "2", "host", "guest")
	f.clk.Advance(time.Minute)

	threads, err := f.svc.ByUser(ctx, "host")
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Equal(t, newer.ID, threads[0].ID)

	f.send(t, older.ID, "guest", "bump")
	threads, err = f.svc.ByUser(ctx, "host")
	require.NoError(t, err)
	assert.Equal(t, older.ID, threads[0].ID)

	_, err = f.svc.ByUser(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidUser)
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }

func TestThreadParticipantsAreDetachedFromStore(t *testing.T) {
	f := setupChatService(t, nil)
	thread := f.open(t, "1", "host", "guest")
	thread.Participants[0] = "intruder"

	stored, err := f.svc.Thread(context.Background(), itoa(thread.ID))
	require.NoError(t, err)
	assert.Equal(t, []string{"guest", "host"}, stored.Participants)
}

func TestReadersNeverSeeMessageWithoutThreadSummary(t *testing.T) {
	f := setupChatService(t, nil)
	ctx := context.Background()
	thread := f.open(t, "1", "host", "guest")

	const sends = 200
	done := make(chan struct{})
	var g errgroup.Group
	g.Go(func() error {
		defer close(done)
		for i := 0; i < sends; i++ {
			_, err := f.svc.Send(ctx, domain.SendRequest{
				ThreadID: itoa(thread.ID), SenderID: "guest", SenderName: "Guest", Content: "msg " + strconv.Itoa(i),
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	var checks int
	g.Go(func() error {
		for {
			select {
			case <-done:
				return nil
			default:
			}
			err := f.db.Transaction(ctx, func(ctx context.Context) error {
				current, err := f.db.Threads.Get(ctx, thread.ID)
				if err != nil {
					return err
				}
				msgs, err := f.db.Messages.Find(ctx, func(m domain.Message) bool { return m.ChatID == thread.ID })
				if err != nil {
					return err
				}
				if len(msgs) == 0 {
					assert.Equal(t, config.DefaultOpeningMessage, current.LastMessage)
				} else {
					assert.Equal(t, msgs[len(msgs)-1].Content, current.LastMessage)
				}
				checks++
				return nil
			}, f.db.Threads, f.db.Messages)
			if err != nil {
				return err
			}
		}
	})
	require.NoError(t, g.Wait())
	assert.Positive(t, checks)

	msgs, err := f.db.Messages.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, sends, msgs)
}
