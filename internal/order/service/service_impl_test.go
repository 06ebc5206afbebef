package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/hostelhub/internal/clock"
	"github.com/smallbiznis/hostelhub/internal/config"
	"github.com/smallbiznis/hostelhub/internal/datastore"
	"github.com/smallbiznis/hostelhub/internal/order/domain"
	"github.com/smallbiznis/hostelhub/internal/order/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type receiptStub struct {
	rendered []int64
	err      error
}

func (r *receiptStub) RenderReceipt(order domain.Order) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.rendered = append(r.rendered, order.ID)
	return []byte("%PDF-stub"), nil
}

type orderFixture struct {
	svc domain.Service
	db  *datastore.DB
	clk *clock.FakeClock
}

func setupOrderService(t *testing.T, enforce bool, receipts domain.ReceiptRenderer) orderFixture {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	cfg := config.DefaultStoreConfig()
	cfg.Orders.EnforceTransitions = enforce

	clk := clock.NewFakeClock(time.Date(2026, 5, 20, 15, 0, 0, 0, time.UTC))
	db := datastore.New(datastore.Options{})
	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		Clock:       clk,
		GenID:       node,
		Repo:        repository.Provide(db),
		Receipts:    receipts,
		StoreConfig: config.NewStaticStoreConfigHolder(cfg),
	})
	return orderFixture{svc: svc, db: db, clk: clk}
}

func (f orderFixture) place(t *testing.T, userID string) *domain.Order {
	t.Helper()
	order, err := f.svc.Place(context.Background(), domain.PlaceRequest{
		UserID: userID,
		Items: []domain.Item{
			{ProductID: 1, Name: "Casa Azul", UnitPrice: 18, Quantity: 1},
			{ProductID: 2, Name: "Lisbon Lofts", UnitPrice: 64, Quantity: 1},
		},
		DeliveryAddress: "Rua Augusta 1",
		PaymentMethod:   "card",
	})
	require.NoError(t, err)
	f.clk.Advance(time.Minute)
	return order
}

func TestPlaceRecordsConfirmedOrder(t *testing.T) {
	f := setupOrderService(t, false, nil)
	order := f.place(t, "ana")

	assert.Equal(t, int64(1), order.ID)
	assert.Equal(t, domain.StatusConfirmed, order.Status)
	assert.InDelta(t, 82, order.Total, 1e-9)
	assert.NotEmpty(t, order.Reference)

	second := f.place(t, "ana")
	assert.NotEqual(t, order.Reference, second.Reference)

	got, err := f.svc.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, order.Reference, got.Reference)
	assert.Len(t, got.Items, 2)
}

func TestPlacedItemsAreDetachedFromLedger(t *testing.T) {
	f := setupOrderService(t, false, nil)
	order := f.place(t, "ana")
	order.Items[0].UnitPrice = 9999

	stored, err := f.svc.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.InDelta(t, 18, stored.Items[0].UnitPrice, 1e-9)
	assert.InDelta(t, domain.SumItems(stored.Items), stored.Total, 1e-9)

	stored.Items[1].Quantity = 40
	again, err := f.svc.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 1, again.Items[1].Quantity)
}

func TestPlaceValidation(t *testing.T) {
	f := setupOrderService(t, false, nil)
	ctx := context.Background()

	_, err := f.svc.Place(ctx, domain.PlaceRequest{Items: []domain.Item{{ProductID: 1, Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidUser)
	_, err = f.svc.Place(ctx, domain.PlaceRequest{UserID: "ana"})
	assert.ErrorIs(t, err, domain.ErrInvalidItems)
}

func TestByUserNewestFirst(t *testing.T) {
	f := setupOrderService(t, false, nil)
	first := f.place(t, "ana")
	f.place(t, "luis")
	last := f.place(t, "ana")

	orders, err := f.svc.ByUser(context.Background(), "ana")
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, last.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)

	all, err := f.svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateStatusPermissiveByDefault(t *testing.T) {
	f := setupOrderService(t, false, nil)
	ctx := context.Background()
	f.place(t, "ana")

	updated, err := f.svc.UpdateStatus(ctx, "1", "entregado")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, updated.Status)
	assert.Equal(t, f.clk.Now(), updated.UpdatedAt)

	updated, err = f.svc.UpdateStatus(ctx, "1", "En Revisión")
	require.NoError(t, err)
	assert.Equal(t, domain.Status("en revisión"), updated.Status)

	_, err = f.svc.UpdateStatus(ctx, "1", "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	_, err = f.svc.UpdateStatus(ctx, "9", "enviado")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateStatusEnforcedTransitions(t *testing.T) {
	f := setupOrderService(t, true, nil)
	ctx := context.Background()
	f.place(t, "ana")
	before := f.db.Orders.Version()

	_, err := f.svc.UpdateStatus(ctx, "1", "entregado")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, before, f.db.Orders.Version())

	_, err = f.svc.UpdateStatus(ctx, "1", "perdido")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	for _, status := range []string{"enviado", "enviado", "entregado"} {
		_, err = f.svc.UpdateStatus(ctx, "1", status)
		require.NoError(t, err, status)
	}

	_, err = f.svc.UpdateStatus(ctx, "1", "cancelado")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	got, err := f.svc.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, got.Status)
}

func TestReceipt(t *testing.T) {
	ctx := context.Background()

	f := setupOrderService(t, false, nil)
	f.place(t, "ana")
	_, err := f.svc.Receipt(ctx, "1")
	assert.ErrorIs(t, err, domain.ErrReceiptUnavailable)

	stub := &receiptStub{}
	f = setupOrderService(t, false, stub)
	f.place(t, "ana")
	doc, err := f.svc.Receipt(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-stub"), doc)
	assert.Equal(t, []int64{1}, stub.rendered)

	_, err = f.svc.Receipt(ctx, "2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	boom := errors.New("render failed")
	f = setupOrderService(t, false, &receiptStub{err: boom})
	f.place(t, "ana")
	_, err = f.svc.Receipt(ctx, "1")
	assert.ErrorIs(t, err, boom)
}
