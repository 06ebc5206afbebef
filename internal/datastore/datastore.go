// Package datastore owns the process-wide entity stores of the marketplace.
package datastore

import (
	"context"
	"slices"
	"time"

	cartdomain "github.com/smallbiznis/hostelhub/internal/cart/domain"
	chatdomain "github.com/smallbiznis/hostelhub/internal/chat/domain"
	"github.com/smallbiznis/hostelhub/internal/observability/tracing"
	orderdomain "github.com/smallbiznis/hostelhub/internal/order/domain"
	productdomain "github.com/smallbiznis/hostelhub/internal/product/domain"
	reviewdomain "github.com/smallbiznis/hostelhub/internal/review/domain"
	"github.com/smallbiznis/hostelhub/pkg/entitystore"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	ProductsStore  = "products"
	ReviewsStore   = "reviews"
	ThreadsStore   = "chat_threads"
	MessagesStore  = "chat_messages"
	OrdersStore    = "orders"
	CartLinesStore = "cart_lines"
)

// StoreNames lists every store in creation order.
var StoreNames = []string{
	ProductsStore,
	ReviewsStore,
	ThreadsStore,
	MessagesStore,
	OrdersStore,
	CartLinesStore,
}

type Options struct {
	Latency      time.Duration
	MonotonicIDs bool
	Observers    []entitystore.Observer
}

type DB struct {
	Products  *entitystore.Store[productdomain.Product]
	Reviews   *entitystore.Store[reviewdomain.Review]
	Threads   *entitystore.Store[chatdomain.Thread]
	Messages  *entitystore.Store[chatdomain.Message]
	Orders    *entitystore.Store[orderdomain.Order]
	CartLines *entitystore.Store[cartdomain.Line]
}

func New(opts Options) *DB {
	storeOpts := entitystore.Options{
		Latency:      opts.Latency,
		MonotonicIDs: opts.MonotonicIDs,
		Observers:    opts.Observers,
	}
	return &DB{
		Products:  entitystore.New[productdomain.Product](ProductsStore, storeOpts),
		Reviews:   entitystore.New[reviewdomain.Review](ReviewsStore, storeOpts),
		Threads:   entitystore.New[chatdomain.Thread](ThreadsStore, storeOpts),
		Messages:  entitystore.New[chatdomain.Message](MessagesStore, storeOpts),
		Orders:    entitystore.New[orderdomain.Order](OrdersStore, storeOpts),
		CartLines: entitystore.New[cartdomain.Line](CartLinesStore, storeOpts),
	}
}

// Transaction runs fn with the given stores held. See
// entitystore.RunInTransaction.
func (db *DB) Transaction(ctx context.Context, fn func(ctx context.Context) error, stores ...entitystore.Lockable) error {
	names := make([]string, 0, len(stores))
	for _, st := range stores {
		names = append(names, st.Name())
	}
	ctx, span := tracing.StartSpan(ctx, "datastore.transaction", attribute.StringSlice("datastore.stores", names))
	defer span.End()

	err := entitystore.RunInTransaction(ctx, fn, stores...)
	if err != nil {
		span.SetStatus(codes.Error, "rolled back")
	}
	return err
}

// Versions reports the current version of every store.
func (db *DB) Versions() map[string]uint64 {
	return map[string]uint64{
		ProductsStore:  db.Products.Version(),
		ReviewsStore:   db.Reviews.Version(),
		ThreadsStore:   db.Threads.Version(),
		MessagesStore:  db.Messages.Version(),
		OrdersStore:    db.Orders.Version(),
		CartLinesStore: db.CartLines.Version(),
	}
}

func IsStoreName(name string) bool {
	return slices.Contains(StoreNames, name)
}
