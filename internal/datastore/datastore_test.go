package datastore

import (
	"context"
	"errors"
	"testing"

	"github.com/smallbiznis/hostelhub/internal/livequery"
	orderdomain "github.com/smallbiznis/hostelhub/internal/order/domain"
	productdomain "github.com/smallbiznis/hostelhub/internal/product/domain"
	"github.com/smallbiznis/hostelhub/pkg/entitystore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionsCoverEveryStore(t *testing.T) {
	db := New(Options{})
	versions := db.Versions()
	assert.Len(t, versions, len(StoreNames))
	for _, name := range StoreNames {
		v, ok := versions[name]
		assert.True(t, ok, name)
		assert.Zero(t, v)
		assert.True(t, IsStoreName(name))
	}
	assert.False(t, IsStoreName("invoices"))
}

func TestTransactionSpansStoresAndNotifiesHub(t *testing.T) {
	hub := livequery.NewHub()
	db := New(Options{Observers: []entitystore.Observer{hub}})
	ctx := context.Background()

	err := db.Transaction(ctx, func(ctx context.Context) error {
		if _, err := db.Products.Insert(ctx, productdomain.Product{Name: "Casa Azul"}); err != nil {
			return err
		}
		_, err := db.Orders.Insert(ctx, orderdomain.Order{UserID: "ana"})
		return err
	}, db.Products, db.Orders)
	require.NoError(t, err)

	latest := hub.Latest()
	assert.Equal(t, uint64(1), latest[ProductsStore].Version)
	assert.Equal(t, uint64(1), latest[OrdersStore].Version)
	_, touched := latest[ReviewsStore]
	assert.False(t, touched)
}

func TestTransactionRollbackLeavesStoresUntouched(t *testing.T) {
	db := New(Options{MonotonicIDs: true})
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.Transaction(ctx, func(ctx context.Context) error {
		if _, err := db.Products.Insert(ctx, productdomain.Product{Name: "Casa Azul"}); err != nil {
			return err
		}
		return boom
	}, db.Products)
	require.ErrorIs(t, err, boom)

	n, err := db.Products.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	id, err := db.Products.Insert(ctx, productdomain.Product{Name: "Lisbon Lofts"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}
