package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/smallbiznis/hostelhub/internal/config"
	orderdomain "github.com/smallbiznis/hostelhub/internal/order/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderReceipt(t *testing.T) {
	p := New(config.Config{AppName: "hostelhub"})
	order := orderdomain.Order{
		ID:        1,
		Reference: "1790000000000000000",
		UserID:    "u-1",
		Items: []orderdomain.Item{
			{ProductID: 1, Name: "Casa Azul dorm bed", UnitPrice: 25, Quantity: 1},
			{ProductID: 2, Name: "Lisbon private room", UnitPrice: 60, Quantity: 1},
		},
		Total:           85,
		Status:          orderdomain.StatusConfirmed,
		DeliveryAddress: "Rua Augusta 1, Lisboa",
		PaymentMethod:   "card",
		CreatedAt:       time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	doc, err := p.RenderReceipt(order)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestMoneyFormat(t *testing.T) {
	p := New(config.Config{})
	assert.Equal(t, "EUR 12.50", p.money(12.5))
	assert.Equal(t, "hostelhub", p.brand)
}
