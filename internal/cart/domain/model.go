package domain

import (
	"time"

	productdomain "github.com/smallbiznis/hostelhub/internal/product/domain"
)

// Line is the presence of one product in a cart session. A session holds at
// most one line per product.
type Line struct {
	ID        int64                 `json:"id"`
	SessionID string                `json:"session_id"`
	ProductID int64                 `json:"product_id"`
	Product   productdomain.Product `json:"product"`
	AddedAt   time.Time             `json:"added_at"`
}

func (l Line) EntityID() int64 { return l.ID }

func (l Line) WithEntityID(id int64) Line {
	l.ID = id
	return l
}

// Total is the sum of the distinct product prices in lines.
func Total(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.Product.Price
	}
	return total
}
