package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Review is a guest rating of a listing. Only approved reviews are visible
// and counted in summaries.
type Review struct {
	ID         int64     `json:"id" yaml:"id"`
	ProductID  int64     `json:"product_id" yaml:"product_id"`
	UserID     string    `json:"user_id" yaml:"user_id"`
	AuthorName string    `json:"author_name" yaml:"author_name"`
	Rating     int       `json:"rating" yaml:"rating"`
	Comment    string    `json:"comment" yaml:"comment"`
	CreatedAt  time.Time `json:"created_at" yaml:"-"`
	Approved   bool      `json:"approved" yaml:"approved"`
}

func (r Review) EntityID() int64 { return r.ID }

func (r Review) WithEntityID(id int64) Review {
	r.ID = id
	return r
}

// Summary aggregates the approved ratings of one product.
type Summary struct {
	ProductID    int64       `json:"product_id"`
	Average      float64     `json:"average"`
	Total        int         `json:"total"`
	Distribution map[int]int `json:"distribution"`
}

// Summarize derives a rating summary from reviews. Callers pass the approved
// set; nothing is filtered here.
func Summarize(productID int64, reviews []Review) Summary {
	summary := Summary{
		ProductID:    productID,
		Distribution: make(map[int]int),
	}
	if len(reviews) == 0 {
		return summary
	}

	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		summary.Distribution[r.Rating]++
	}
	summary.Total = len(reviews)
	summary.Average = float64(sum) / float64(len(reviews))
	return summary
}
