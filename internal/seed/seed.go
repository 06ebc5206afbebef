// Package seed loads the demo catalog into freshly created stores.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/smallbiznis/hostelhub/internal/clock"
	"github.com/smallbiznis/hostelhub/internal/datastore"
	productdomain "github.com/smallbiznis/hostelhub/internal/product/domain"
	reviewdomain "github.com/smallbiznis/hostelhub/internal/review/domain"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

type Fixtures struct {
	Products []productdomain.Product `yaml:"products"`
	Reviews  []ReviewFixture         `yaml:"reviews"`
}

// ReviewFixture points at its product by slug.
type ReviewFixture struct {
	Product    string `yaml:"product"`
	UserID     string `yaml:"user_id"`
	AuthorName string `yaml:"author_name"`
	Rating     int    `yaml:"rating"`
	Comment    string `yaml:"comment"`
}

func Load() (*Fixtures, error) {
	return Parse(fixturesYAML)
}

func Parse(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	for i := range f.Products {
		if f.Products[i].Slug == "" {
			f.Products[i].Slug = slug.Make(f.Products[i].Name)
		}
	}
	return &f, nil
}

// Apply inserts the fixtures when the catalog is empty. It reports whether
// anything was inserted.
func Apply(ctx context.Context, db *datastore.DB, clk clock.Clock, f *Fixtures) (bool, error) {
	applied := false
	err := db.Transaction(ctx, func(ctx context.Context) error {
		n, err := db.Products.Count(ctx)
		if err != nil || n > 0 {
			return err
		}

		now := clk.Now()
		ids := make(map[string]int64, len(f.Products))
		for _, p := range f.Products {
			p.CreatedAt, p.UpdatedAt = now, now
			id, err := db.Products.Insert(ctx, p)
			if err != nil {
				return err
			}
			ids[p.Slug] = id
		}

		for _, r := range f.Reviews {
			productID, ok := ids[r.Product]
			if !ok {
				return fmt.Errorf("review fixture references unknown product %q", r.Product)
			}
			if r.Rating < reviewdomain.MinRating || r.Rating > reviewdomain.MaxRating {
				return fmt.Errorf("review fixture for %q: %w", r.Product, reviewdomain.ErrInvalidRating)
			}
			_, err := db.Reviews.Insert(ctx, reviewdomain.Review{
				ProductID:  productID,
				UserID:     r.UserID,
				AuthorName: r.AuthorName,
				Rating:     r.Rating,
				Comment:    r.Comment,
				CreatedAt:  now,
				Approved:   true,
			})
			if err != nil {
				return err
			}
		}
		applied = true
		return nil
	}, db.Products, db.Reviews)
	return applied, err
}
