package domain

import "time"

// Product is a hostel listing offered on the marketplace.
type Product struct {
	ID          int64     `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Slug        string    `json:"slug" yaml:"slug"`
	Description string    `json:"description" yaml:"description"`
	Price       float64   `json:"price" yaml:"price"`
	Stock       int       `json:"stock" yaml:"stock"`
	Category    string    `json:"category" yaml:"category"`
	Type        string    `json:"type" yaml:"type"`
	City        string    `json:"city" yaml:"city"`
	Country     string    `json:"country" yaml:"country"`
	ImageURL    string    `json:"image_url" yaml:"image_url"`
	CreatedAt   time.Time `json:"created_at" yaml:"-"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"-"`
}

func (p Product) EntityID() int64 { return p.ID }

func (p Product) WithEntityID(id int64) Product {
	p.ID = id
	return p
}
