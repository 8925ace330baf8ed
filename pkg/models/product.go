package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultOrigin   = "India"
	DefaultCurrency = "USD"
)

type Product struct {
	ID               primitive.ObjectID `bson:"_id" json:"_id"`
	Name             string             `bson:"name" json:"name"`
	Description      string             `bson:"description" json:"description"`
	ShortDescription string             `bson:"shortDescription" json:"shortDescription"`
	CategoryID       primitive.ObjectID `bson:"category" json:"-"`
	Category         *CategorySummary   `bson:"-" json:"category"`
	Origin           string             `bson:"origin" json:"origin"`
	Specifications   map[string]string  `bson:"specifications" json:"specifications"`
	Certifications   []string           `bson:"certifications" json:"certifications"`
	PackagingOptions []string           `bson:"packagingOptions" json:"packagingOptions"`
	Images           []string           `bson:"images" json:"images"`
	CurrentPrice     *float64           `bson:"currentPrice,omitempty" json:"currentPrice,omitempty"`
	Currency         string             `bson:"currency,omitempty" json:"currency,omitempty"`
	PriceHistory     []PriceEntry       `bson:"priceHistory" json:"priceHistory"`
	IsActive         bool               `bson:"isActive" json:"isActive"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PriceEntry is an immutable record of a past price.
type PriceEntry struct {
	Amount   float64   `bson:"amount" json:"amount"`
	Currency string    `bson:"currency" json:"currency"`
	Date     time.Time `bson:"date" json:"date"`
}

type ProductRequest struct {
	Name             string            `json:"name" validate:"required"`
	Description      string            `json:"description" validate:"required"`
	ShortDescription string            `json:"shortDescription"`
	Category         string            `json:"category" validate:"required"`
	Origin           string            `json:"origin"`
	Specifications   map[string]string `json:"specifications"`
	Certifications   []string          `json:"certifications"`
	PackagingOptions []string          `json:"packagingOptions"`
	CurrentPrice     *float64          `json:"currentPrice" validate:"omitempty,gte=0"`
	Currency         string            `json:"currency"`
}

type ProductUpdateRequest struct {
	Name             *string            `json:"name"`
	Description      *string            `json:"description"`
	ShortDescription *string            `json:"shortDescription"`
	Category         *string            `json:"category"`
	Origin           *string            `json:"origin"`
	Specifications   *map[string]string `json:"specifications"`
	Certifications   *[]string          `json:"certifications"`
	PackagingOptions *[]string          `json:"packagingOptions"`
	Images           *[]string          `json:"images"`
	CurrentPrice     *float64           `json:"currentPrice" validate:"omitempty,gte=0"`
	Currency         *string            `json:"currency"`
}

type ProductFilter struct {
	CategoryID *primitive.ObjectID
	Search     string
	IsActive   *bool
}

// ProductSummary is the populated form of a product reference.
type ProductSummary struct {
	ID   primitive.ObjectID `bson:"_id" json:"_id"`
	Name string             `bson:"name" json:"name"`
}

func (p *Product) Summary() *ProductSummary {
	return &ProductSummary{ID: p.ID, Name: p.Name}
}
