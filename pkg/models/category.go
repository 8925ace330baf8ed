package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Category struct {
	ID             primitive.ObjectID  `bson:"_id" json:"_id"`
	Name           string              `bson:"name" json:"name"`
	Slug           string              `bson:"slug" json:"slug"`
	Description    string              `bson:"description" json:"description"`
	ParentCategory *primitive.ObjectID `bson:"parentCategory" json:"parentCategory"`
	IsActive       bool                `bson:"isActive" json:"isActive"`
	CreatedBy      primitive.ObjectID  `bson:"createdBy" json:"createdBy"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
	Children       []*Category         `bson:"-" json:"children,omitempty"`
}

// CategorySummary is the populated form of a category reference.
type CategorySummary struct {
	ID   primitive.ObjectID `bson:"_id" json:"_id"`
	Name string             `bson:"name" json:"name"`
	Slug string             `bson:"slug" json:"slug"`
}

func (c *Category) Summary() *CategorySummary {
	return &CategorySummary{ID: c.ID, Name: c.Name, Slug: c.Slug}
}

type CategoryRequest struct {
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description"`
	ParentCategory string `json:"parentCategory"`
}

// CategoryUpdateRequest carries a partial update. A nil field is left as is; an
// empty ParentCategory clears the parent.
type CategoryUpdateRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	ParentCategory *string `json:"parentCategory"`
	IsActive       *bool   `json:"isActive"`
}

type CategoryFilter struct {
	ParentID        *primitive.ObjectID
	IncludeInactive bool
}
