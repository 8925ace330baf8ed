package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InquiryStatus string

const (
	InquiryPending   InquiryStatus = "Pending"
	InquiryContacted InquiryStatus = "Contacted"
	InquiryResolved  InquiryStatus = "Resolved"
	InquirySpam      InquiryStatus = "Spam"
)

func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryPending, InquiryContacted, InquiryResolved, InquirySpam:
		return true
	}
	return false
}

// Inquiry is a buyer's question about one product, sent from the public
// site and worked by staff.
type Inquiry struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	ProductID   primitive.ObjectID `bson:"product" json:"-"`
	Product     *ProductSummary    `bson:"-" json:"product"`
	Name        string             `bson:"name" json:"name"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"phone,omitempty" json:"phone,omitempty"`
	CompanyName string             `bson:"companyName,omitempty" json:"companyName,omitempty"`
	Message     string             `bson:"message" json:"message"`
	Status      InquiryStatus      `bson:"status" json:"status"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type InquiryRequest struct {
	Product     string `json:"product" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone"`
	CompanyName string `json:"companyName"`
	Message     string `json:"message" validate:"required"`
}

// InquiryUpdateRequest changes status, notes or both. Nil fields are left
// alone.
type InquiryUpdateRequest struct {
	Status *InquiryStatus `json:"status"`
	Notes  *string        `json:"notes"`
}

type InquiryFilter struct {
	Status    InquiryStatus
	ProductID *primitive.ObjectID
}
