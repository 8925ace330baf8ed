package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type VendorStatus string

const (
	VendorStatusActive    VendorStatus = "active"
	VendorStatusInactive  VendorStatus = "inactive"
	VendorStatusPending   VendorStatus = "pending"
	VendorStatusSuspended VendorStatus = "suspended"
)

func (s VendorStatus) Valid() bool {
	switch s {
	case VendorStatusActive, VendorStatusInactive, VendorStatusPending, VendorStatusSuspended:
		return true
	}
	return false
}

type VendorAddress struct {
	Street     string `bson:"street" json:"street"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	Country    string `bson:"country" json:"country"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
}

type Vendor struct {
	ID                   primitive.ObjectID   `bson:"_id" json:"_id"`
	Name                 string               `bson:"name" json:"name"`
	CompanyName          string               `bson:"companyName" json:"companyName"`
	VendorCode           string               `bson:"vendorCode" json:"vendorCode"`
	Email                string               `bson:"email" json:"email"`
	Phone                string               `bson:"phone" json:"phone"`
	Website              string               `bson:"website,omitempty" json:"website,omitempty"`
	Address              VendorAddress        `bson:"address" json:"address"`
	BusinessType         string               `bson:"businessType" json:"businessType"`
	Industry             string               `bson:"industry" json:"industry"`
	Specialization       []string             `bson:"specialization" json:"specialization"`
	Currency             string               `bson:"currency" json:"currency"`
	ProductCategories    []primitive.ObjectID `bson:"productCategories" json:"productCategories"`
	MinimumOrderQuantity int                  `bson:"minimumOrderQuantity" json:"minimumOrderQuantity"`
	LeadTime             int                  `bson:"leadTime" json:"leadTime"`
	SamplePolicy         string               `bson:"samplePolicy" json:"samplePolicy"`
	Rating               float64              `bson:"rating" json:"rating"`
	ReliabilityScore     float64              `bson:"reliabilityScore" json:"reliabilityScore"`
	QualityScore         float64              `bson:"qualityScore" json:"qualityScore"`
	DeliveryScore        float64              `bson:"deliveryScore" json:"deliveryScore"`
	Status               VendorStatus         `bson:"status" json:"status"`
	Verified             bool                 `bson:"verified" json:"verified"`
	VerificationDate     *time.Time           `bson:"verificationDate,omitempty" json:"verificationDate,omitempty"`
	Notes                string               `bson:"notes" json:"notes"`
	Tags                 []string             `bson:"tags" json:"tags"`
	InitialProducts      []DraftProduct       `bson:"initialProducts" json:"initialProducts"`
	CreatedAt            time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// DraftProduct is a vendor-embedded product description that has not been
// promoted to a catalog product.
type DraftProduct struct {
	Name                 string            `bson:"name" json:"name"`
	CurrentPrice         *float64          `bson:"currentPrice,omitempty" json:"currentPrice,omitempty"`
	Currency             string            `bson:"currency" json:"currency"`
	Unit                 string            `bson:"unit,omitempty" json:"unit,omitempty"`
	MinimumOrderQuantity *float64          `bson:"minimumOrderQuantity,omitempty" json:"minimumOrderQuantity,omitempty"`
	LeadTime             *float64          `bson:"leadTime,omitempty" json:"leadTime,omitempty"`
	HSCode               string            `bson:"hscCode,omitempty" json:"hscCode,omitempty"`
	AdditionalComment    string            `bson:"additionalComment,omitempty" json:"additionalComment,omitempty"`
	PackagingOptions     []PackagingOption `bson:"packagingOptions" json:"packagingOptions"`
	CertificationFiles   []string          `bson:"certificationFiles" json:"certificationFiles"`
}

type PackagingOption struct {
	Option         string   `bson:"option" json:"option"`
	PricePerOption *float64 `bson:"pricePerOption,omitempty" json:"pricePerOption,omitempty"`
}

// VendorRequest is the create/update payload. InitialProducts stays loosely
// typed because drafts arrive with text or numeric fields interchangeably.
type VendorRequest struct {
	Name                 string               `json:"name"`
	CompanyName          string               `json:"companyName"`
	VendorCode           string               `json:"vendorCode"`
	Email                string               `json:"email" validate:"omitempty,email"`
	Phone                string               `json:"phone"`
	Website              string               `json:"website"`
	Address              *VendorAddress       `json:"address"`
	BusinessType         string               `json:"businessType" validate:"omitempty,oneof=manufacturer wholesaler distributor exporter supplier"`
	Industry             string               `json:"industry"`
	Specialization       []string             `json:"specialization"`
	Currency             string               `json:"currency"`
	ProductCategories    []primitive.ObjectID `json:"productCategories"`
	MinimumOrderQuantity *int                 `json:"minimumOrderQuantity" validate:"omitempty,min=1"`
	LeadTime             *int                 `json:"leadTime" validate:"omitempty,min=1"`
	SamplePolicy         string               `json:"samplePolicy"`
	Status               VendorStatus         `json:"status" validate:"omitempty,oneof=active inactive pending suspended"`
	Verified             *bool                `json:"verified"`
	Notes                string               `json:"notes"`
	Tags                 []string             `json:"tags"`
	InitialProducts      []any                `json:"initialProducts"`
}

type VendorFilter struct {
	Search       string
	Status       VendorStatus
	BusinessType string
	Industry     string
	Country      string
	Verified     *bool
}

type VendorStats struct {
	TotalVendors    int64   `bson:"totalVendors" json:"totalVendors"`
	ActiveVendors   int64   `bson:"activeVendors" json:"activeVendors"`
	PendingVendors  int64   `bson:"pendingVendors" json:"pendingVendors"`
	VerifiedVendors int64   `bson:"verifiedVendors" json:"verifiedVendors"`
	AvgRating       float64 `bson:"avgRating" json:"avgRating"`
}
