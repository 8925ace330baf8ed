package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/store"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	msgVendorCodeExists  = "Vendor code already exists"
	msgVendorEmailExists = "Email already exists"

	vendorCodeAttempts = 50
)

type vendorService struct {
	vendors  VendorRepository
	uploader Uploader
}

func NewVendorService(vendors VendorRepository, uploader Uploader) VendorService {
	return &vendorService{vendors: vendors, uploader: uploader}
}

func (s *vendorService) CreateVendor(ctx context.Context, req models.VendorRequest) (*models.Vendor, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	company := strings.TrimSpace(req.CompanyName)
	email := normalizeEmail(req.Email)
	switch {
	case name == "":
		return nil, ValidationError("Vendor name is required")
	case company == "":
		return nil, ValidationError("Company name is required")
	case email == "":
		return nil, ValidationError("Email is required")
	case req.BusinessType == "":
		return nil, ValidationError("Business type is required")
	}

	code := strings.ToUpper(strings.TrimSpace(req.VendorCode))
	if code == "" {
		generated, err := s.nextVendorCode(ctx)
		if err != nil {
			return nil, err
		}
		code = generated
	}
	if err := s.ensureUnique(ctx, "vendorCode", code, primitive.NilObjectID, msgVendorCodeExists); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, "email", email, primitive.NilObjectID, msgVendorEmailExists); err != nil {
		return nil, err
	}

	now := time.Now()
	vendor := &models.Vendor{
		Name:                 name,
		CompanyName:          company,
		VendorCode:           code,
		Email:                email,
		Phone:                strings.TrimSpace(req.Phone),
		Website:              strings.TrimSpace(req.Website),
		BusinessType:         req.BusinessType,
		Industry:             strings.TrimSpace(req.Industry),
		Specialization:       trimList(req.Specialization),
		Currency:             models.DefaultCurrency,
		ProductCategories:    req.ProductCategories,
		MinimumOrderQuantity: 1,
		LeadTime:             1,
		SamplePolicy:         strings.TrimSpace(req.SamplePolicy),
		Status:               models.VendorStatusPending,
		Notes:                req.Notes,
		Tags:                 trimList(req.Tags),
		InitialProducts:      NormalizeDrafts(req.InitialProducts),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if vendor.ProductCategories == nil {
		vendor.ProductCategories = []primitive.ObjectID{}
	}
	if req.Address != nil {
		vendor.Address = *req.Address
	}
	if c := strings.ToUpper(strings.TrimSpace(req.Currency)); c != "" {
		vendor.Currency = c
	}
	if req.MinimumOrderQuantity != nil {
		vendor.MinimumOrderQuantity = *req.MinimumOrderQuantity
	}
	if req.LeadTime != nil {
		vendor.LeadTime = *req.LeadTime
	}
	if req.Status != "" {
		vendor.Status = req.Status
	}
	if req.Verified != nil && *req.Verified {
		vendor.Verified = true
		vendor.VerificationDate = &now
	}

	if err := s.vendors.Insert(ctx, vendor); err != nil {
		return nil, storeError(err, "create vendor", "Vendor code or email already exists")
	}

	util.LogInfo("vendor created",
		zap.String("vendorId", vendor.ID.Hex()),
		zap.String("vendorCode", vendor.VendorCode),
		zap.Int("drafts", len(vendor.InitialProducts)),
	)
	return vendor, nil
}

func (s *vendorService) GetVendor(ctx context.Context, id primitive.ObjectID) (*models.Vendor, error) {
	vendor, err := s.vendors.FindByID(ctx, id)
	if err != nil {
		return nil, vendorLookupError(err)
	}
	return vendor, nil
}

func (s *vendorService) GetVendors(ctx context.Context, filter models.VendorFilter, pagination util.PaginationArgs) ([]models.Vendor, int64, error) {
	vendors, count, err := s.vendors.Find(ctx, filter, pagination)
	if err != nil {
		return nil, 0, InfrastructureError(err, "list vendors")
	}
	return vendors, count, nil
}

func (s *vendorService) GetVendorStats(ctx context.Context) (*models.VendorStats, error) {
	stats, err := s.vendors.Stats(ctx)
	if err != nil {
		return nil, InfrastructureError(err, "vendor stats")
	}
	return stats, nil
}

// UpdateVendor applies the non-empty fields of req. When req carries
// initialProducts the stored drafts are replaced by the new list as a whole.
func (s *vendorService) UpdateVendor(ctx context.Context, id primitive.ObjectID, req models.VendorRequest) (*models.Vendor, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	existing, err := s.vendors.FindByID(ctx, id)
	if err != nil {
		return nil, vendorLookupError(err)
	}

	set := bson.M{}
	if code := strings.ToUpper(strings.TrimSpace(req.VendorCode)); code != "" && code != existing.VendorCode {
		if err := s.ensureUnique(ctx, "vendorCode", code, id, msgVendorCodeExists); err != nil {
			return nil, err
		}
		set["vendorCode"] = code
	}
	if email := normalizeEmail(req.Email); email != "" && email != existing.Email {
		if err := s.ensureUnique(ctx, "email", email, id, msgVendorEmailExists); err != nil {
			return nil, err
		}
		set["email"] = email
	}

	setIfText(set, "name", req.Name)
	setIfText(set, "companyName", req.CompanyName)
	setIfText(set, "phone", req.Phone)
	setIfText(set, "website", req.Website)
	setIfText(set, "businessType", req.BusinessType)
	setIfText(set, "industry", req.Industry)
	setIfText(set, "samplePolicy", req.SamplePolicy)
	setIfText(set, "notes", req.Notes)
	if c := strings.ToUpper(strings.TrimSpace(req.Currency)); c != "" {
		set["currency"] = c
	}
	if req.Address != nil {
		set["address"] = *req.Address
	}
	if req.Specialization != nil {
		set["specialization"] = trimList(req.Specialization)
	}
	if req.Tags != nil {
		set["tags"] = trimList(req.Tags)
	}
	if req.ProductCategories != nil {
		set["productCategories"] = req.ProductCategories
	}
	if req.MinimumOrderQuantity != nil {
		set["minimumOrderQuantity"] = *req.MinimumOrderQuantity
	}
	if req.LeadTime != nil {
		set["leadTime"] = *req.LeadTime
	}
	if req.Status != "" {
		set["status"] = req.Status
	}
	if req.Verified != nil {
		addVerification(set, *req.Verified)
	}
	if req.InitialProducts != nil {
		set["initialProducts"] = NormalizeDrafts(req.InitialProducts)
	}

	if len(set) == 0 {
		return existing, nil
	}

	updated, err := s.vendors.Update(ctx, id, set)
	if err != nil {
		return nil, vendorWriteError(err)
	}
	return updated, nil
}

// ReplaceDrafts overwrites the vendor's initial products with drafts. Drafts
// are not matched against the stored list by name or position.
func (s *vendorService) ReplaceDrafts(ctx context.Context, id primitive.ObjectID, drafts []any) (*models.Vendor, error) {
	normalized := NormalizeDrafts(drafts)
	updated, err := s.vendors.Update(ctx, id, bson.M{"initialProducts": normalized})
	if err != nil {
		return nil, vendorWriteError(err)
	}
	return updated, nil
}

func (s *vendorService) UpdateVendorStatus(ctx context.Context, id primitive.ObjectID, status models.VendorStatus) (*models.Vendor, error) {
	if !status.Valid() {
		return nil, ValidationError("Invalid status")
	}
	updated, err := s.vendors.Update(ctx, id, bson.M{"status": status})
	if err != nil {
		return nil, vendorWriteError(err)
	}
	return updated, nil
}

func (s *vendorService) VerifyVendor(ctx context.Context, id primitive.ObjectID, verified bool) (*models.Vendor, error) {
	set := bson.M{}
	addVerification(set, verified)
	updated, err := s.vendors.Update(ctx, id, set)
	if err != nil {
		return nil, vendorWriteError(err)
	}
	return updated, nil
}

// DeleteVendor deactivates the vendor. The document and its drafts are kept.
func (s *vendorService) DeleteVendor(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.UpdateVendorStatus(ctx, id, models.VendorStatusInactive)
	return err
}

func (s *vendorService) AddCertificationFile(ctx context.Context, id primitive.ObjectID, draftIndex int, file any) (*models.Vendor, error) {
	vendor, err := s.vendors.FindByID(ctx, id)
	if err != nil {
		return nil, vendorLookupError(err)
	}
	if draftIndex < 0 || draftIndex >= len(vendor.InitialProducts) {
		return nil, NotFoundError("Draft product %d not found", draftIndex)
	}

	if s.uploader == nil {
		return nil, InfrastructureError(errUploadsDisabled, "upload unavailable")
	}
	url, err := s.uploader.Upload(ctx, file, "vendors/"+vendor.VendorCode)
	if err != nil {
		return nil, InfrastructureError(err, "upload certification file")
	}

	updated, err := s.vendors.AppendCertificationFile(ctx, id, draftIndex, url)
	if err != nil {
		return nil, vendorWriteError(err)
	}
	return updated, nil
}

// nextVendorCode numbers codes after the current vendor count, skipping codes
// that were assigned by hand.
func (s *vendorService) nextVendorCode(ctx context.Context) (string, error) {
	count, err := s.vendors.Count(ctx)
	if err != nil {
		return "", InfrastructureError(err, "count vendors")
	}

	for i := int64(1); i <= vendorCodeAttempts; i++ {
		code := fmt.Sprintf("VEN%04d", count+i)
		_, err := s.vendors.FindByField(ctx, "vendorCode", code, primitive.NilObjectID)
		if errors.Is(err, store.ErrNotFound) {
			return code, nil
		}
		if err != nil {
			return "", InfrastructureError(err, "look up vendor code")
		}
	}
	return "", ConflictError("Could not generate a free vendor code")
}

func (s *vendorService) ensureUnique(ctx context.Context, field, value string, exclude primitive.ObjectID, message string) error {
	_, err := s.vendors.FindByField(ctx, field, value, exclude)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil
	case err != nil:
		return InfrastructureError(err, "look up vendor "+field)
	default:
		return ConflictError("%s", message)
	}
}

func addVerification(set bson.M, verified bool) {
	set["verified"] = verified
	if verified {
		set["verificationDate"] = time.Now()
	} else {
		set["verificationDate"] = nil
	}
}

func setIfText(set bson.M, key, value string) {
	if v := strings.TrimSpace(value); v != "" {
		set[key] = v
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func vendorLookupError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundError("Vendor not found")
	}
	return InfrastructureError(err, "look up vendor")
}

func vendorWriteError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return NotFoundError("Vendor not found")
	case store.IsDuplicateKey(err):
		return ConflictError("Vendor code or email already exists")
	default:
		return InfrastructureError(err, "update vendor")
	}
}
