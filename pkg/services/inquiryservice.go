package services

import (
	"context"
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

type inquiryService struct {
	inquiries InquiryRepository
	products  ProductRepository
}

func NewInquiryService(inquiries InquiryRepository, products ProductRepository) InquiryService {
	return &inquiryService{inquiries: inquiries, products: products}
}

// CreateInquiry records a buyer inquiry against an active product. New
// inquiries start out Pending.
func (s *inquiryService) CreateInquiry(ctx context.Context, req models.InquiryRequest) (*models.Inquiry, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	message := strings.TrimSpace(req.Message)
	switch {
	case name == "":
		return nil, ValidationError("Name is required")
	case message == "":
		return nil, ValidationError("Message is required")
	}

	productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.Product))
	if err != nil {
		return nil, ValidationError("Invalid product ID")
	}
	product, err := s.products.FindByID(ctx, productID, true)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFoundError("Product not found or is not active")
	}
	if err != nil {
		return nil, InfrastructureError(err, "look up product")
	}

	now := time.Now()
	inquiry := &models.Inquiry{
		ProductID:   product.ID,
		Name:        name,
		Email:       normalizeEmail(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		CompanyName: strings.TrimSpace(req.CompanyName),
		Message:     message,
		Status:      models.InquiryPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.inquiries.Insert(ctx, inquiry); err != nil {
		return nil, InfrastructureError(err, "create inquiry")
	}
	inquiry.Product = product.Summary()

	util.LogInfo("inquiry received",
		zap.String("inquiryId", inquiry.ID.Hex()),
		zap.String("productId", product.ID.Hex()),
	)
	return inquiry, nil
}

func (s *inquiryService) GetInquiries(ctx context.Context, filter models.InquiryFilter, pagination util.PaginationArgs) ([]models.Inquiry, int64, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, ValidationError("Invalid status value")
	}
	inquiries, count, err := s.inquiries.Find(ctx, filter, pagination)
	if err != nil {
		return nil, 0, InfrastructureError(err, "list inquiries")
	}

	refs := make([]*models.Inquiry, len(inquiries))
	for i := range inquiries {
		refs[i] = &inquiries[i]
	}
	if err := s.populate(ctx, refs...); err != nil {
		return nil, 0, err
	}
	return inquiries, count, nil
}

func (s *inquiryService) GetInquiry(ctx context.Context, id primitive.ObjectID) (*models.Inquiry, error) {
	inquiry, err := s.inquiries.FindByID(ctx, id)
	if err != nil {
		return nil, inquiryLookupError(err)
	}
	if err := s.populate(ctx, inquiry); err != nil {
		return nil, err
	}
	return inquiry, nil
}

func (s *inquiryService) UpdateInquiry(ctx context.Context, id primitive.ObjectID, req models.InquiryUpdateRequest) (*models.Inquiry, error) {
	if req.Status == nil && req.Notes == nil {
		return nil, ValidationError("No update data provided (status or notes)")
	}

	set := bson.M{}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, ValidationError("Invalid status value")
		}
		set["status"] = *req.Status
	}
	if req.Notes != nil {
		set["notes"] = strings.TrimSpace(*req.Notes)
	}

	inquiry, err := s.inquiries.Update(ctx, id, set)
	if err != nil {
		return nil, inquiryLookupError(err)
	}
	if err := s.populate(ctx, inquiry); err != nil {
		return nil, err
	}
	return inquiry, nil
}

func (s *inquiryService) DeleteInquiry(ctx context.Context, id primitive.ObjectID) error {
	if err := s.inquiries.Delete(ctx, id); err != nil {
		return inquiryLookupError(err)
	}
	return nil
}

// populate fills in the product summary. Inquiries whose product has been
// removed keep a nil product.
func (s *inquiryService) populate(ctx context.Context, inquiries ...*models.Inquiry) error {
	ids := make([]primitive.ObjectID, 0, len(inquiries))
	seen := map[primitive.ObjectID]bool{}
	for _, q := range inquiries {
		if !seen[q.ProductID] {
			seen[q.ProductID] = true
			ids = append(ids, q.ProductID)
		}
	}

	products, err := s.products.FindByIDs(ctx, ids)
	if err != nil {
		return InfrastructureError(err, "load inquiry products")
	}
	byID := make(map[primitive.ObjectID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	for _, q := range inquiries {
		if p, ok := byID[q.ProductID]; ok {
			q.Product = p.Summary()
		}
	}
	return nil
}

func inquiryLookupError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return NotFoundError("Inquiry not found")
	}
	return InfrastructureError(err, "inquiry store")
}
