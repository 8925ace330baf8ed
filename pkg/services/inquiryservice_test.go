package services

import (
	"context"
	"testing"

	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newInquiryFixture() (InquiryService, *fakeInquiryRepo, *models.Product, *models.Product) {
	products := &fakeProductRepo{}
	active := &models.Product{ID: primitive.NewObjectID(), Name: "Saffron", IsActive: true}
	retired := &models.Product{ID: primitive.NewObjectID(), Name: "Old Tea", IsActive: false}
	products.items = []*models.Product{active, retired}
	inquiries := &fakeInquiryRepo{}
	return NewInquiryService(inquiries, products), inquiries, active, retired
}

func TestCreateInquiry(t *testing.T) {
	ctx := context.Background()
	s, inquiries, active, retired := newInquiryFixture()

	inquiry, err := s.CreateInquiry(ctx, models.InquiryRequest{
		Product: active.ID.Hex(),
		Name:    " Mira ",
		Email:   "Mira@Buyer.COM",
		Message: "Do you ship 20ft containers?",
	})
	if err != nil {
		t.Fatalf("CreateInquiry() error = %v", err)
	}
	if inquiry.Status != models.InquiryPending || inquiry.Email != "mira@buyer.com" || inquiry.Name != "Mira" {
		t.Errorf("inquiry = %+v", inquiry)
	}
	if inquiry.Product == nil || inquiry.Product.Name != "Saffron" {
		t.Errorf("Product = %+v, want Saffron", inquiry.Product)
	}
	if len(inquiries.items) != 1 || inquiries.items[0].ProductID != active.ID {
		t.Errorf("stored = %+v", inquiries.items)
	}

	tests := []struct {
		name string
		req  models.InquiryRequest
		kind ErrorKind
	}{
		{"missing message", models.InquiryRequest{Product: active.ID.Hex(), Name: "A", Email: "a@b.co"}, KindValidation},
		{"bad email", models.InquiryRequest{Product: active.ID.Hex(), Name: "A", Email: "nope", Message: "hi"}, KindValidation},
		{"bad product id", models.InquiryRequest{Product: "saffron", Name: "A", Email: "a@b.co", Message: "hi"}, KindValidation},
		{"inactive product", models.InquiryRequest{Product: retired.ID.Hex(), Name: "A", Email: "a@b.co", Message: "hi"}, KindNotFound},
		{"unknown product", models.InquiryRequest{Product: primitive.NewObjectID().Hex(), Name: "A", Email: "a@b.co", Message: "hi"}, KindNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.CreateInquiry(ctx, tt.req); !IsKind(err, tt.kind) {
				t.Errorf("CreateInquiry() error = %v, want %s", err, tt.kind)
			}
		})
	}
	if len(inquiries.items) != 1 {
		t.Errorf("rejected inquiries were stored: %d", len(inquiries.items))
	}
}

func TestGetInquiriesPopulatesProducts(t *testing.T) {
	ctx := context.Background()
	s, inquiries, active, _ := newInquiryFixture()
	gone := primitive.NewObjectID()
	inquiries.items = []*models.Inquiry{
		{ID: primitive.NewObjectID(), ProductID: active.ID, Status: models.InquiryPending},
		{ID: primitive.NewObjectID(), ProductID: active.ID, Status: models.InquiryResolved},
		{ID: primitive.NewObjectID(), ProductID: gone, Status: models.InquiryPending},
	}

	got, count, err := s.GetInquiries(ctx, models.InquiryFilter{Status: models.InquiryPending}, util.PaginationArgs{Limit: 10})
	if err != nil {
		t.Fatalf("GetInquiries() error = %v", err)
	}
	if count != 2 || len(got) != 2 {
		t.Fatalf("GetInquiries() = %d inquiries, count %d; want 2, 2", len(got), count)
	}
	if got[0].Product == nil || got[0].Product.Name != "Saffron" {
		t.Errorf("got[0].Product = %+v", got[0].Product)
	}
	if got[1].Product != nil {
		t.Errorf("inquiry for a removed product got %+v", got[1].Product)
	}

	if _, _, err := s.GetInquiries(ctx, models.InquiryFilter{Status: "Open"}, util.PaginationArgs{Limit: 10}); !IsKind(err, KindValidation) {
		t.Errorf("GetInquiries(bad status) error = %v", err)
	}
}

func TestUpdateAndDeleteInquiry(t *testing.T) {
	ctx := context.Background()
	s, inquiries, active, _ := newInquiryFixture()
	id := primitive.NewObjectID()
	inquiries.items = []*models.Inquiry{{ID: id, ProductID: active.ID, Status: models.InquiryPending}}

	contacted := models.InquiryContacted
	notes := " called back "
	got, err := s.UpdateInquiry(ctx, id, models.InquiryUpdateRequest{Status: &contacted, Notes: &notes})
	if err != nil {
		t.Fatalf("UpdateInquiry() error = %v", err)
	}
	if got.Status != models.InquiryContacted || got.Notes != "called back" || got.Product == nil {
		t.Errorf("UpdateInquiry() = %+v", got)
	}

	bogus := models.InquiryStatus("Open")
	if _, err := s.UpdateInquiry(ctx, id, models.InquiryUpdateRequest{Status: &bogus}); !IsKind(err, KindValidation) {
		t.Errorf("UpdateInquiry(bad status) error = %v", err)
	}
	if _, err := s.UpdateInquiry(ctx, id, models.InquiryUpdateRequest{}); !IsKind(err, KindValidation) {
		t.Errorf("UpdateInquiry(empty) error = %v", err)
	}
	if _, err := s.UpdateInquiry(ctx, primitive.NewObjectID(), models.InquiryUpdateRequest{Notes: &notes}); !IsKind(err, KindNotFound) {
		t.Errorf("UpdateInquiry(missing) error = %v", err)
	}

	if err := s.DeleteInquiry(ctx, id); err != nil {
		t.Fatalf("DeleteInquiry() error = %v", err)
	}
	if _, err := s.GetInquiry(ctx, id); !IsKind(err, KindNotFound) {
		t.Errorf("GetInquiry(deleted) error = %v", err)
	}
	if err := s.DeleteInquiry(ctx, id); !IsKind(err, KindNotFound) {
		t.Errorf("DeleteInquiry(twice) error = %v", err)
	}
}
