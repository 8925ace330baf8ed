package controllers

import (
	"net/http"

	"github.com/aparajitverma/TheExportExpress-sub003/internal/helpers"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/services"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type InquiryController struct {
	inquiryService services.InquiryService
}

func InitInquiryController(inquiryService services.InquiryService) *InquiryController {
	return &InquiryController{inquiryService: inquiryService}
}

// CreateInquiry handles POST /v1/inquiries. It is public.
func (ic *InquiryController) CreateInquiry() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		var req models.InquiryRequest
		if !BindJSON(c, &req) {
			return
		}

		inquiry, err := ic.inquiryService.CreateInquiry(ctx, req)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusCreated, "Inquiry submitted successfully", inquiry)
	}
}

// GetInquiries handles GET /v1/inquiries
func (ic *InquiryController) GetInquiries() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		filter := models.InquiryFilter{Status: models.InquiryStatus(c.Query("status"))}
		if product := c.Query("productId"); product != "" {
			id, err := primitive.ObjectIDFromHex(product)
			if err != nil {
				HandleServiceError(c, services.ValidationError("Invalid productId"))
				return
			}
			filter.ProductID = &id
		}

		pagination := helpers.GetPaginationArgs(c)
		inquiries, count, err := ic.inquiryService.GetInquiries(ctx, filter, pagination)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		HandlePaginationAndResponse(c, inquiries, count, pagination, "success")
	}
}

// GetInquiry handles GET /v1/inquiries/:id
func (ic *InquiryController) GetInquiry() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}

		inquiry, err := ic.inquiryService.GetInquiry(ctx, id)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", inquiry)
	}
}

// UpdateInquiry handles PATCH /v1/inquiries/:id
func (ic *InquiryController) UpdateInquiry() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}

		var req models.InquiryUpdateRequest
		if !BindJSON(c, &req) {
			return
		}

		inquiry, err := ic.inquiryService.UpdateInquiry(ctx, id, req)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Inquiry updated successfully", inquiry)
	}
}

// DeleteInquiry handles DELETE /v1/inquiries/:id
func (ic *InquiryController) DeleteInquiry() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}

		if err := ic.inquiryService.DeleteInquiry(ctx, id); err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Inquiry deleted successfully", nil)
	}
}
