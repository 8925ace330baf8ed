package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aparajitverma/TheExportExpress-sub003/internal/helpers"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/models"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/services"
	"github.com/aparajitverma/TheExportExpress-sub003/pkg/util"

	"github.com/gin-gonic/gin"
)

type VendorController struct {
	vendorService services.VendorService
	maxUploadSize int64
}

func InitVendorController(vendorService services.VendorService, maxUploadSize int64) *VendorController {
	return &VendorController{vendorService: vendorService, maxUploadSize: maxUploadSize}
}

type vendorStatusRequest struct {
	Status models.VendorStatus `json:"status"`
}

type vendorVerifyRequest struct {
	Verified *bool `json:"verified"`
}

type vendorDraftsRequest struct {
	InitialProducts []any `json:"initialProducts"`
}

// GetVendors handles GET /v1/vendors
func (vc *VendorController) GetVendors() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		filter := models.VendorFilter{
			Search:       strings.TrimSpace(c.Query("search")),
			Status:       models.VendorStatus(c.Query("status")),
			BusinessType: c.Query("businessType"),
			Industry:     strings.TrimSpace(c.Query("industry")),
			Country:      strings.TrimSpace(c.Query("country")),
			Verified:     helpers.BoolQuery(c, "verified"),
		}

		pagination := helpers.GetPaginationArgs(c)
		vendors, count, err := vc.vendorService.GetVendors(ctx, filter, pagination)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		HandlePaginationAndResponse(c, vendors, count, pagination, "success")
	}
}

// GetVendorStats handles GET /v1/vendors/stats
func (vc *VendorController) GetVendorStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		stats, err := vc.vendorService.GetVendorStats(ctx)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", stats)
	}
}

// GetVendor handles GET /v1/vendors/:id
func (vc *VendorController) GetVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}

		vendor, err := vc.vendorService.GetVendor(ctx, id)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "success", vendor)
	}
}

// CreateVendor handles POST /v1/vendors
func (vc *VendorController) CreateVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		var req models.VendorRequest
		if !BindJSON(c, &req) {
			return
		}

		vendor, err := vc.vendorService.CreateVendor(ctx, req)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusCreated, "Vendor created successfully", vendor)
	}
}

// UpdateVendor handles PUT /v1/vendors/:id
func (vc *VendorController) UpdateVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}

		var req models.VendorRequest
		if !BindJSON(c, &req) {
			return
		}

		vendor, err := vc.vendorService.UpdateVendor(ctx, id, req)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Vendor updated successfully", vendor)
	}
}

// ReplaceDrafts handles PUT /v1/vendors/:id/products
func (vc *VendorController) ReplaceDrafts() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}

		var req vendorDraftsRequest
		if !BindJSON(c, &req) {
			return
		}
		if req.InitialProducts == nil {
			HandleServiceError(c, services.ValidationError("initialProducts is required"))
			return
		}

		vendor, err := vc.vendorService.ReplaceDrafts(ctx, id, req.InitialProducts)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Vendor products updated successfully", vendor)
	}
}

// UpdateVendorStatus handles PATCH /v1/vendors/:id/status
func (vc *VendorController) UpdateVendorStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}

		var req vendorStatusRequest
		if !BindJSON(c, &req) {
			return
		}

		vendor, err := vc.vendorService.UpdateVendorStatus(ctx, id, req.Status)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Vendor status updated successfully", vendor)
	}
}

// VerifyVendor handles PATCH /v1/vendors/:id/verify
func (vc *VendorController) VerifyVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}

		req := vendorVerifyRequest{}
		if c.Request.ContentLength != 0 && !BindJSON(c, &req) {
			return
		}
		verified := true
		if req.Verified != nil {
			verified = *req.Verified
		}

		vendor, err := vc.vendorService.VerifyVendor(ctx, id, verified)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Vendor verification updated successfully", vendor)
	}
}

// DeleteVendor handles DELETE /v1/vendors/:id
func (vc *VendorController) DeleteVendor() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}

		if err := vc.vendorService.DeleteVendor(ctx, id); err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Vendor deleted successfully", nil)
	}
}

// AddCertificationFile handles POST /v1/vendors/:id/products/:index/certifications
// with a multipart "file".
func (vc *VendorController) AddCertificationFile() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := WithTimeout(c)
		defer cancel()

		id, ok := ParseObjectIDParam(c, "id")
		if !ok {
			return
		}
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil {
			HandleServiceError(c, services.ValidationError("Invalid product index"))
			return
		}

		file, err := helpers.OpenFormFile(c, helpers.UploadField, vc.maxUploadSize)
		if err != nil {
			HandleServiceError(c, err)
			return
		}
		defer file.Close()

		vendor, err := vc.vendorService.AddCertificationFile(ctx, id, index, file)
		if err != nil {
			HandleServiceError(c, err)
			return
		}

		util.HandleSuccess(c, http.StatusOK, "Certification file uploaded successfully", vendor)
	}
}
