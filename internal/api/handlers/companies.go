package handlers

import (
	"net/http"

	"job-tracker/internal/services"
	"job-tracker/internal/transport/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type CompanyHandler struct {
	service   services.CompanyService
	validator *validator.Validate
}

func NewCompanyHandler(service services.CompanyService, validate *validator.Validate) *CompanyHandler {
	return &CompanyHandler{service: service, validator: validate}
}

// SearchCompanies godoc
// @Summary      Company autocomplete
// @Description  Looks companies up in the public directory. Queries shorter than two characters, and directory failures, return an empty list.
// @Tags         companies
// @Produce      json
// @Param        q query string true "Company name prefix"
// @Success      200 {array}   models.DirectoryCompany "Matching companies"
// @Failure      400 {object}  map[string]interface{} "Validation failed"
// @Failure      401 {object}  map[string]string "Unauthorized"
// @Router       /companies/search [get]
// @Security     BearerAuth
func (h *CompanyHandler) SearchCompanies(c *gin.Context) {
	var req dto.CompanySearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "details": FormatValidationErrors(err)})
		return
	}
	c.JSON(http.StatusOK, h.service.Search(c.Request.Context(), &req))
}
