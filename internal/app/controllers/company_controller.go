package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/placementprep/internal/app/models"
	"github.com/yigit/placementprep/internal/app/models/dto"
	"github.com/yigit/placementprep/internal/app/services"
	"github.com/yigit/placementprep/internal/middleware"
	"github.com/yigit/placementprep/internal/pkg/helpers"
)

// CompanyController handles the public company endpoints
type CompanyController struct {
	companyService services.CompanyService
}

// NewCompanyController creates a new CompanyController
func NewCompanyController(companyService services.CompanyService) *CompanyController {
	return &CompanyController{companyService: companyService}
}

// ListCompanies lists approved companies
// @Summary List companies
// @Description Lists approved companies, optionally filtered by a case-insensitive name search
// @Tags companies
// @Produce json
// @Param search query string false "Name contains"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=[]dto.CompanySummary} "Companies retrieved successfully"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies [get]
func (c *CompanyController) ListCompanies(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	companies, total, err := c.companyService.ListCompanies(ctx.Request.Context(), ctx.Query("search"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(companies, page, size, total))
}

// GetCompany returns one approved company
// @Summary Get company details
// @Description Returns an approved company with aligned online question arrays and a signed video link
// @Tags companies
// @Produce json
// @Param id path string true "Company ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse} "Company retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid company ID"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies/{id} [get]
func (c *CompanyController) GetCompany(ctx *gin.Context) {
	viewer, _ := middleware.CurrentIdentity(ctx)

	company, err := c.companyService.GetCompany(ctx.Request.Context(), ctx.Param("id"), viewer.Email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(company))
}

// CreateCompany submits a new company for review
// @Summary Submit a company
// @Description Creates a company record in pending state. Status, submitter and engagement fields in the body are ignored.
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Company true "Company document"
// @Success 201 {object} dto.APIResponse{data=dto.CompanyResponse} "Company submitted for review"
// @Failure 400 {object} dto.ErrorResponse "Invalid company data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies [post]
func (c *CompanyController) CreateCompany(ctx *gin.Context) {
	id, ok := mustIdentity(ctx)
	if !ok {
		return
	}
	var company models.Company
	if !middleware.BindJSON(ctx, &company) {
		return
	}

	created, err := c.companyService.CreateCompany(ctx.Request.Context(), id, &company)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessMessage(created, "Company submitted for review"))
}

// MarkHelpful records a helpful vote
// @Summary Mark a company as helpful
// @Description Each user can mark a company helpful once
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.HelpfulResponse} "Vote recorded"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 409 {object} dto.ErrorResponse "Already voted"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies/{id}/helpful [post]
func (c *CompanyController) MarkHelpful(ctx *gin.Context) {
	id, ok := mustIdentity(ctx)
	if !ok {
		return
	}

	resp, err := c.companyService.Upvote(ctx.Request.Context(), ctx.Param("id"), id.Email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// RateDifficulty records an interview difficulty rating
// @Summary Rate interview difficulty
// @Description Adds a 1-5 rating and returns the updated mean
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID" Format(uuid)
// @Param request body dto.RateDifficultyRequest true "Rating"
// @Success 200 {object} dto.APIResponse{data=dto.DifficultyResponse} "Rating recorded"
// @Failure 400 {object} dto.ErrorResponse "Rating out of range"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /companies/{id}/rate-difficulty [post]
func (c *CompanyController) RateDifficulty(ctx *gin.Context) {
	var req dto.RateDifficultyRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.companyService.RateDifficulty(ctx.Request.Context(), ctx.Param("id"), req.Rating)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
