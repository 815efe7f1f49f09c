package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/placementprep/internal/app/models/dto"
	"github.com/yigit/placementprep/internal/app/services"
	"github.com/yigit/placementprep/internal/middleware"
	"github.com/yigit/placementprep/internal/pkg/helpers"
)

// AdminController handles moderation and the dashboard. Every route is
// mounted behind RequireAdmin.
type AdminController struct {
	submissionService services.SubmissionService
	companyService    services.CompanyService
	statsService      services.StatsService
}

// NewAdminController creates a new AdminController
func NewAdminController(
	submissionService services.SubmissionService,
	companyService services.CompanyService,
	statsService services.StatsService,
) *AdminController {
	return &AdminController{
		submissionService: submissionService,
		companyService:    companyService,
		statsService:      statsService,
	}
}

// ListSubmissions lists the moderation queue
// @Summary List submissions
// @Description Lists submissions newest first with their company name. Without status every submission is returned.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, approved)
// @Success 200 {object} dto.APIResponse{data=[]dto.SubmissionResponse} "Submissions retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/submissions [get]
func (c *AdminController) ListSubmissions(ctx *gin.Context) {
	subs, err := c.submissionService.ListSubmissions(ctx.Request.Context(), ctx.Query("status"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(subs))
}

// ApproveSubmission merges a submission into its company
// @Summary Approve a submission
// @Description Merges the fragment into the company document, saves the company and marks the submission approved. A company that fails validation leaves the submission pending.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.ApproveSubmissionResponse} "Submission approved"
// @Failure 400 {object} dto.ErrorResponse "Merged company failed validation"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 404 {object} dto.ErrorResponse "Submission or company not found"
// @Failure 409 {object} dto.ErrorResponse "Submission already approved"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/submissions/{id}/approve [post]
func (c *AdminController) ApproveSubmission(ctx *gin.Context) {
	resp, err := c.submissionService.ApproveSubmission(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessMessage(resp, "Submission approved and merged"))
}

// RejectSubmission deletes a submission
// @Summary Reject a submission
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Submission rejected"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 404 {object} dto.ErrorResponse "Submission not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/submissions/{id}/reject [delete]
func (c *AdminController) RejectSubmission(ctx *gin.Context) {
	if err := c.submissionService.RejectSubmission(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Submission rejected"}))
}

// ListCompanies lists companies in any moderation state
// @Summary List companies for moderation
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(pending, approved, rejected)
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=[]dto.CompanySummary} "Companies retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid status"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/companies [get]
func (c *AdminController) ListCompanies(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	companies, total, err := c.companyService.ListByStatus(ctx.Request.Context(), ctx.Query("status"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(companies, page, size, total))
}

// GetCompany returns a company in any state, submitter included
// @Summary Get company for moderation
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse} "Company retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Router /admin/companies/{id} [get]
func (c *AdminController) GetCompany(ctx *gin.Context) {
	company, err := c.companyService.GetCompanyForAdmin(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(company))
}

// ApproveCompany publishes a pending company and notifies every user
// @Summary Approve a company
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.CompanyResponse} "Company approved"
// @Failure 400 {object} dto.ErrorResponse "Company failed validation"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 409 {object} dto.ErrorResponse "Company already approved"
// @Router /admin/companies/{id}/approve [post]
func (c *AdminController) ApproveCompany(ctx *gin.Context) {
	company, err := c.companyService.ApproveCompany(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessMessage(company, "Company approved"))
}

// RejectCompany deletes a company that was never approved
// @Summary Reject a company
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Company rejected"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Failure 409 {object} dto.ErrorResponse "Company is approved"
// @Router /admin/companies/{id}/reject [delete]
func (c *AdminController) RejectCompany(ctx *gin.Context) {
	if err := c.companyService.RejectCompany(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Company rejected"}))
}

// DeleteCompany removes any company with its notifications and comments
// @Summary Delete a company
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Company deleted"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 404 {object} dto.ErrorResponse "Company not found"
// @Router /admin/companies/{id} [delete]
func (c *AdminController) DeleteCompany(ctx *gin.Context) {
	if err := c.companyService.DeleteCompany(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{Message: "Company deleted"}))
}

// GetStats returns the dashboard counters
// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.StatsResponse} "Statistics retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin access required"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/stats [get]
func (c *AdminController) GetStats(ctx *gin.Context) {
	stats, err := c.statsService.GetStats(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(stats))
}
