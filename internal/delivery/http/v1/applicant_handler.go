package v1

import (
	"net/http"
	"strconv"

	"go-biodata-backend/internal/delivery/http/middleware"
	"go-biodata-backend/internal/delivery/http/response"
	"go-biodata-backend/internal/domain"
	"go-biodata-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const (
	msgBiodataCreated   = "Biodata created successfully"
	msgBiodataUpdated   = "Biodata updated successfully"
	msgApplicantDeleted = "Applicant deleted successfully"
	msgInvalidApplicant = "Invalid applicant id"
	msgInvalidBody      = "Invalid request body"
	msgNotAuthenticated = "User not authenticated"
)

type ApplicantHandler struct {
	applicantUC domain.ApplicantUsecase
}

// ApplicantRequest is the create-or-update payload
type ApplicantRequest = domain.ApplicantInput

type UpsertResponse struct {
	Message   string            `json:"message"`
	Applicant *domain.Applicant `json:"applicant"`
}

type ApplicantResponse struct {
	Applicant *domain.Applicant `json:"applicant"`
}

type ApplicantListResponse struct {
	Applicants []domain.Applicant `json:"applicants"`
}

func NewApplicantHandler(protected *gin.RouterGroup, applicantUC domain.ApplicantUsecase, policy domain.AccessPolicy) {
	handler := &ApplicantHandler{applicantUC: applicantUC}

	applicants := protected.Group("/applicants")
	{
		// Owner routes
		applicants.POST("", handler.Upsert)
		applicants.GET("/me", handler.GetMine)

		// Admin routes
		admin := applicants.Group("")
		admin.Use(middleware.RequireAdmin(policy))
		{
			admin.GET("", handler.List)
			admin.GET("/export", handler.Export)
			admin.GET("/:id", handler.GetByID)
			admin.DELETE("/:id", handler.Delete)
		}
	}
}

// Upsert godoc
// @Summary      Create or update own biodata
// @Description  Creates the caller's biodata on first call and overwrites it afterwards
// @Tags         applicants
// @Accept       json
// @Produce      json
// @Param        applicant  body      ApplicantRequest  true  "Biodata"
// @Success      200  {object}  UpsertResponse
// @Failure      400  {object}  response.ErrorBody
// @Failure      401  {object}  response.ErrorBody
// @Failure      500  {object}  response.ErrorBody
// @Router       /applicants [post]
// @Security     BearerAuth
func (h *ApplicantHandler) Upsert(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.Error(apperror.Unauthorized(msgNotAuthenticated))
		return
	}

	var req ApplicantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest(msgInvalidBody))
		return
	}

	result, err := h.applicantUC.Upsert(c.Request.Context(), identity, &req)
	if err != nil {
		c.Error(err)
		return
	}

	message := msgBiodataUpdated
	if result.Created {
		message = msgBiodataCreated
	}
	c.JSON(http.StatusOK, UpsertResponse{Message: message, Applicant: result.Applicant})
}

// GetMine godoc
// @Summary      Get own biodata
// @Tags         applicants
// @Produce      json
// @Success      200  {object}  ApplicantResponse
// @Failure      401  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /applicants/me [get]
// @Security     BearerAuth
func (h *ApplicantHandler) GetMine(c *gin.Context) {
	identity, ok := middleware.CurrentIdentity(c)
	if !ok {
		c.Error(apperror.Unauthorized(msgNotAuthenticated))
		return
	}

	applicant, err := h.applicantUC.GetMine(c.Request.Context(), identity)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ApplicantResponse{Applicant: applicant})
}

// List godoc
// @Summary      List all biodata (Admin only)
// @Tags         applicants
// @Produce      json
// @Success      200  {object}  ApplicantListResponse
// @Failure      401  {object}  response.ErrorBody
// @Failure      403  {object}  response.ErrorBody
// @Router       /applicants [get]
// @Security     BearerAuth
func (h *ApplicantHandler) List(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	applicants, err := h.applicantUC.ListAll(c.Request.Context(), identity)
	if err != nil {
		c.Error(err)
		return
	}
	if applicants == nil {
		applicants = []domain.Applicant{}
	}
	c.JSON(http.StatusOK, ApplicantListResponse{Applicants: applicants})
}

// GetByID godoc
// @Summary      Get biodata by id (Admin only)
// @Tags         applicants
// @Produce      json
// @Param        id   path      int  true  "Applicant ID"
// @Success      200  {object}  ApplicantResponse
// @Failure      400  {object}  response.ErrorBody
// @Failure      403  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /applicants/{id} [get]
// @Security     BearerAuth
func (h *ApplicantHandler) GetByID(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	id, ok := applicantID(c)
	if !ok {
		return
	}

	applicant, err := h.applicantUC.GetByID(c.Request.Context(), identity, id)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ApplicantResponse{Applicant: applicant})
}

// Delete godoc
// @Summary      Delete biodata (Admin only)
// @Tags         applicants
// @Produce      json
// @Param        id   path      int  true  "Applicant ID"
// @Success      200  {object}  response.MessageBody
// @Failure      400  {object}  response.ErrorBody
// @Failure      403  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /applicants/{id} [delete]
// @Security     BearerAuth
func (h *ApplicantHandler) Delete(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	id, ok := applicantID(c)
	if !ok {
		return
	}

	if err := h.applicantUC.Delete(c.Request.Context(), identity, id); err != nil {
		c.Error(err)
		return
	}
	response.Message(c, http.StatusOK, msgApplicantDeleted)
}

// Export godoc
// @Summary      Export all biodata (Admin only)
// @Description  Downloads every profile as an Excel workbook (default) or CSV
// @Tags         applicants
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      text/csv
// @Param        format  query  string  false  "xlsx or csv"
// @Success      200  {file}    file
// @Failure      400  {object}  response.ErrorBody
// @Failure      403  {object}  response.ErrorBody
// @Router       /applicants/export [get]
// @Security     BearerAuth
func (h *ApplicantHandler) Export(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	file, err := h.applicantUC.Export(c.Request.Context(), identity, c.Query("format"))
	if err != nil {
		c.Error(err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+file.Filename)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}

func applicantID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.Error(apperror.BadRequest(msgInvalidApplicant))
		return 0, false
	}
	return id, true
}
