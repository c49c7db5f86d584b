package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/openhrstack/speakup_app/internal/apperrors"
	portssvc "github.com/openhrstack/speakup_app/internal/core/ports/services"
	"github.com/openhrstack/speakup_app/internal/dto"
	"github.com/openhrstack/speakup_app/internal/middleware"
	"github.com/openhrstack/speakup_app/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// speakUpHandler handles HTTP requests for the speak-up workflow.
type speakUpHandler struct {
	speakUpService portssvc.SpeakUpSvcFacade
	attachmentDir  string
}

func newSpeakUpHandler(svc portssvc.SpeakUpSvcFacade, attachmentDir string) *speakUpHandler {
	return &speakUpHandler{
		speakUpService: svc,
		attachmentDir:  attachmentDir,
	}
}

// RegisterSpeakUpRoutes registers the speak-up workflow routes.
func RegisterSpeakUpRoutes(rg *gin.RouterGroup, cfg *config.Config, svc portssvc.SpeakUpSvcFacade) {
	h := newSpeakUpHandler(svc, cfg.AttachmentDir)

	// Workflow actions are deliberate, low-frequency operations; throttle
	// them harder than reads.
	rate, _ := limiter.NewRateFromFormatted("30-M")
	actionLimiter := limiter.New(memory.NewStore(), rate)

	speakUps := rg.Group("/speakups")
	{
		speakUps.POST("/search", h.searchMine)
		speakUps.POST("/search-assigned", h.searchAssigned)
		speakUps.GET("/filters", h.getFilters)
		speakUps.POST("/get-by-id", h.getByID)
		speakUps.PUT("", h.save)
		speakUps.POST("/action", middleware.RateLimit(actionLimiter), h.performAction)
		speakUps.POST("/history", h.getHistory)
		speakUps.PUT("/history", h.updateHistory)
		speakUps.GET("/attachments/:name", h.downloadAttachment)
		speakUps.GET("/dashboard", h.dashboard)
	}
}

// callerFromContext assembles the service-layer caller identity from the
// claims the auth middleware stamped onto the request.
func callerFromContext(c *gin.Context) (portssvc.Caller, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return portssvc.Caller{}, false
	}
	companyID, _ := middleware.GetCompanyIDFromContext(c)
	return portssvc.Caller{
		UserID:     userID,
		CompanyID:  companyID,
		IsApprover: middleware.IsApproverFromContext(c),
	}, true
}

// respondServiceError maps service errors to HTTP statuses.
func respondServiceError(c *gin.Context, err error, logMessage string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Speak-up not found"})
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn(logMessage, slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		logger.Warn(logMessage, slog.String("error", err.Error()))
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
	default:
		logger.Error(logMessage, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// searchMine godoc
// @Summary Search my speak-ups
// @Description Returns one page of the caller's own entries plus the authoritative total count.
// @Tags speakups
// @Accept json
// @Produce json
// @Param request body dto.SearchRequest true "Search filters"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Param sortBy query string false "Sort field"
// @Param sortOrder query string false "asc or desc"
// @Success 200 {object} dto.SearchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /speakups/search [post]
func (h *speakUpHandler) searchMine(c *gin.Context) {
	h.search(c, h.speakUpService.SearchMine)
}

// searchAssigned godoc
// @Summary Search speak-ups assigned to me
// @Description Returns actionable entries routed to the caller. Approver role required.
// @Tags speakups
// @Accept json
// @Produce json
// @Param request body dto.SearchRequest true "Search filters"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.SearchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /speakups/search-assigned [post]
func (h *speakUpHandler) searchAssigned(c *gin.Context) {
	h.search(c, h.speakUpService.SearchAssigned)
}

func (h *speakUpHandler) search(c *gin.Context, fn func(ctx context.Context, caller portssvc.Caller, params dto.SearchParams, page dto.PageQuery) (dto.SearchResponse, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind search request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}
	var page dto.PageQuery
	if err := c.ShouldBindQuery(&page); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid pagination parameters"})
		return
	}

	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := fn(c.Request.Context(), caller, req.Params, page)
	if err != nil {
		respondServiceError(c, err, "Speak-up search failed")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getFilters godoc
// @Summary Get filter vocabularies
// @Description Returns the type and status dropdown options.
// @Tags speakups
// @Produce json
// @Success 200 {object} dto.FiltersResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /speakups/filters [get]
func (h *speakUpHandler) getFilters(c *gin.Context) {
	resp, err := h.speakUpService.GetFilters(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "Failed to load speak-up filters")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getByID godoc
// @Summary Get one speak-up for editing
// @Description Resolves a payload token into the editable fields of an entry.
// @Tags speakups
// @Accept json
// @Produce json
// @Param request body dto.GetByIDRequest true "Payload token"
// @Success 200 {object} dto.SpeakUpDetail
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /speakups/get-by-id [post]
func (h *speakUpHandler) getByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.GetByIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind get-by-id request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	detail, err := h.speakUpService.GetByID(c.Request.Context(), caller, req.Params)
	if err != nil {
		respondServiceError(c, err, "Failed to get speak-up")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// save godoc
// @Summary Create or edit a speak-up
// @Description AddBtn creates a new entry; EditBtn rewrites a still-editable one.
// @Tags speakups
// @Accept json
// @Produce json
// @Param request body dto.SaveRequest true "Entry fields"
// @Success 200 {object} dto.SpeakUpDetail
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /speakups [put]
func (h *speakUpHandler) save(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind save request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger.Info("Saving speak-up", slog.String("action_by", req.Params.ActionBy))

	detail, err := h.speakUpService.Save(c.Request.Context(), caller, req.Params)
	if err != nil {
		respondServiceError(c, err, "Failed to save speak-up")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// performAction godoc
// @Summary Perform a workflow action
// @Description Executes one workflow action. Business-rule rejections come back with HTTP 200 inside the envelope.
// @Tags speakups
// @Accept json
// @Produce json
// @Param request body dto.ActionRequest true "Action parameters"
// @Success 200 {object} dto.ActionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Security BearerAuth
// @Router /speakups/action [post]
func (h *speakUpHandler) performAction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind action request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	logger.Info("Performing speak-up action", slog.String("action_by", req.Params.ActionBy))

	resp, err := h.speakUpService.PerformAction(c.Request.Context(), caller, req.Params)
	if err != nil {
		respondServiceError(c, err, "Speak-up action failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getHistory godoc
// @Summary Get the audit trail of a speak-up
// @Tags speakups
// @Accept json
// @Produce json
// @Param request body dto.HistoryRequest true "Payload token"
// @Success 200 {object} dto.HistoryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /speakups/history [post]
func (h *speakUpHandler) getHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.HistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind history request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.speakUpService.GetHistory(c.Request.Context(), caller, req.Params)
	if err != nil {
		respondServiceError(c, err, "Failed to get speak-up history")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateHistory godoc
// @Summary Append a note to a speak-up's audit trail
// @Description Adds a free-text remark without changing the entry's status.
// @Tags speakups
// @Accept json
// @Produce json
// @Param request body dto.UpdateHistoryRequest true "Note"
// @Success 204 "No Content"
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /speakups/history [put]
func (h *speakUpHandler) updateHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.UpdateHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind update-history request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.speakUpService.AppendHistoryNote(c.Request.Context(), caller, req.Params); err != nil {
		respondServiceError(c, err, "Failed to append history note")
		return
	}
	c.Status(http.StatusNoContent)
}

// downloadAttachment godoc
// @Summary Download a speak-up attachment
// @Tags speakups
// @Produce octet-stream
// @Param name path string true "Attachment file name"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /speakups/attachments/{name} [get]
func (h *speakUpHandler) downloadAttachment(c *gin.Context) {
	name := c.Param("name")

	// Reject anything that could escape the attachment directory.
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid attachment name"})
		return
	}

	c.FileAttachment(filepath.Join(h.attachmentDir, name), name)
}

// dashboard godoc
// @Summary Speak-up counts by bucket
// @Description Aggregates the caller's entries into pending/open/approved/declined buckets.
// @Tags speakups
// @Produce json
// @Success 200 {object} dto.DashboardResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /speakups/dashboard [get]
func (h *speakUpHandler) dashboard(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.speakUpService.Dashboard(c.Request.Context(), caller)
	if err != nil {
		respondServiceError(c, err, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, resp)
}
