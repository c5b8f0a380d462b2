// File: internal/interview/handler.go
package interview

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quentinL52/ai-interview-back/internal/common"
)

// maxCVUploadBytes caps résumé uploads at 10 MiB.
const maxCVUploadBytes = 10 << 20

// Handler struct holds dependencies for interview handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new interview handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for interview operations. Everything here
// requires an authenticated caller.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	interviewGroup := router.Group("/interviews")
	interviewGroup.Use(authMW)
	{
		interviewGroup.POST("/cv", h.uploadCV)
		interviewGroup.POST("/simulation/start", h.startSimulation)
		interviewGroup.POST("/simulation/:id/continue", h.continueSimulation)
		interviewGroup.POST("/feedback", h.submitFeedback)
		interviewGroup.GET("/search", h.searchTranscripts)
		interviewGroup.GET("/:id", h.getInterview)
	}
}

func (h *Handler) currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userID := common.GetUserIDFromContext(c)
	if userID == uuid.Nil {
		h.logger.Error("User ID not found in context", zap.String("path", c.Request.URL.Path))
		common.RespondWithError(c, common.ErrInternalServer.WithDetails("User identifier missing."))
		return uuid.Nil, false
	}
	return userID, true
}

func (h *Handler) uploadCV(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.logger.Warn("CV upload: missing file field", zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("A 'file' form field is required."))
		return
	}
	if fileHeader.Size > maxCVUploadBytes {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Uploaded file is too large."))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("CV upload: failed to open uploaded file", zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Could not read the uploaded file."))
		return
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, maxCVUploadBytes+1))
	if err != nil {
		h.logger.Error("CV upload: failed to read uploaded file", zap.Error(err))
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Could not read the uploaded file."))
		return
	}
	if len(content) > maxCVUploadBytes {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Uploaded file is too large."))
		return
	}

	resp, err := h.service.ProcessCVUpload(c.Request.Context(), userID, fileHeader.Filename, content)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "CV processed successfully.", resp)
}

func (h *Handler) startSimulation(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req StartSimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	resp, err := h.service.StartSimulation(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Interview started.", resp)
}

func (h *Handler) continueSimulation(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req ContinueSimulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	resp, err := h.service.ContinueSimulation(c.Request.Context(), userID, c.Param("id"), req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Interview continued.", resp)
}

func (h *Handler) submitFeedback(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	var req SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	resp, err := h.service.SubmitFeedback(c.Request.Context(), userID, req)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondCreated(c, "Feedback stored.", resp)
}

func (h *Handler) getInterview(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetInterview(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Interview retrieved.", resp)
}

func (h *Handler) searchTranscripts(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	query := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	hits, err := h.service.SearchTranscripts(c.Request.Context(), userID, query, size)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, "Search completed.", gin.H{"hits": hits})
}

func (h *Handler) bindError(c *gin.Context, err error) {
	h.logger.Warn("Invalid request body", zap.Error(err), zap.String("path", c.Request.URL.Path))
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
		return
	}
	common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
}
