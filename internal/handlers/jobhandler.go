package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/job-posts/internal/dtos"
	"github.com/justsurfingit/job-posts/internal/repository"
	"github.com/justsurfingit/job-posts/internal/services"
)

// JobHandler translates HTTP requests into JobPostService calls.
type JobHandler struct {
	JobService *services.JobPostService
	LLMService *services.LLMService // nil disables draft extraction
}

// NewJobHandler creates the handler with dependencies
func NewJobHandler(j *services.JobPostService, llm *services.LLMService) *JobHandler {
	return &JobHandler{
		JobService: j,
		LLMService: llm,
	}
}

// RegisterRoutes mounts the job post endpoints on api
func (h *JobHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/health", h.HealthCheck)

	api.GET("/job-posts", h.ListJobPosts)
	api.GET("/job-posts/:id", h.GetJobPost)
	api.POST("/job-posts", h.CreateJobPost)
	api.POST("/job-posts/draft", h.DraftJobPost)
	api.PUT("/job-posts/:id", h.UpdateJobPost)
	api.DELETE("/job-posts/:id", h.DeleteJobPost)
}

// ListJobPosts is GET /job-posts
func (h *JobHandler) ListJobPosts(c *gin.Context) {
	posts, err := h.JobService.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

// GetJobPost is GET /job-posts/:id
func (h *JobHandler) GetJobPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	post, err := h.JobService.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// CreateJobPost is POST /job-posts
func (h *JobHandler) CreateJobPost(c *gin.Context) {
	var req dtos.JobPostRequest
	if !bindBody(c, &req) {
		return
	}
	post, err := h.JobService.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// UpdateJobPost is PUT /job-posts/:id. The body must carry every field.
func (h *JobHandler) UpdateJobPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	var req dtos.JobPostRequest
	if !bindBody(c, &req) {
		return
	}
	post, err := h.JobService.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

// DeleteJobPost is DELETE /job-posts/:id
func (h *JobHandler) DeleteJobPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	if err := h.JobService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DraftJobPost is POST /job-posts/draft. Nothing is stored.
func (h *JobHandler) DraftJobPost(c *gin.Context) {
	if h.LLMService == nil {
		c.JSON(http.StatusServiceUnavailable, dtos.ErrorResponse{Error: dtos.MsgDraftDisabled})
		return
	}
	var req dtos.DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if tooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, dtos.ErrorResponse{Error: dtos.MsgBodyTooLarge})
			return
		}
		c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: "rawText is required"})
		return
	}
	draft, err := h.LLMService.DraftJobPost(c.Request.Context(), req.RawText)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadGateway, dtos.ErrorResponse{Error: dtos.MsgDraftFailed})
		return
	}
	c.JSON(http.StatusOK, dtos.DraftResponse{Draft: draft})
}

// HealthCheck is GET /health
func (h *JobHandler) HealthCheck(c *gin.Context) {
	n, err := h.JobService.Count(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dtos.HealthResponse{Status: "ok", Posts: n})
}

// postID parses the :id path parameter. A malformed id cannot match any post,
// so it is answered like an unknown one.
func postID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, dtos.ErrorResponse{Error: dtos.MsgNotFound})
		return 0, false
	}
	return id, true
}

// bindBody decodes a JSON body into dst. An empty body decodes to zero values
// and is left for field validation to reject.
func bindBody(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	if tooLarge(err) {
		c.JSON(http.StatusRequestEntityTooLarge, dtos.ErrorResponse{Error: dtos.MsgBodyTooLarge})
		return false
	}
	c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: "Invalid JSON format: " + err.Error()})
	return false
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: dtos.MsgFieldsRequired})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, dtos.ErrorResponse{Error: dtos.MsgNotFound})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dtos.ErrorResponse{Error: dtos.MsgInternal})
	}
}
