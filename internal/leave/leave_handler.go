package leave

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"leavehub/internal/filestore"
	"leavehub/internal/shared/apperror"
	"leavehub/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const idempotencyCacheTTL = 24 * time.Hour

type Handler struct {
	service Service
	files   filestore.Store
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, files filestore.Store, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, files: files, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Submit(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("employee_id")

	var req SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.releaseIdempotencyLock(c)
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), companyID, actorID, req)
	if err != nil {
		h.releaseIdempotencyLock(c)
		h.writeServiceError(c, err)
		return
	}

	h.completeIdempotency(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("employee_id")
	role := c.GetString("role")

	resp, err := h.service.GetAll(c.Request.Context(), companyID, actorID, role)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("employee_id")
	role := c.GetString("role")

	resp, err := h.service.GetByID(c.Request.Context(), companyID, actorID, role, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, h.service.Approve)
}

func (h *Handler) Decline(c *gin.Context) {
	h.decide(c, h.service.Decline)
}

func (h *Handler) decide(c *gin.Context, fn func(ctx context.Context, companyID, approverID, id string, req DecideLeaveRequest) (LeaveResponse, error)) {
	companyID := c.GetString("company_id")
	approverID := c.GetString("employee_id")

	var req DecideLeaveRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
			response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
			return
		}
	}

	resp, err := fn(c.Request.Context(), companyID, approverID, c.Param("id"), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Cancel(c *gin.Context) {
	companyID := c.GetString("company_id")
	actorID := c.GetString("employee_id")

	if err := h.service.Cancel(c.Request.Context(), companyID, actorID, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"cancelled": true}, nil)
}

// SignAttachment hands the client a short-lived signed PUT URL so supporting
// documents go straight to object storage instead of through the API.
func (h *Handler) SignAttachment(c *gin.Context) {
	var req SignAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	signed, err := h.files.SignUpload(c.Request.Context(), req.FileName, req.ContentType)
	if err != nil {
		h.logger.Error("failed to sign attachment upload", zap.Error(err))
		httpErr := apperror.ToHTTP(apperror.ErrInternal)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, nil)
		return
	}

	response.Success(c, http.StatusOK, signed, nil)
}

// completeIdempotency caches the successful response body so a duplicate
// submit with the same Idempotency-Key replays instead of re-executing.
func (h *Handler) completeIdempotency(c *gin.Context, resp LeaveResponse) {
	cacheKey := c.GetString("idempotency_cache_key")
	if cacheKey == "" || h.rdb == nil {
		return
	}

	body, err := json.Marshal(resp)
	if err == nil {
		if err := h.rdb.Set(c.Request.Context(), cacheKey, body, idempotencyCacheTTL).Err(); err != nil {
			h.logger.Warn("failed to cache idempotent response", zap.Error(err))
		}
	}
	h.releaseIdempotencyLock(c)
}

func (h *Handler) releaseIdempotencyLock(c *gin.Context) {
	lockKey := c.GetString("idempotency_lock_key")
	if lockKey == "" || h.rdb == nil {
		return
	}
	if err := h.rdb.Del(c.Request.Context(), lockKey).Err(); err != nil {
		h.logger.Warn("failed to release idempotency lock", zap.Error(err))
	}
}
