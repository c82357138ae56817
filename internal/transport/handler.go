package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"go-image-classifier/internal/config"
	apperrors "go-image-classifier/internal/errors"
	"go-image-classifier/internal/logger"
	"go-image-classifier/internal/observer"
	"go-image-classifier/internal/repository"
	"go-image-classifier/internal/service"
	"go-image-classifier/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const version = "1.0.0"

// Handler serves classification requests for remote and uploaded images
type Handler struct {
	service service.ClassificationService
	remote  repository.ImageRepository
	events  observer.Subject
	metrics *observer.MetricsObserver
	cfg     *config.Config
}

// NewHandler builds the gin router; metrics may be nil to disable GET /metrics
func NewHandler(
	svc service.ClassificationService,
	remote repository.ImageRepository,
	events observer.Subject,
	metrics *observer.MetricsObserver,
	cfg *config.Config,
) http.Handler {
	if events == nil {
		events = observer.NewEventPublisher()
	}
	h := &Handler{
		service: svc,
		remote:  remote,
		events:  events,
		metrics: metrics,
		cfg:     cfg,
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		requestLogger(),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.POST("/classify", h.classifyURL)
	r.POST("/classify/upload", h.classifyUpload)
	if metrics != nil {
		r.GET("/metrics", h.getMetrics)
	}

	return r
}

func (h *Handler) classifyURL(c *gin.Context) {
	var req models.ClassificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request format", err)
		return
	}

	options := service.DefaultOptions().WithPrompt(req.Prompt)
	if req.Binary != nil {
		options = options.WithBinary(*req.Binary)
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	start := time.Now()
	record, err := h.remote.ReadImage(ctx, req.URL)
	if err != nil {
		_ = c.Error(err).SetMeta("failed to load image")
		return
	}

	h.classify(ctx, c, record, urlFilename(req.URL), options, start)
}

func (h *Handler) classifyUpload(c *gin.Context) {
	start := time.Now()

	file, err := c.FormFile("image")
	if err != nil {
		respondError(c, http.StatusBadRequest, "missing image upload",
			apperrors.NewValidationError("form field 'image' is required", err))
		return
	}

	options := service.DefaultOptions().WithPrompt(c.PostForm("prompt"))
	if raw := c.PostForm("binary"); raw != "" {
		binary, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid binary flag",
				apperrors.NewValidationError("binary must be true or false", err))
			return
		}
		options = options.WithBinary(binary)
	}

	data, err := readUpload(file)
	if err != nil {
		_ = c.Error(apperrors.NewInternalError("cannot read upload", err))
		return
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	record := &models.ImageRecord{Path: file.Filename, Data: data}
	h.classify(ctx, c, record, path.Base(file.Filename), options, start)
}

// classify runs the shared pipeline; a failed classification is still a 200 with an absent or unparseable kind.
func (h *Handler) classify(ctx context.Context, c *gin.Context, record *models.ImageRecord, filename string, options service.ClassificationOptions, start time.Time) {
	id := models.NewRunID().String()
	h.events.NotifyObservers(ctx, observer.ClassificationEvent{
		EventType: observer.ImageStarted,
		RunID:     id,
		Index:     1,
		ImagePath: record.Path,
	})

	value := h.service.ClassifyImage(ctx, record, options)
	result := models.ClassificationResult{
		Filename: filename,
		Value:    value,
		Elapsed:  time.Since(start),
	}

	eventType := observer.ImageClassified
	if value.Failed() {
		eventType = observer.ImageFailed
	}
	h.events.NotifyObservers(ctx, observer.ClassificationEvent{
		EventType:      eventType,
		RunID:          id,
		Index:          1,
		ImagePath:      record.Path,
		ProcessingTime: result.Elapsed,
		Result:         value.String(),
		Err:            value.Err,
	})

	c.JSON(http.StatusOK, models.NewClassificationResponse(id, h.service.Model(), result))
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.cfg.RequestTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.cfg.RequestTimeout)
}

func (h *Handler) getMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.GetMetrics())
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// urlFilename names a remote image by the last element of its URL path
func urlFilename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return rawURL
	}
	return path.Base(u.Path)
}

// Middleware and helper functions
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithFields(logrus.Fields{
			"method":             c.Request.Method,
			"path":               c.Request.URL.Path,
			"status":             c.Writer.Status(),
			"ip":                 c.ClientIP(),
			"processing_time_ms": time.Since(start).Milliseconds(),
		}).Info("Request handled")
	}
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			last := c.Errors.Last()
			message := "request processing failed"
			if meta, ok := last.Meta.(string); ok {
				message = meta
			}
			respondError(c, determineStatusCode(last.Err), message, last.Err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
