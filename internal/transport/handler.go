package transport

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"corri/internal/config"
	apperrors "corri/internal/errors"
	"corri/internal/logger"
	"corri/internal/service"
	"corri/pkg/models"
	"corri/pkg/validation"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/static"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	// Version is reported by the health endpoint
	Version = "1.0.0"

	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"

	msgInternal     = "분석 중 오류 발생"
	msgBadMultipart = "잘못된 요청 형식입니다."
)

// NewHandler wires the routes and middleware of the API
func NewHandler(svc service.AnalysisService, cfg *config.Config, gatherer prometheus.Gatherer) http.Handler {
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(
		requestID(),
		gin.CustomRecovery(recoverPanic),
		requestLogger(),
		corsMiddleware(cfg.CORSOrigins),
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(cfg.ExposeDebug),
	)

	if cfg.StaticDir != "" {
		r.Use(static.Serve("/", static.LocalFile(cfg.StaticDir, false)))
	}

	// Configure routes
	r.GET("/health", healthCheck(cfg))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	r.POST("/api/analyze", analyzeImage(svc, validation.NewImageValidator(cfg.MaxImageSize), cfg))

	return r
}

func analyzeImage(svc service.AnalysisService, v *validation.ImageValidator, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		reqID := c.GetString(requestIDKey)
		log := logger.ForRequest(reqID)

		file, err := c.FormFile("image")
		if err != nil {
			_ = c.Error(uploadError(err))
			return
		}

		// Reject on the declared size before reading the part
		if err := v.CheckSize(file.Size); err != nil {
			_ = c.Error(err)
			return
		}

		data, err := readUpload(file, v.MaxSize())
		if err != nil {
			_ = c.Error(err)
			return
		}

		mimeType, err := v.DetectMIME(data, file.Header.Get("Content-Type"))
		if err != nil {
			_ = c.Error(err)
			return
		}

		hint := c.PostForm("hint")
		log.WithFields(logrus.Fields{
			"filename":  file.Filename,
			"size":      len(data),
			"mime_type": mimeType,
			"hint":      hint,
		}).Debug("Upload accepted")

		result, err := svc.Analyze(ctx, models.AnalysisRequest{
			RequestID: reqID,
			Image:     data,
			MIMEType:  mimeType,
			Hint:      hint,
		})
		if err != nil {
			_ = c.Error(err)
			return
		}

		log.WithFields(logrus.Fields{
			"processing_time_ms": time.Since(startTime).Milliseconds(),
			"name_en":            result.Top1.NameEN,
			"confidence":         result.Top1.Confidence,
		}).Info("Organism analysis request completed")

		c.JSON(http.StatusOK, result)
	}
}

// uploadError maps a multipart parse failure onto the invalid input kind
func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return apperrors.NewInvalidInputError(validation.MsgMissingImage, err)
	case errors.As(err, &tooLarge):
		return apperrors.NewInvalidInputError(validation.MsgImageTooLarge, err)
	default:
		return apperrors.NewInvalidInputError(msgBadMultipart, err)
	}
}

// readUpload reads at most limit+1 bytes so an understated part size is still caught
func readUpload(file *multipart.FileHeader, limit int64) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, apperrors.NewInvalidInputError(msgBadMultipart, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, apperrors.NewInvalidInputError(msgBadMultipart, err)
	}
	return data, nil
}

func healthCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:   "available",
			Version:  Version,
			Provider: cfg.Provider,
			Model:    cfg.Model(),
			Time:     time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Middleware and helper functions
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.ForRequest(c.GetString(requestIDKey)).WithFields(logrus.Fields{
			"method":             c.Request.Method,
			"path":               c.Request.URL.Path,
			"status":             c.Writer.Status(),
			"ip":                 c.ClientIP(),
			"user_agent":         c.Request.UserAgent(),
			"processing_time_ms": time.Since(start).Milliseconds(),
		}).Info("Request handled")
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || containsWildcard(origins) {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler(exposeDebug bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			respondError(c, c.Errors.Last().Err, exposeDebug)
		}
	}
}

func recoverPanic(c *gin.Context, recovered interface{}) {
	logger.ForRequest(c.GetString(requestIDKey)).
		WithField("panic", recovered).
		Error("Recovered from panic")
	respondError(c, apperrors.NewInternalError(msgInternal, nil), false)
}

func respondError(c *gin.Context, err error, exposeDebug bool) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.NewInternalError(msgInternal, err)
	}

	body := models.ErrorResponse{
		Error: appErr.Message,
		Kind:  string(appErr.Kind),
	}
	if appErr.Kind == apperrors.KindUnknown {
		body.Error = msgInternal
	}
	if exposeDebug && (appErr.Raw != "" || len(appErr.Issues) > 0) {
		body.Debug = &models.DebugInfo{
			Raw:    appErr.Raw,
			Issues: appErr.Issues,
		}
	}

	// Log the error with context
	logger.ForRequest(c.GetString(requestIDKey)).WithError(err).WithFields(logrus.Fields{
		"status_code": appErr.StatusCode,
		"kind":        appErr.Kind,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(appErr.StatusCode, body)
}
