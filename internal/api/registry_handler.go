package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"registrymail/app"
	"registrymail/internal"
	"registrymail/internal/errors"

	"github.com/gin-gonic/gin"
)

// RegistryHandler serves registry extraction and sync over HTTP
type RegistryHandler struct {
	registry  *app.RegistryService
	sync      *app.RegistrySyncService
	maxUpload int64
	logger    *internal.Logger
}

// NewRegistryHandler creates a registry handler. sync may be nil when no
// database is configured; the sync endpoint then answers 503.
func NewRegistryHandler(registry *app.RegistryService, sync *app.RegistrySyncService, maxUploadBytes int64, logger *internal.Logger) *RegistryHandler {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &RegistryHandler{
		registry:  registry,
		sync:      sync,
		maxUpload: maxUploadBytes,
		logger:    logger.WithField("component", "api"),
	}
}

// NewRouter builds the gin engine with all registry routes
func NewRouter(h *RegistryHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger())
	router.MaxMultipartMemory = h.maxUpload

	router.GET("/healthz", h.Health)

	api := router.Group("/api/registry")
	api.POST("/extract", h.Extract)
	api.POST("/sync", h.Sync)

	return router
}

// Health reports liveness
func (h *RegistryHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Extract accepts a workbook upload in the "file" field and returns its records
func (h *RegistryHandler) Extract(c *gin.Context) {
	path, cleanup, ok := h.receiveUpload(c)
	if !ok {
		return
	}
	defer cleanup()

	records, err := h.registry.Extract(c.Request.Context(), path)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, records)
}

// Sync extracts an uploaded workbook and syncs the records to the business table
func (h *RegistryHandler) Sync(c *gin.Context) {
	if h.sync == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Registry sync requires a database"})
		return
	}

	dryRun, err := strconv.ParseBool(c.DefaultQuery("dry_run", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dry_run must be a boolean"})
		return
	}

	path, cleanup, ok := h.receiveUpload(c)
	if !ok {
		return
	}
	defer cleanup()

	records, err := h.registry.Extract(c.Request.Context(), path)
	if err != nil {
		h.writeError(c, err)
		return
	}

	report, err := h.sync.Sync(c.Request.Context(), records, dryRun)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.PureJSON(http.StatusOK, report)
}

// receiveUpload spools the "file" form field to a temp file that keeps the
// upload's extension, so the reader can be chosen by format
func (h *RegistryHandler) receiveUpload(c *gin.Context) (string, func(), bool) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}

	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A workbook upload in field 'file' is required"})
		return "", nil, false
	}

	if err := h.registry.CheckFormat(header.Filename); err != nil {
		h.writeError(c, err)
		return "", nil, false
	}

	tmp, err := os.CreateTemp("", "registry-upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		h.writeError(c, errors.Wrap(err, "failed to create temp file"))
		return "", nil, false
	}
	tmpPath := tmp.Name()
	tmp.Close()
	cleanup := func() { os.Remove(tmpPath) }

	if err := c.SaveUploadedFile(header, tmpPath); err != nil {
		cleanup()
		h.writeError(c, errors.Wrap(err, "failed to store upload"))
		return "", nil, false
	}

	return tmpPath, cleanup, true
}

func (h *RegistryHandler) writeError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := statusForCode(code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": code})
}

func statusForCode(code string) int {
	switch code {
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeUnsupportedFormat:
		return http.StatusUnsupportedMediaType
	case errors.CodeSchemaError:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *RegistryHandler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.WithFields(map[string]interface{}{
			"status":   c.Writer.Status(),
			"duration": time.Since(start).Round(time.Millisecond).String(),
		}).Info("%s %s", c.Request.Method, c.Request.URL.Path)
	}
}
