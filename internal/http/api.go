package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"filedrop/internal/domain"
	"filedrop/internal/service"
)

const (
	msgNoFile       = "No file uploaded"
	msgMissingKey   = "Key is required"
	msgUploadFailed = "Upload failed"
	msgListFailed   = "Failed to list files"
	msgDeleteFailed = "Failed to delete file"
	msgDeleted      = "File deleted"
)

// Handler wires HTTP routes to the file service.
type Handler struct {
	files  service.FileService
	logger logrus.FieldLogger
}

func NewHandler(files service.FileService, logger logrus.FieldLogger) *Handler {
	return &Handler{
		files:  files,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	api := router.Group("/api")
	{
		api.POST("/upload", h.upload)
		api.GET("/list", h.list)
		api.DELETE("/delete", h.delete)
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})
	}
}

type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoFile})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.logger.WithError(err).WithField("file", header.Filename).Error("open uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgUploadFailed})
		return
	}
	defer file.Close()

	url, err := h.files.Upload(c.Request.Context(), header.Filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgNoFile})
			return
		}
		h.logger.WithError(err).WithField("file", header.Filename).Error("upload to store")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgUploadFailed})
		return
	}

	c.JSON(http.StatusOK, uploadResponse{Success: true, URL: url})
}

func (h *Handler) list(c *gin.Context) {
	files, err := h.files.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("list files")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgListFailed})
		return
	}
	if files == nil {
		files = []domain.StoredObject{}
	}

	c.JSON(http.StatusOK, files)
}

func (h *Handler) delete(c *gin.Context) {
	key := c.Query("key")
	if err := h.files.Delete(c.Request.Context(), key); err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingKey})
			return
		}
		h.logger.WithError(err).WithField("key", key).Error("delete file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgDeleteFailed})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": msgDeleted})
}
