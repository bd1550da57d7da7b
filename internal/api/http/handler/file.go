package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/filevault/filevault-server/internal/api/http/middleware"
	"github.com/filevault/filevault-server/internal/logger"
)

// FileService defines upload, download and listing operations.
type FileService interface {
	Upload(ctx context.Context, userID uuid.UUID, filename string, size int64, reader io.Reader) (string, error)
	Download(ctx context.Context, userID uuid.UUID, filename string) (io.ReadCloser, error)
	List(ctx context.Context) ([]string, error)
}

// File handles HTTP endpoints for file storage.
type File struct {
	fileService FileService
	logger      *logger.Logger
	maxSize     int64
}

// NewFile creates a new File handler.
func NewFile(fileService FileService, logger *logger.Logger, maxSize int64) *File {
	return &File{
		fileService: fileService,
		logger:      logger,
		maxSize:     maxSize,
	}
}

// Upload accepts a multipart form with a single "file" part. The request
// body is capped slightly above the configured limit so an oversized upload
// fails fast instead of streaming to completion.
func (h *File) Upload(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "authorization required"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxSize+1024)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "a file form field is required"})
		return
	}

	h.logger.Debug("File handler: processing upload",
		"user_id", userID,
		"filename", fileHeader.Filename,
		"size", fileHeader.Size)

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "failed to read uploaded file"})
		return
	}
	defer src.Close()

	key, err := h.fileService.Upload(c.Request.Context(), userID, fileHeader.Filename, fileHeader.Size, src)
	if err != nil {
		h.logger.Error("File handler: upload failed",
			"user_id", userID,
			"filename", fileHeader.Filename,
			"error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"name": fileHeader.Filename, "stored_as": key})
}

// Download streams a stored file back under its original name.
func (h *File) Download(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "authorization required"})
		return
	}

	filename := c.Param("name")

	h.logger.Debug("File handler: processing download",
		"user_id", userID,
		"filename", filename)

	reader, err := h.fileService.Download(c.Request.Context(), userID, filename)
	if err != nil {
		h.logger.Error("File handler: download failed",
			"user_id", userID,
			"filename", filename,
			"error", err.Error())
		handleError(c, err)
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, url.PathEscape(filename)))
	c.Header("Content-Type", "application/octet-stream")
	c.Status(http.StatusOK)

	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.logger.Error("File handler: streaming failed",
			"user_id", userID,
			"filename", filename,
			"error", err.Error())
	}
}

// List returns the original names of all stored files.
func (h *File) List(c *gin.Context) {
	names, err := h.fileService.List(c.Request.Context())
	if err != nil {
		h.logger.Error("File handler: listing failed", "error", err.Error())
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"files": names})
}
