package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/01moynul/sweetshop-golang/internal/apperr"
)

const (
	maxUploadBytes = 5 << 20
	// room for the multipart boundaries and part headers
	maxUploadBody = maxUploadBytes + 1<<20
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// UploadImage handles POST /uploads (admin).
// It saves a sweet's picture under UPLOAD_DIR and returns its public URL.
func (h *Handlers) UploadImage(c *gin.Context) {
	// 1. Cap the body before gin parses (and spools) the multipart form
	tooLarge := apperr.New(apperr.KindTooLarge, "File is larger than 5 MB")
	if c.Request.ContentLength > maxUploadBody {
		h.respondError(c, tooLarge)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBody)

	// 2. Get the file from the request
	file, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.respondError(c, tooLarge)
			return
		}
		h.respondError(c, apperr.Validation("No file uploaded"))
		return
	}
	if file.Size > maxUploadBytes {
		h.respondError(c, tooLarge)
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		h.respondError(c, apperr.Validation("Only jpg, jpeg, png, gif and webp images are allowed"))
		return
	}

	// 3. Create the upload directory if it doesn't exist
	uploadPath := h.Config.UploadDir
	if err := os.MkdirAll(uploadPath, 0o755); err != nil {
		h.respondError(c, apperr.Internal("Failed to save file", err))
		return
	}

	// 4. Generate a safe unique filename (uuid + extension)
	newFilename := uuid.NewString() + ext
	savePath := filepath.Join(uploadPath, newFilename)

	// 5. Save the file
	if err := c.SaveUploadedFile(file, savePath); err != nil {
		h.respondError(c, apperr.Internal("Failed to save file", err))
		return
	}

	// 6. Return the public URL
	publicURL := fmt.Sprintf("%s/uploads/%s", h.Config.BaseURL, newFilename)
	c.JSON(http.StatusCreated, gin.H{"url": publicURL})
}
