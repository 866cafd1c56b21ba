package handler

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sakib-101-git/EDU-ClassRepo/internal/api/middleware"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/dto"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/service"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/response"
)

// FileHandler file moderation endpoints.
type FileHandler struct {
	fileSvc        service.FileService
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewFileHandler creates a FileHandler.
func NewFileHandler(fileSvc service.FileService, maxUploadBytes int64, logger *zap.Logger) *FileHandler {
	return &FileHandler{fileSvc: fileSvc, maxUploadBytes: maxUploadBytes, logger: logger}
}

// multipartError maps a multipart read failure: a missing part becomes
// missing, an oversized body becomes a payload error.
func multipartError(err error, missing error) error {
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return missing
	case middleware.IsBodyTooLarge(err):
		return middleware.ErrBodyTooLarge
	default:
		return errBadBody.Wrap(err)
	}
}

// Upload POST /api/files (multipart "file", "courseId")
func (h *FileHandler) Upload(c *gin.Context) {
	accountID, ok := MustGetAccountID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	in := &service.UploadInput{
		UploaderID:   accountID,
		UploaderRole: role,
	}

	header, err := c.FormFile("file")
	if err != nil {
		if mapped := multipartError(err, service.ErrNoFile); mapped != service.ErrNoFile {
			respondError(c, h.logger, mapped)
			return
		}
	} else {
		if header.Size > h.maxUploadBytes {
			respondError(c, h.logger, service.ErrFileTooLarge.WithMessage("file exceeds the %d MB limit", h.maxUploadBytes>>20))
			return
		}
		f, err := header.Open()
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		defer f.Close()
		in.Content = f
		in.FileName = header.Filename
		in.Size = header.Size
		in.ContentType = header.Header.Get("Content-Type")
	}
	in.CourseID = c.PostForm("courseId")

	result, err := h.fileSvc.Upload(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, result)
}

// ListApproved GET /api/files/:courseId
func (h *FileHandler) ListApproved(c *gin.Context) {
	result, err := h.fileSvc.ListApprovedForCourse(c.Request.Context(), c.Param("courseId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}

// ListPending GET /api/files/pending/all
func (h *FileHandler) ListPending(c *gin.Context) {
	result, err := h.fileSvc.ListPending(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}

// Approve PUT /api/files/:id/approve
func (h *FileHandler) Approve(c *gin.Context) {
	if err := h.fileSvc.Approve(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// Rename PUT /api/files/:id/rename
func (h *FileHandler) Rename(c *gin.Context) {
	var req dto.RenameFileRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.fileSvc.Rename(c.Request.Context(), c.Param("id"), req.NewName); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// Reject DELETE /api/files/:id/reject
func (h *FileHandler) Reject(c *gin.Context) {
	if err := h.fileSvc.Reject(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// Delete DELETE /api/files/:id (uploader or admin)
func (h *FileHandler) Delete(c *gin.Context) {
	accountID, ok := MustGetAccountID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	if err := h.fileSvc.Delete(c.Request.Context(), c.Param("id"), accountID, role); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// Download GET /api/files/download/:id
func (h *FileHandler) Download(c *gin.Context) {
	accountID, ok := MustGetAccountID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	dl, err := h.fileSvc.Download(c.Request.Context(), c.Param("id"), accountID, role)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer dl.Body.Close()

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": dl.Name})
	if disposition == "" {
		disposition = "attachment"
	}
	c.DataFromReader(http.StatusOK, dl.Size, dl.ContentType, dl.Body, map[string]string{
		"Content-Disposition": disposition,
		"X-File-Size":         strconv.FormatInt(dl.Size, 10),
	})
}
