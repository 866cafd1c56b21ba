package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sakib-101-git/EDU-ClassRepo/internal/dto"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/service"
	apperr "github.com/sakib-101-git/EDU-ClassRepo/pkg/errors"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/response"
)

var errImportFileMissing = apperr.New(apperr.KindMissingFile, 10401, "no spreadsheet uploaded")

// CourseHandler course catalog endpoints.
type CourseHandler struct {
	courseSvc service.CourseService
	logger    *zap.Logger
}

// NewCourseHandler creates a CourseHandler.
func NewCourseHandler(courseSvc service.CourseService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc, logger: logger}
}

// List GET /api/courses
func (h *CourseHandler) List(c *gin.Context) {
	result, err := h.courseSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}

// Get GET /api/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	result, err := h.courseSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}

// Create POST /api/courses
func (h *CourseHandler) Create(c *gin.Context) {
	callerID, ok := MustGetAccountID(c)
	if !ok {
		return
	}
	var req dto.CourseRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.courseSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, result)
}

// Update PUT /api/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	callerID, ok := MustGetAccountID(c)
	if !ok {
		return
	}
	var req dto.CourseRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.courseSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}

// Delete DELETE /api/courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	if err := h.courseSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// Import POST /api/courses/import (multipart "file", .xlsx)
func (h *CourseHandler) Import(c *gin.Context) {
	callerID, ok := MustGetAccountID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, h.logger, multipartError(err, errImportFileMissing))
		return
	}
	f, err := header.Open()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer f.Close()

	rows, err := h.courseSvc.ParseImportFile(f)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.courseSvc.ImportCourses(c.Request.Context(), rows, callerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}
