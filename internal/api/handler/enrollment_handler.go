package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sakib-101-git/EDU-ClassRepo/internal/dto"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/service"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/response"
)

// EnrollmentHandler self-service enrollment endpoints.
type EnrollmentHandler struct {
	enrollmentSvc service.EnrollmentService
	logger        *zap.Logger
}

// NewEnrollmentHandler creates an EnrollmentHandler.
func NewEnrollmentHandler(enrollmentSvc service.EnrollmentService, logger *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{enrollmentSvc: enrollmentSvc, logger: logger}
}

// List GET /api/enrollments
func (h *EnrollmentHandler) List(c *gin.Context) {
	accountID, ok := MustGetAccountID(c)
	if !ok {
		return
	}

	result, err := h.enrollmentSvc.ListForAccount(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}

// Enroll POST /api/enrollments
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	accountID, ok := MustGetAccountID(c)
	if !ok {
		return
	}
	var req dto.EnrollRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.enrollmentSvc.Enroll(c.Request.Context(), accountID, req.CourseID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, nil)
}

// Unenroll DELETE /api/enrollments/:courseId
func (h *EnrollmentHandler) Unenroll(c *gin.Context) {
	accountID, ok := MustGetAccountID(c)
	if !ok {
		return
	}

	if err := h.enrollmentSvc.Unenroll(c.Request.Context(), accountID, c.Param("courseId")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}
