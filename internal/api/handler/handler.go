package handler

import (
	"go.uber.org/zap"

	"github.com/sakib-101-git/EDU-ClassRepo/internal/service"
)

// Handler groups every HTTP handler.
type Handler struct {
	Auth       *AuthHandler
	Course     *CourseHandler
	Enrollment *EnrollmentHandler
	File       *FileHandler
}

// NewHandler builds the aggregate.
func NewHandler(svc *service.Service, maxUploadBytes int64, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth, logger),
		Course:     NewCourseHandler(svc.Course, logger),
		Enrollment: NewEnrollmentHandler(svc.Enrollment, logger),
		File:       NewFileHandler(svc.File, maxUploadBytes, logger),
	}
}
