package service

import (
	"go.uber.org/zap"

	"github.com/sakib-101-git/EDU-ClassRepo/config"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/repository"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/blobstore"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/jwt"
)

// Service groups every service behind one handle.
type Service struct {
	Auth        AuthService
	Course      CourseService
	Enrollment  EnrollmentService
	File        FileService
	Maintenance MaintenanceService
}

// Deps are the collaborators shared by the services. Revoker and Notifier
// may be nil.
type Deps struct {
	Repo     *repository.Repository
	JWT      *jwt.Manager
	Blobs    blobstore.Store
	Revoker  TokenRevoker
	Notifier Notifier
}

// NewService builds the aggregate.
func NewService(cfg *config.Config, deps Deps, logger *zap.Logger) *Service {
	admins := NewAdminList(cfg.Auth.AdminEmails)
	return &Service{
		Auth:        NewAuthService(cfg, deps.Repo, deps.JWT, admins, deps.Revoker, deps.Notifier, logger),
		Course:      NewCourseService(deps.Repo, deps.Blobs, logger),
		Enrollment:  NewEnrollmentService(deps.Repo, logger),
		File:        NewFileService(&cfg.Storage, deps.Repo, deps.Blobs, deps.Notifier, logger),
		Maintenance: NewMaintenanceService(&cfg.Auth, deps.Repo, deps.Blobs, admins, logger),
	}
}
