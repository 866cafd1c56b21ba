package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sakib-101-git/EDU-ClassRepo/internal/dto"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/model"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/repository"
)

// EnrollmentService is the self-service enrollment ledger. The account id
// always comes from the caller's identity claim.
type EnrollmentService interface {
	Enroll(ctx context.Context, accountID, courseID string) error
	Unenroll(ctx context.Context, accountID, courseID string) error
	ListForAccount(ctx context.Context, accountID string) ([]dto.CourseResponse, error)
}

type enrollmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEnrollmentService creates an EnrollmentService.
func NewEnrollmentService(repo *repository.Repository, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{repo: repo, logger: logger}
}

func (s *enrollmentService) Enroll(ctx context.Context, accountID, courseID string) error {
	courseID = strings.TrimSpace(courseID)
	if courseID == "" {
		return ErrEnrollCourseRequired
	}
	if !isUUID(courseID) {
		return ErrCourseNotFound
	}

	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		if repository.IsNotFound(err) {
			return ErrCourseNotFound
		}
		s.logger.Error("get course failed", zap.String("course_id", courseID), zap.Error(err))
		return err
	}

	err := s.repo.Enrollment.Create(ctx, &model.Enrollment{AccountID: accountID, CourseID: courseID})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return ErrAlreadyEnrolled
		}
		s.logger.Error("enroll failed", zap.String("course_id", courseID), zap.Error(err))
		return err
	}
	return nil
}

func (s *enrollmentService) Unenroll(ctx context.Context, accountID, courseID string) error {
	if !isUUID(courseID) {
		return ErrNotEnrolled
	}
	n, err := s.repo.Enrollment.Delete(ctx, accountID, courseID)
	if err != nil {
		s.logger.Error("unenroll failed", zap.String("course_id", courseID), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrNotEnrolled
	}
	return nil
}

func (s *enrollmentService) ListForAccount(ctx context.Context, accountID string) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Enrollment.ListCoursesForAccount(ctx, accountID)
	if err != nil {
		s.logger.Error("list enrollments failed", zap.Error(err))
		return nil, err
	}
	return toCourseResponses(courses), nil
}
