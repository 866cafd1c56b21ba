package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sakib-101-git/EDU-ClassRepo/internal/model"
)

// EnrollmentRepository is the enrollment ledger.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *model.Enrollment) error
	Delete(ctx context.Context, accountID, courseID string) (int64, error)
	DeleteByCourse(ctx context.Context, courseID string) error
	ListCoursesForAccount(ctx context.Context, accountID string) ([]model.Course, error)
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo creates an EnrollmentRepository.
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

// Create relies on the (account_id, course_id) primary key for uniqueness.
func (r *enrollmentRepo) Create(ctx context.Context, enrollment *model.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepo) Delete(ctx context.Context, accountID, courseID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("account_id = ? AND course_id = ?", accountID, courseID).
		Delete(&model.Enrollment{})
	return result.RowsAffected, result.Error
}

func (r *enrollmentRepo) DeleteByCourse(ctx context.Context, courseID string) error {
	return r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Delete(&model.Enrollment{}).Error
}

func (r *enrollmentRepo) ListCoursesForAccount(ctx context.Context, accountID string) ([]model.Course, error) {
	var courses []model.Course
	err := r.db.WithContext(ctx).
		Joins("JOIN enrollments e ON e.course_id = courses.course_id").
		Where("e.account_id = ?", accountID).
		Order("courses.department ASC, courses.code ASC").
		Find(&courses).Error
	return courses, err
}
