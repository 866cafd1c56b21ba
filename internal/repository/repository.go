package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository groups every repository behind one handle.
type Repository struct {
	db         *gorm.DB
	Account    AccountRepository
	Course     CourseRepository
	Enrollment EnrollmentRepository
	File       FileRepository
}

// NewRepository builds the aggregate on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		Account:    NewAccountRepo(db),
		Course:     NewCourseRepo(db),
		Enrollment: NewEnrollmentRepo(db),
		File:       NewFileRepo(db),
	}
}

// BeginTx opens a transaction. A Repository built without a db (service
// tests) returns a nil tx.
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	return tx, tx.Error
}

// WithTx returns a Repository whose repositories all run on tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}

// Transaction runs fn inside one transaction, committing when fn returns
// nil and rolling back otherwise.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	if tx == nil {
		return fn(r)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(r.WithTx(tx)); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}
