package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sakib-101-git/EDU-ClassRepo/internal/model"
)

// FileRepository is the file metadata store.
type FileRepository interface {
	Create(ctx context.Context, file *model.File) error
	GetByID(ctx context.Context, id string) (*model.File, error)
	// GetByIDForUpdate locks the row; call it on a transaction handle.
	GetByIDForUpdate(ctx context.Context, id string) (*model.File, error)
	ListApprovedByCourse(ctx context.Context, courseID string) ([]model.File, error)
	ListPending(ctx context.Context) ([]model.File, error)
	UpdateStatus(ctx context.Context, id, status string) (int64, error)
	Rename(ctx context.Context, id, name string) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	// DeleteByCourse removes every row of a course and returns their storage keys.
	DeleteByCourse(ctx context.Context, courseID string) ([]string, error)
	// ExistingStorageKeys returns the subset of keys that still have a row.
	ExistingStorageKeys(ctx context.Context, keys []string) (map[string]struct{}, error)
}

type fileRepo struct {
	db *gorm.DB
}

// NewFileRepo creates a FileRepository.
func NewFileRepo(db *gorm.DB) FileRepository {
	return &fileRepo{db: db}
}

func (r *fileRepo) Create(ctx context.Context, file *model.File) error {
	return r.db.WithContext(ctx).Create(file).Error
}

func (r *fileRepo) GetByID(ctx context.Context, id string) (*model.File, error) {
	var file model.File
	err := r.db.WithContext(ctx).
		Preload("Uploader").
		Preload("Course").
		Where("file_id = ?", id).
		First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepo) GetByIDForUpdate(ctx context.Context, id string) (*model.File, error) {
	var file model.File
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("file_id = ?", id).
		First(&file).Error
	if err != nil {
		return nil, err
	}
	return &file, nil
}

func (r *fileRepo) ListApprovedByCourse(ctx context.Context, courseID string) ([]model.File, error) {
	var files []model.File
	err := r.db.WithContext(ctx).
		Preload("Uploader").
		Where("course_id = ? AND status = ?", courseID, model.FileStatusApproved).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

func (r *fileRepo) ListPending(ctx context.Context) ([]model.File, error) {
	var files []model.File
	err := r.db.WithContext(ctx).
		Preload("Uploader").
		Preload("Course").
		Where("status = ?", model.FileStatusPending).
		Order("created_at DESC").
		Find(&files).Error
	return files, err
}

func (r *fileRepo) UpdateStatus(ctx context.Context, id, status string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.File{}).
		Where("file_id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *fileRepo) Rename(ctx context.Context, id, name string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.File{}).
		Where("file_id = ?", id).
		Update("display_name", name)
	return result.RowsAffected, result.Error
}

func (r *fileRepo) Delete(ctx context.Context, id string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("file_id = ?", id).
		Delete(&model.File{})
	return result.RowsAffected, result.Error
}

func (r *fileRepo) DeleteByCourse(ctx context.Context, courseID string) ([]string, error) {
	var deleted []model.File
	err := r.db.WithContext(ctx).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "storage_key"}}}).
		Where("course_id = ?", courseID).
		Delete(&deleted).Error
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(deleted))
	for _, f := range deleted {
		keys = append(keys, f.StorageKey)
	}
	return keys, nil
}

func (r *fileRepo) ExistingStorageKeys(ctx context.Context, keys []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(keys))
	if len(keys) == 0 {
		return existing, nil
	}
	var found []string
	err := r.db.WithContext(ctx).
		Model(&model.File{}).
		Where("storage_key IN ?", keys).
		Pluck("storage_key", &found).Error
	if err != nil {
		return nil, err
	}
	for _, k := range found {
		existing[k] = struct{}{}
	}
	return existing, nil
}
