package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/sakib-101-git/EDU-ClassRepo/config"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/dto"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/model"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/repository"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/blobstore"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/mailer"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/metrics"
)

// FileService is the file moderation engine.
type FileService interface {
	Upload(ctx context.Context, in *UploadInput) (*dto.UploadResponse, error)
	Approve(ctx context.Context, fileID string) error
	Reject(ctx context.Context, fileID string) error
	Rename(ctx context.Context, fileID, newName string) error
	Delete(ctx context.Context, fileID, actorID, actorRole string) error
	ListApprovedForCourse(ctx context.Context, courseID string) ([]dto.FileResponse, error)
	ListPending(ctx context.Context) ([]dto.PendingFileResponse, error)
	Download(ctx context.Context, fileID, actorID, actorRole string) (*Download, error)
}

// UploadInput is one multipart upload. Content is nil when the request
// carried no file part.
type UploadInput struct {
	CourseID     string
	FileName     string
	ContentType  string
	Size         int64
	Content      io.Reader
	UploaderID   string
	UploaderRole string
}

// Download is an open stored binary. The caller closes Body.
type Download struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}

// maxDisplayNameLen matches files.display_name VARCHAR(255).
const maxDisplayNameLen = 255

type fileService struct {
	cfg      *config.StorageConfig
	repo     *repository.Repository
	blobs    blobstore.Store
	notifier Notifier
	logger   *zap.Logger
}

// NewFileService creates a FileService. notifier may be nil.
func NewFileService(
	cfg *config.StorageConfig,
	repo *repository.Repository,
	blobs blobstore.Store,
	notifier Notifier,
	logger *zap.Logger,
) FileService {
	return &fileService{cfg: cfg, repo: repo, blobs: blobs, notifier: notifier, logger: logger}
}

// ────────────────────── Upload ──────────────────────

func (s *fileService) Upload(ctx context.Context, in *UploadInput) (*dto.UploadResponse, error) {
	if in.Content == nil || strings.TrimSpace(in.FileName) == "" {
		return nil, ErrNoFile
	}
	courseID := strings.TrimSpace(in.CourseID)
	if courseID == "" {
		return nil, ErrNoCourse
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.FileName)) > maxDisplayNameLen {
		return nil, ErrNameTooLong
	}
	if in.Size > s.cfg.MaxUploadBytes {
		return nil, ErrFileTooLarge.WithMessage("file exceeds the %d MB limit", s.cfg.MaxUploadBytes>>20)
	}
	if !isUUID(courseID) {
		return nil, ErrCourseNotFound
	}
	if _, err := s.repo.Course.GetByID(ctx, courseID); err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("get course failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	status := model.FileStatusPending
	if in.UploaderRole == model.RoleAdmin {
		status = model.FileStatusApproved
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	// binary first, then the row; a failed insert removes the binary
	key := blobstore.NewKey(in.FileName)
	if err := s.blobs.Put(ctx, key, in.Content, in.Size, contentType); err != nil {
		s.logger.Error("store file failed", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("store file: %w", err)
	}

	file := &model.File{
		CourseID:    courseID,
		DisplayName: strings.TrimSpace(in.FileName),
		StorageKey:  key,
		SizeBytes:   in.Size,
		ContentType: contentType,
		UploadedBy:  in.UploaderID,
		Status:      status,
	}
	if err := s.repo.File.Create(ctx, file); err != nil {
		s.logger.Error("create file row failed", zap.String("key", key), zap.Error(err))
		removeBlobs(context.WithoutCancel(ctx), s.blobs, []string{key}, s.logger)
		return nil, err
	}

	metrics.FilesUploaded.WithLabelValues(status).Inc()
	s.logger.Info("file uploaded",
		zap.String("file_id", file.FileID),
		zap.String("course_id", courseID),
		zap.String("status", status),
		zap.Int64("size", in.Size),
	)
	return &dto.UploadResponse{ID: file.FileID, Status: status}, nil
}

// ────────────────────── Moderation ──────────────────────

// Approve is idempotent: approving an approved file succeeds.
func (s *fileService) Approve(ctx context.Context, fileID string) error {
	if !isUUID(fileID) {
		return ErrFileNotFound
	}
	n, err := s.repo.File.UpdateStatus(ctx, fileID, model.FileStatusApproved)
	if err != nil {
		s.logger.Error("approve file failed", zap.String("file_id", fileID), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrFileNotFound
	}

	metrics.FileModerations.WithLabelValues("approve").Inc()
	s.logger.Info("file approved", zap.String("file_id", fileID))

	if file, err := s.repo.File.GetByID(ctx, fileID); err == nil && file.Uploader != nil {
		s.notify(file.Uploader.Email, "Your file was approved",
			fmt.Sprintf("Your upload %q is now visible to everyone in the course.", file.DisplayName))
	}
	return nil
}

// Reject deletes the row under a lock, then its binary. There is no stored
// rejected state.
func (s *fileService) Reject(ctx context.Context, fileID string) error {
	file, err := s.deleteLocked(ctx, fileID, func(*model.File) error { return nil })
	if err != nil {
		return err
	}

	metrics.FileModerations.WithLabelValues("reject").Inc()
	s.logger.Info("file rejected",
		zap.String("file_id", file.FileID),
		zap.String("course_id", file.CourseID),
		zap.String("uploaded_by", file.UploadedBy),
	)

	if uploader, err := s.repo.Account.GetByID(ctx, file.UploadedBy); err == nil {
		s.notify(uploader.Email, "Your file was rejected",
			fmt.Sprintf("Your upload %q was reviewed and removed by a moderator.", file.DisplayName))
	}
	return nil
}

func (s *fileService) Rename(ctx context.Context, fileID, newName string) error {
	name := strings.TrimSpace(newName)
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > maxDisplayNameLen {
		return ErrNameTooLong
	}
	if !isUUID(fileID) {
		return ErrFileNotFound
	}
	n, err := s.repo.File.Rename(ctx, fileID, name)
	if err != nil {
		s.logger.Error("rename file failed", zap.String("file_id", fileID), zap.Error(err))
		return err
	}
	if n == 0 {
		return ErrFileNotFound
	}
	metrics.FileModerations.WithLabelValues("rename").Inc()
	return nil
}

// Delete is allowed for the uploader and for admins.
func (s *fileService) Delete(ctx context.Context, fileID, actorID, actorRole string) error {
	file, err := s.deleteLocked(ctx, fileID, func(f *model.File) error {
		if f.UploadedBy != actorID && actorRole != model.RoleAdmin {
			return ErrNotFileOwner
		}
		return nil
	})
	if err != nil {
		return err
	}

	metrics.FileModerations.WithLabelValues("delete").Inc()
	s.logger.Info("file deleted", zap.String("file_id", file.FileID), zap.String("actor", actorID))
	return nil
}

// deleteLocked locks the row, runs authorize, deletes the row and, after
// commit, the binary. A concurrent loser sees ErrFileNotFound.
func (s *fileService) deleteLocked(ctx context.Context, fileID string, authorize func(*model.File) error) (*model.File, error) {
	if !isUUID(fileID) {
		return nil, ErrFileNotFound
	}

	var file *model.File
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		file, err = txRepo.File.GetByIDForUpdate(ctx, fileID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrFileNotFound
			}
			return err
		}
		if err := authorize(file); err != nil {
			return err
		}
		n, err := txRepo.File.Delete(ctx, fileID)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrFileNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrFileNotFound) && !errors.Is(err, ErrNotFileOwner) {
			s.logger.Error("delete file failed", zap.String("file_id", fileID), zap.Error(err))
		}
		return nil, err
	}

	removeBlobs(ctx, s.blobs, []string{file.StorageKey}, s.logger)
	return file, nil
}

func (s *fileService) notify(to, subject, body string) {
	if s.notifier == nil || to == "" {
		return
	}
	s.notifier.Notify(mailer.Message{To: to, Subject: subject, Body: body})
}

// ────────────────────── Listing ──────────────────────

func (s *fileService) ListApprovedForCourse(ctx context.Context, courseID string) ([]dto.FileResponse, error) {
	if !isUUID(courseID) {
		return []dto.FileResponse{}, nil
	}
	files, err := s.repo.File.ListApprovedByCourse(ctx, courseID)
	if err != nil {
		s.logger.Error("list files failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}
	out := make([]dto.FileResponse, 0, len(files))
	for i := range files {
		out = append(out, toFileResponse(&files[i]))
	}
	return out, nil
}

func (s *fileService) ListPending(ctx context.Context) ([]dto.PendingFileResponse, error) {
	files, err := s.repo.File.ListPending(ctx)
	if err != nil {
		s.logger.Error("list pending files failed", zap.Error(err))
		return nil, err
	}
	out := make([]dto.PendingFileResponse, 0, len(files))
	for i := range files {
		item := dto.PendingFileResponse{FileResponse: toFileResponse(&files[i])}
		if c := files[i].Course; c != nil {
			item.CourseCode = c.Code
			item.CourseTitle = c.Title
		}
		out = append(out, item)
	}
	return out, nil
}

// ────────────────────── Download ──────────────────────

// Download hides pending files from everyone but the uploader and admins.
func (s *fileService) Download(ctx context.Context, fileID, actorID, actorRole string) (*Download, error) {
	if !isUUID(fileID) {
		return nil, ErrFileNotFound
	}
	file, err := s.repo.File.GetByID(ctx, fileID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrFileNotFound
		}
		s.logger.Error("get file failed", zap.String("file_id", fileID), zap.Error(err))
		return nil, err
	}
	if file.Status != model.FileStatusApproved && file.UploadedBy != actorID && actorRole != model.RoleAdmin {
		return nil, ErrFileNotFound
	}

	body, err := s.blobs.Open(ctx, file.StorageKey)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			s.logger.Warn("stored file missing", zap.String("file_id", fileID), zap.String("key", file.StorageKey))
			return nil, ErrFileNotFound
		}
		s.logger.Error("open stored file failed", zap.String("file_id", fileID), zap.Error(err))
		return nil, err
	}

	return &Download{
		Name:        file.DisplayName,
		ContentType: file.ContentType,
		Size:        file.SizeBytes,
		Body:        body,
	}, nil
}

func toFileResponse(f *model.File) dto.FileResponse {
	resp := dto.FileResponse{
		ID:          f.FileID,
		CourseID:    f.CourseID,
		DisplayName: f.DisplayName,
		SizeBytes:   f.SizeBytes,
		ContentType: f.ContentType,
		Status:      f.Status,
		CreatedAt:   f.CreatedAt,
	}
	if f.Uploader != nil {
		resp.UploaderName = f.Uploader.Name
	}
	return resp
}
