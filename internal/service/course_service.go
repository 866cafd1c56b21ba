package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sakib-101-git/EDU-ClassRepo/internal/dto"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/model"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/repository"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/blobstore"
)

const maxImportRows = 1000

// CourseService is the course catalog.
type CourseService interface {
	List(ctx context.Context) ([]dto.CourseResponse, error)
	Get(ctx context.Context, id string) (*dto.CourseResponse, error)
	Create(ctx context.Context, req *dto.CourseRequest, callerID string) (*dto.IDResponse, error)
	Update(ctx context.Context, id string, req *dto.CourseRequest, callerID string) (*dto.CourseResponse, error)
	Delete(ctx context.Context, id string) error
	ParseImportFile(reader io.Reader) ([]ImportCourseRow, error)
	ImportCourses(ctx context.Context, rows []ImportCourseRow, callerID string) (*dto.ImportCourseResponse, error)
}

// ImportCourseRow one parsed spreadsheet row.
type ImportCourseRow struct {
	Row        int
	Code       string
	Title      string
	Department string
	Instructor string
}

type courseService struct {
	repo   *repository.Repository
	blobs  blobstore.Store
	logger *zap.Logger
}

// NewCourseService creates a CourseService.
func NewCourseService(repo *repository.Repository, blobs blobstore.Store, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, blobs: blobs, logger: logger}
}

// ────────────────────── Read ──────────────────────

func (s *courseService) List(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("list courses failed", zap.Error(err))
		return nil, err
	}
	return toCourseResponses(courses), nil
}

func (s *courseService) Get(ctx context.Context, id string) (*dto.CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toCourseResponse(course)
	return &resp, nil
}

func (s *courseService) getCourse(ctx context.Context, id string) (*model.Course, error) {
	if !isUUID(id) {
		return nil, ErrCourseNotFound
	}
	course, err := s.repo.Course.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrCourseNotFound
		}
		s.logger.Error("get course failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return course, nil
}

// ────────────────────── Create / Update ──────────────────────

func (s *courseService) Create(ctx context.Context, req *dto.CourseRequest, callerID string) (*dto.IDResponse, error) {
	course, err := courseFromRequest(req)
	if err != nil {
		return nil, err
	}
	course.CreatedBy = &callerID
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("create course failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("course created", zap.String("id", course.CourseID), zap.String("code", course.Code))
	return &dto.IDResponse{ID: course.CourseID}, nil
}

// Update replaces every editable field.
func (s *courseService) Update(ctx context.Context, id string, req *dto.CourseRequest, callerID string) (*dto.CourseResponse, error) {
	next, err := courseFromRequest(req)
	if err != nil {
		return nil, err
	}

	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	course.Code = next.Code
	course.Title = next.Title
	course.Department = next.Department
	course.Instructor = next.Instructor
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Update(ctx, course); err != nil {
		s.logger.Error("update course failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toCourseResponse(course)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

// Delete removes the course with its files and enrollments in one
// transaction, then the stored binaries.
func (s *courseService) Delete(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrCourseNotFound
	}

	var keys []string
	err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		var err error
		if keys, err = txRepo.File.DeleteByCourse(ctx, id); err != nil {
			return err
		}
		if err := txRepo.Enrollment.DeleteByCourse(ctx, id); err != nil {
			return err
		}
		n, err := txRepo.Course.Delete(ctx, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrCourseNotFound
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrCourseNotFound) {
			s.logger.Error("delete course failed", zap.String("id", id), zap.Error(err))
		}
		return err
	}

	removeBlobs(ctx, s.blobs, keys, s.logger)
	s.logger.Info("course deleted", zap.String("id", id), zap.Int("files", len(keys)))
	return nil
}

// ────────────────────── Import ──────────────────────

func (s *courseService) ParseImportFile(reader io.Reader) ([]ImportCourseRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, ErrImportUnreadable.Wrap(err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, ErrImportUnreadable.Wrap(err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// header columns may appear in any order
	colIndex := parseCourseHeader(excelRows[0])
	if colIndex["code"] < 0 || colIndex["title"] < 0 || colIndex["department"] < 0 {
		return nil, ErrImportBadHeader
	}

	cell := func(row []string, col string) string {
		if idx := colIndex[col]; idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportCourseRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportCourseRow{
			Row:        i + 1,
			Code:       cell(row, "code"),
			Title:      cell(row, "title"),
			Department: cell(row, "department"),
			Instructor: cell(row, "instructor"),
		}
		if item.Code == "" && item.Title == "" && item.Department == "" && item.Instructor == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooMany
	}
	return rows, nil
}

func parseCourseHeader(header []string) map[string]int {
	idx := map[string]int{
		"code":       -1,
		"title":      -1,
		"department": -1,
		"instructor": -1,
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "code", "course code", "course_code":
			idx["code"] = i
		case "title", "course title", "name":
			idx["title"] = i
		case "department", "dept":
			idx["department"] = i
		case "instructor", "teacher", "faculty":
			idx["instructor"] = i
		}
	}
	return idx
}

// ImportCourses validates every row first, then inserts the valid ones in
// one transaction.
func (s *courseService) ImportCourses(ctx context.Context, rows []ImportCourseRow, callerID string) (*dto.ImportCourseResponse, error) {
	resp := &dto.ImportCourseResponse{Total: len(rows)}

	var valid []model.Course
	for _, row := range rows {
		course, err := courseFromRequest(&dto.CourseRequest{
			Code:       row.Code,
			Title:      row.Title,
			Department: row.Department,
			Instructor: row.Instructor,
		})
		if err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportCourseError{Row: row.Row, Reason: ErrCourseFields.Message})
			continue
		}
		course.CreatedBy = &callerID
		course.UpdatedBy = &callerID
		valid = append(valid, *course)
	}

	if len(valid) > 0 {
		err := s.repo.Transaction(ctx, func(txRepo *repository.Repository) error {
			return txRepo.Course.BatchCreate(ctx, valid)
		})
		if err != nil {
			s.logger.Error("import courses failed", zap.Int("rows", len(valid)), zap.Error(err))
			return nil, fmt.Errorf("import courses: %w", err)
		}
	}

	resp.Success = len(valid)
	s.logger.Info("courses imported", zap.Int("success", resp.Success), zap.Int("failed", resp.Failed))
	return resp, nil
}

// ── helpers ──

func courseFromRequest(req *dto.CourseRequest) (*model.Course, error) {
	c := &model.Course{
		Code:       strings.TrimSpace(req.Code),
		Title:      strings.TrimSpace(req.Title),
		Department: strings.TrimSpace(req.Department),
		Instructor: strings.TrimSpace(req.Instructor),
	}
	if c.Code == "" || c.Title == "" || c.Department == "" {
		return nil, ErrCourseFields
	}
	if c.Instructor == "" {
		c.Instructor = model.DefaultInstructor
	}
	return c, nil
}

func toCourseResponse(c *model.Course) dto.CourseResponse {
	return dto.CourseResponse{
		ID:         c.CourseID,
		Code:       c.Code,
		Title:      c.Title,
		Department: c.Department,
		Instructor: c.Instructor,
	}
}

func toCourseResponses(courses []model.Course) []dto.CourseResponse {
	out := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, toCourseResponse(&courses[i]))
	}
	return out
}
