//go:build integration

package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/sakib-101-git/EDU-ClassRepo/internal/model"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/repository"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/database"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=classrepo password=classrepo dbname=classrepo_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect test database: %v\n", err)
		os.Exit(1)
	}

	sqlDB, err := testDB.DB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "get sql.DB: %v\n", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(sqlDB, zap.NewNop()); err != nil {
		fmt.Fprintf(os.Stderr, "migrate: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func uniq(prefix string) string {
	return fmt.Sprintf("%s%d", prefix, time.Now().UnixNano())
}

// setupTestData creates one account and one course and returns a cleanup func.
func setupTestData(t *testing.T) (account *model.Account, course *model.Course, cleanup func()) {
	t.Helper()
	ctx := context.Background()
	repo := repository.NewRepository(testDB)

	account = &model.Account{
		StudentID:    uniq("SID"),
		Name:         "Test Student",
		Email:        uniq("student") + "@eastdelta.edu.bd",
		PasswordHash: "$2a$10$placeholder",
		Role:         model.RoleStudent,
		Department:   "CSE",
	}
	if err := repo.Account.Create(ctx, account); err != nil {
		t.Fatalf("create account: %v", err)
	}

	course = &model.Course{Code: "CSE101", Title: "Intro", Department: "CSE", Instructor: model.DefaultInstructor}
	if err := repo.Course.Create(ctx, course); err != nil {
		t.Fatalf("create course: %v", err)
	}

	cleanup = func() {
		testDB.Where("course_id = ?", course.CourseID).Delete(&model.Course{})
		testDB.Where("account_id = ?", account.AccountID).Delete(&model.Account{})
	}
	return
}

// ═══════════════════════════════════════════════════════════
// Test: Credential store
// ═══════════════════════════════════════════════════════════

func TestAccount_DuplicateEmail(t *testing.T) {
	account, _, cleanup := setupTestData(t)
	defer cleanup()

	dup := *account
	dup.AccountID = ""
	err := repository.NewRepository(testDB).Account.Create(context.Background(), &dup)
	if !repository.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}
}

func TestAccount_MarkVerifiedClearsToken(t *testing.T) {
	account, _, cleanup := setupTestData(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewRepository(testDB)

	token := uniq("tok")
	exp := time.Now().Add(time.Hour)
	account.VerificationToken = &token
	account.VerificationExpiresAt = &exp
	if err := repo.Account.Update(ctx, account); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.Account.GetByVerificationToken(ctx, token)
	if err != nil || got.AccountID != account.AccountID {
		t.Fatalf("lookup by token: %v", err)
	}

	if err := repo.Account.MarkVerified(ctx, account.AccountID); err != nil {
		t.Fatalf("mark verified: %v", err)
	}
	got, _ = repo.Account.GetByID(ctx, account.AccountID)
	if !got.IsVerified || got.VerificationToken != nil {
		t.Fatalf("expected verified without token, got %+v", got)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Enrollment ledger
// ═══════════════════════════════════════════════════════════

func TestEnrollment_PrimaryKeyRejectsDuplicate(t *testing.T) {
	account, course, cleanup := setupTestData(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewRepository(testDB)

	e := &model.Enrollment{AccountID: account.AccountID, CourseID: course.CourseID}
	if err := repo.Enrollment.Create(ctx, e); err != nil {
		t.Fatalf("first enroll: %v", err)
	}
	err := repo.Enrollment.Create(ctx, &model.Enrollment{AccountID: account.AccountID, CourseID: course.CourseID})
	if !repository.IsUniqueViolation(err) {
		t.Fatalf("expected unique violation, got %v", err)
	}

	courses, err := repo.Enrollment.ListCoursesForAccount(ctx, account.AccountID)
	if err != nil || len(courses) != 1 {
		t.Fatalf("expected 1 enrolled course, got %d (%v)", len(courses), err)
	}

	n, err := repo.Enrollment.Delete(ctx, account.AccountID, course.CourseID)
	if err != nil || n != 1 {
		t.Fatalf("unenroll: n=%d err=%v", n, err)
	}
	n, _ = repo.Enrollment.Delete(ctx, account.AccountID, course.CourseID)
	if n != 0 {
		t.Fatalf("second unenroll should affect 0 rows, got %d", n)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Files
// ═══════════════════════════════════════════════════════════

func newFile(account *model.Account, course *model.Course, status string) *model.File {
	return &model.File{
		CourseID:    course.CourseID,
		DisplayName: "notes.pdf",
		StorageKey:  uniq("key-"),
		SizeBytes:   10,
		ContentType: "application/pdf",
		UploadedBy:  account.AccountID,
		Status:      status,
	}
}

func TestFile_ListingsAndStatus(t *testing.T) {
	account, course, cleanup := setupTestData(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewRepository(testDB)

	pending := newFile(account, course, model.FileStatusPending)
	approved := newFile(account, course, model.FileStatusApproved)
	for _, f := range []*model.File{pending, approved} {
		if err := repo.File.Create(ctx, f); err != nil {
			t.Fatalf("create file: %v", err)
		}
	}

	list, err := repo.File.ListApprovedByCourse(ctx, course.CourseID)
	if err != nil || len(list) != 1 || list[0].FileID != approved.FileID {
		t.Fatalf("approved listing wrong: %+v %v", list, err)
	}
	if list[0].Uploader == nil || list[0].Uploader.Name != account.Name {
		t.Fatalf("uploader not preloaded")
	}

	n, err := repo.File.UpdateStatus(ctx, pending.FileID, model.FileStatusApproved)
	if err != nil || n != 1 {
		t.Fatalf("approve: n=%d err=%v", n, err)
	}

	keys, err := repo.File.DeleteByCourse(ctx, course.CourseID)
	if err != nil || len(keys) != 2 {
		t.Fatalf("delete by course: keys=%v err=%v", keys, err)
	}
	existing, _ := repo.File.ExistingStorageKeys(ctx, keys)
	if len(existing) != 0 {
		t.Fatalf("keys should be gone, got %v", existing)
	}
}

// Two concurrent deleters of the same row: exactly one wins.
func TestFile_ConcurrentDeleteOneWinner(t *testing.T) {
	account, course, cleanup := setupTestData(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewRepository(testDB)

	f := newFile(account, course, model.FileStatusPending)
	if err := repo.File.Create(ctx, f); err != nil {
		t.Fatalf("create file: %v", err)
	}

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.Transaction(ctx, func(txRepo *repository.Repository) error {
				if _, err := txRepo.File.GetByIDForUpdate(ctx, f.FileID); err != nil {
					return err
				}
				_, err := txRepo.File.Delete(ctx, f.FileID)
				return err
			})
		}()
	}
	wg.Wait()
	close(results)

	var ok, notFound int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, gorm.ErrRecordNotFound):
			notFound++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 || notFound != 1 {
		t.Fatalf("expected one winner and one not-found, got ok=%d notFound=%d", ok, notFound)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction Rollback
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	_, course, cleanup := setupTestData(t)
	defer cleanup()
	ctx := context.Background()
	repo := repository.NewRepository(testDB)

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(txRepo *repository.Repository) error {
		if _, err := txRepo.Course.Delete(ctx, course.CourseID); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := repo.Course.GetByID(ctx, course.CourseID); err != nil {
		t.Fatalf("course should survive rollback: %v", err)
	}
}
