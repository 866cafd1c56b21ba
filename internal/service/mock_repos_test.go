package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/sakib-101-git/EDU-ClassRepo/config"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/model"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/repository"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/blobstore"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/jwt"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/mailer"
)

// ── Mock AccountRepository ──

type mockAccountRepo struct {
	accounts  map[string]*model.Account // key: account_id
	createErr error
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: make(map[string]*model.Account)}
}

func (m *mockAccountRepo) Create(_ context.Context, account *model.Account) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, a := range m.accounts {
		if a.Email == account.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if account.AccountID == "" {
		account.AccountID = uuid.NewString()
	}
	m.accounts[account.AccountID] = account
	return nil
}

func (m *mockAccountRepo) GetByID(_ context.Context, id string) (*model.Account, error) {
	if a, ok := m.accounts[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) GetByEmail(_ context.Context, email string) (*model.Account, error) {
	for _, a := range m.accounts {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) GetByVerificationToken(_ context.Context, token string) (*model.Account, error) {
	for _, a := range m.accounts {
		if a.VerificationToken != nil && *a.VerificationToken == token {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAccountRepo) MarkVerified(_ context.Context, id string) error {
	a, ok := m.accounts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	a.IsVerified = true
	a.VerificationToken = nil
	a.VerificationExpiresAt = nil
	return nil
}

func (m *mockAccountRepo) Update(_ context.Context, account *model.Account) error {
	m.accounts[account.AccountID] = account
	return nil
}

// ── Mock CourseRepository ──

type mockCourseRepo struct {
	courses map[string]*model.Course
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, course *model.Course) error {
	if course.CourseID == "" {
		course.CourseID = uuid.NewString()
	}
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) BatchCreate(ctx context.Context, courses []model.Course) error {
	for i := range courses {
		c := courses[i]
		if err := m.Create(ctx, &c); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	result := make([]model.Course, 0, len(m.courses))
	for _, c := range m.courses {
		result = append(result, *c)
	}
	sortCourses(result)
	return result, nil
}

func (m *mockCourseRepo) Update(_ context.Context, course *model.Course) error {
	m.courses[course.CourseID] = course
	return nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := m.courses[id]; !ok {
		return 0, nil
	}
	delete(m.courses, id)
	return 1, nil
}

func sortCourses(cs []model.Course) {
	sort.Slice(cs, func(i, j int) bool {
		if cs[i].Department != cs[j].Department {
			return cs[i].Department < cs[j].Department
		}
		return cs[i].Code < cs[j].Code
	})
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	pairs   map[[2]string]time.Time
	courses *mockCourseRepo
}

func newMockEnrollmentRepo(courses *mockCourseRepo) *mockEnrollmentRepo {
	return &mockEnrollmentRepo{pairs: make(map[[2]string]time.Time), courses: courses}
}

func (m *mockEnrollmentRepo) Create(_ context.Context, e *model.Enrollment) error {
	k := [2]string{e.AccountID, e.CourseID}
	if _, ok := m.pairs[k]; ok {
		return gorm.ErrDuplicatedKey
	}
	m.pairs[k] = time.Now()
	return nil
}

func (m *mockEnrollmentRepo) Delete(_ context.Context, accountID, courseID string) (int64, error) {
	k := [2]string{accountID, courseID}
	if _, ok := m.pairs[k]; !ok {
		return 0, nil
	}
	delete(m.pairs, k)
	return 1, nil
}

func (m *mockEnrollmentRepo) DeleteByCourse(_ context.Context, courseID string) error {
	for k := range m.pairs {
		if k[1] == courseID {
			delete(m.pairs, k)
		}
	}
	return nil
}

func (m *mockEnrollmentRepo) ListCoursesForAccount(_ context.Context, accountID string) ([]model.Course, error) {
	var result []model.Course
	for k := range m.pairs {
		if k[0] != accountID {
			continue
		}
		if c, ok := m.courses.courses[k[1]]; ok {
			result = append(result, *c)
		}
	}
	sortCourses(result)
	return result, nil
}

// ── Mock FileRepository ──

type mockFileRepo struct {
	files     map[string]*model.File
	accounts  *mockAccountRepo
	courses   *mockCourseRepo
	createErr error
}

func newMockFileRepo(accounts *mockAccountRepo, courses *mockCourseRepo) *mockFileRepo {
	return &mockFileRepo{files: make(map[string]*model.File), accounts: accounts, courses: courses}
}

func (m *mockFileRepo) Create(_ context.Context, file *model.File) error {
	if m.createErr != nil {
		return m.createErr
	}
	if file.FileID == "" {
		file.FileID = uuid.NewString()
	}
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now()
	}
	m.files[file.FileID] = file
	return nil
}

func (m *mockFileRepo) hydrate(f *model.File) model.File {
	cp := *f
	if a, ok := m.accounts.accounts[f.UploadedBy]; ok {
		cp.Uploader = a
	}
	if c, ok := m.courses.courses[f.CourseID]; ok {
		cp.Course = c
	}
	return cp
}

func (m *mockFileRepo) GetByID(_ context.Context, id string) (*model.File, error) {
	if f, ok := m.files[id]; ok {
		cp := m.hydrate(f)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFileRepo) GetByIDForUpdate(_ context.Context, id string) (*model.File, error) {
	if f, ok := m.files[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFileRepo) list(match func(*model.File) bool) []model.File {
	var result []model.File
	for _, f := range m.files {
		if match(f) {
			result = append(result, m.hydrate(f))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result
}

func (m *mockFileRepo) ListApprovedByCourse(_ context.Context, courseID string) ([]model.File, error) {
	return m.list(func(f *model.File) bool {
		return f.CourseID == courseID && f.Status == model.FileStatusApproved
	}), nil
}

func (m *mockFileRepo) ListPending(_ context.Context) ([]model.File, error) {
	return m.list(func(f *model.File) bool { return f.Status == model.FileStatusPending }), nil
}

func (m *mockFileRepo) UpdateStatus(_ context.Context, id, status string) (int64, error) {
	f, ok := m.files[id]
	if !ok {
		return 0, nil
	}
	f.Status = status
	return 1, nil
}

func (m *mockFileRepo) Rename(_ context.Context, id, name string) (int64, error) {
	f, ok := m.files[id]
	if !ok {
		return 0, nil
	}
	f.DisplayName = name
	return 1, nil
}

func (m *mockFileRepo) Delete(_ context.Context, id string) (int64, error) {
	if _, ok := m.files[id]; !ok {
		return 0, nil
	}
	delete(m.files, id)
	return 1, nil
}

func (m *mockFileRepo) DeleteByCourse(_ context.Context, courseID string) ([]string, error) {
	var keys []string
	for id, f := range m.files {
		if f.CourseID == courseID {
			keys = append(keys, f.StorageKey)
			delete(m.files, id)
		}
	}
	return keys, nil
}

func (m *mockFileRepo) ExistingStorageKeys(_ context.Context, keys []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	for _, f := range m.files {
		for _, k := range keys {
			if f.StorageKey == k {
				existing[k] = struct{}{}
			}
		}
	}
	return existing, nil
}

// ── Mock blob store ──

type memBlob struct {
	data    []byte
	modTime time.Time
}

type mockBlobStore struct {
	mu      sync.Mutex
	objects map[string]memBlob
	putErr  error
	puts    int
}

func newMockBlobStore() *mockBlobStore {
	return &mockBlobStore{objects: make(map[string]memBlob)}
}

func (m *mockBlobStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = memBlob{data: data, modTime: time.Now()}
	return nil
}

func (m *mockBlobStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	if !ok {
		return nil, blobstore.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(b.data)), nil
}

func (m *mockBlobStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *mockBlobStore) List(_ context.Context) ([]blobstore.Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]blobstore.Object, 0, len(m.objects))
	for k, b := range m.objects {
		out = append(out, blobstore.Object{Key: k, Size: int64(len(b.data)), LastModified: b.modTime})
	}
	return out, nil
}

func (m *mockBlobStore) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}

// ── Mock notifier / revoker ──

type recordingNotifier struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (n *recordingNotifier) Notify(msg mailer.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
}

func (n *recordingNotifier) messages() []mailer.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]mailer.Message(nil), n.sent...)
}

type recordingRevoker struct {
	revoked map[string]time.Duration
	err     error
}

func (r *recordingRevoker) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	if r.err != nil {
		return r.err
	}
	if r.revoked == nil {
		r.revoked = make(map[string]time.Duration)
	}
	r.revoked[jti] = ttl
	return nil
}

var errStorage = errors.New("storage unavailable")

// ── fixture ──

const (
	testAdminEmail = "admin@example.com"
	testDomain     = "@eastdelta.edu.bd"
)

type fixture struct {
	cfg         *config.Config
	accounts    *mockAccountRepo
	courses     *mockCourseRepo
	enrollments *mockEnrollmentRepo
	files       *mockFileRepo
	blobs       *mockBlobStore
	notifier    *recordingNotifier
	revoker     *recordingRevoker
	jwtMgr      *jwt.Manager
	svc         *Service
}

func newFixture() *fixture {
	cfg := &config.Config{
		Server: config.ServerConfig{BaseURL: "http://localhost:3000"},
		Auth: config.AuthConfig{
			JWTSecret:         "test-secret-key-for-unit-tests",
			TokenTTL:          24 * time.Hour,
			AdminEmails:       []string{" Admin@Example.com "},
			EmailDomain:       testDomain,
			MinPasswordLength: 6,
			BcryptCost:        bcrypt.MinCost,
			VerificationTTL:   48 * time.Hour,
		},
		Storage: config.StorageConfig{MaxUploadBytes: 1 << 20},
	}

	f := &fixture{cfg: cfg}
	f.accounts = newMockAccountRepo()
	f.courses = newMockCourseRepo()
	f.enrollments = newMockEnrollmentRepo(f.courses)
	f.files = newMockFileRepo(f.accounts, f.courses)
	f.blobs = newMockBlobStore()
	f.notifier = &recordingNotifier{}
	f.revoker = &recordingRevoker{}
	f.jwtMgr = jwt.NewManager(&cfg.Auth)
	f.rebuild()
	return f
}

// rebuild re-creates the services after a config change.
func (f *fixture) rebuild() {
	repo := &repository.Repository{
		Account:    f.accounts,
		Course:     f.courses,
		Enrollment: f.enrollments,
		File:       f.files,
	}
	f.svc = NewService(f.cfg, Deps{
		Repo:     repo,
		JWT:      f.jwtMgr,
		Blobs:    f.blobs,
		Revoker:  f.revoker,
		Notifier: f.notifier,
	}, zap.NewNop())
}

func (f *fixture) seedAccount(email, password, role string, verified bool) *model.Account {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	a := &model.Account{
		AccountID:    uuid.NewString(),
		StudentID:    "S-" + email,
		Name:         "Name " + email,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Department:   "CSE",
		IsVerified:   verified,
	}
	f.accounts.accounts[a.AccountID] = a
	return a
}

func (f *fixture) seedCourse(code, department string) *model.Course {
	c := &model.Course{
		CourseID:   uuid.NewString(),
		Code:       code,
		Title:      code + " title",
		Department: department,
		Instructor: model.DefaultInstructor,
	}
	f.courses.courses[c.CourseID] = c
	return c
}

func (f *fixture) seedFile(course *model.Course, uploader *model.Account, status string, created time.Time) *model.File {
	key := blobstore.NewKey("notes.pdf")
	f.blobs.objects[key] = memBlob{data: []byte("content-" + key), modTime: created}
	file := &model.File{
		FileID:      uuid.NewString(),
		CourseID:    course.CourseID,
		DisplayName: "notes.pdf",
		StorageKey:  key,
		SizeBytes:   int64(len("content-" + key)),
		ContentType: "application/pdf",
		UploadedBy:  uploader.AccountID,
		Status:      status,
		CreatedAt:   created,
	}
	f.files.files[file.FileID] = file
	return file
}
