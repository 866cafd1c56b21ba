package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sakib-101-git/EDU-ClassRepo/config"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/dto"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/model"
	"github.com/sakib-101-git/EDU-ClassRepo/internal/repository"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/jwt"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/mailer"
	"github.com/sakib-101-git/EDU-ClassRepo/pkg/metrics"
)

// TokenRevoker records revoked token ids until they would have expired.
type TokenRevoker interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
}

// Notifier dispatches an email without waiting for delivery.
type Notifier interface {
	Notify(msg mailer.Message)
}

// AuthService registration, login and verification.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Verify(ctx context.Context, token string) error
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, accountID string) (*dto.AccountSummary, error)
}

type authService struct {
	cfg      *config.Config
	repo     *repository.Repository
	jwtMgr   *jwt.Manager
	admins   *AdminList
	revoker  TokenRevoker
	notifier Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewAuthService creates an AuthService. revoker and notifier may be nil.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	admins *AdminList,
	revoker TokenRevoker,
	notifier Notifier,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:      cfg,
		repo:     repo,
		jwtMgr:   jwtMgr,
		admins:   admins,
		revoker:  revoker,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// ────────────────────── Register ──────────────────────

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	name := strings.TrimSpace(req.Name)
	studentID := strings.TrimSpace(req.StudentID)
	department := strings.TrimSpace(req.Department)
	email := NormalizeEmail(req.Email)
	if name == "" || studentID == "" || email == "" || req.Password == "" || department == "" {
		return nil, ErrMissingFields
	}

	isAdmin := s.admins.IsAdminEmail(email)
	domain := strings.ToLower(s.cfg.Auth.EmailDomain)
	if !isAdmin && !strings.HasSuffix(email, domain) {
		s.recordAuth("register", "domain")
		return nil, ErrEmailDomain.WithMessage("student emails must end with %s", domain)
	}

	if len(req.Password) < s.cfg.Auth.MinPasswordLength {
		return nil, ErrWeakPassword.WithMessage("password must be at least %d characters", s.cfg.Auth.MinPasswordLength)
	}

	if _, err := s.repo.Account.GetByEmail(ctx, email); err == nil {
		s.recordAuth("register", "duplicate")
		return nil, ErrEmailTaken
	} else if !repository.IsNotFound(err) {
		s.logger.Error("lookup account failed", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.Auth.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &model.Account{
		StudentID:    studentID,
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
		Department:   department,
		Gender:       trimOptional(req.Gender),
		Semester:     trimOptional(req.Semester),
		IsVerified:   isAdmin || !s.cfg.Auth.RequireVerification,
	}
	if isAdmin {
		account.Role = model.RoleAdmin
	}

	var verifyToken string
	if !account.IsVerified {
		verifyToken = uuid.NewString()
		expires := s.now().Add(s.cfg.Auth.VerificationTTL)
		account.VerificationToken = &verifyToken
		account.VerificationExpiresAt = &expires
	}

	if err := s.repo.Account.Create(ctx, account); err != nil {
		if repository.IsUniqueViolation(err) {
			s.recordAuth("register", "duplicate")
			return nil, ErrEmailTaken
		}
		s.logger.Error("create account failed", zap.Error(err))
		return nil, err
	}

	if verifyToken != "" {
		s.sendVerification(account, verifyToken)
	}

	s.recordAuth("register", "ok")
	s.logger.Info("account registered",
		zap.String("account_id", account.AccountID),
		zap.String("role", account.Role),
	)

	return &dto.RegisterResponse{
		Email:                email,
		VerificationRequired: !account.IsVerified,
	}, nil
}

func (s *authService) sendVerification(account *model.Account, token string) {
	if s.notifier == nil {
		return
	}
	link := strings.TrimRight(s.cfg.Server.BaseURL, "/") + "/api/auth/verify?token=" + url.QueryEscape(token)
	s.notifier.Notify(mailer.Message{
		To:      account.Email,
		Subject: "Verify your ClassRepo account",
		Body: fmt.Sprintf("Hello %s,\n\nConfirm your email address by opening:\n%s\n\nThe link expires in %s.\n",
			account.Name, link, s.cfg.Auth.VerificationTTL),
	})
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	email := NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrLoginFieldsRequired
	}

	// 1. look up
	account, err := s.repo.Account.GetByEmail(ctx, email)
	if err != nil {
		if repository.IsNotFound(err) {
			s.recordAuth("login", "unknown")
			return nil, ErrAccountNotFound
		}
		s.logger.Error("lookup account failed", zap.Error(err))
		return nil, err
	}

	// 2. password
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		s.recordAuth("login", "bad_password")
		return nil, ErrInvalidCredentials
	}

	// 3. verification
	isAdmin := s.admins.IsAdminEmail(account.Email)
	if s.cfg.Auth.RequireVerification && !account.IsVerified && !isAdmin {
		s.recordAuth("login", "unverified")
		return nil, ErrUnverifiedAccount
	}

	// 4. role: only an explicit admin request is checked; anything else is a student login
	role := s.admins.EffectiveRole(account.Email, account.Role)
	if req.UserType == model.RoleAdmin && role != model.RoleAdmin {
		s.recordAuth("login", "role_mismatch")
		return nil, ErrNotAdmin
	}

	token, _, err := s.jwtMgr.Generate(account.AccountID, account.Email, role)
	if err != nil {
		s.logger.Error("generate token failed", zap.Error(err))
		return nil, err
	}

	s.recordAuth("login", "ok")
	return &dto.TokenResponse{
		Token:     token,
		ExpiresIn: int(s.jwtMgr.TTL().Seconds()),
		User:      summarize(account, role),
	}, nil
}

// ────────────────────── Verify ──────────────────────

func (s *authService) Verify(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrVerificationInvalid
	}

	account, err := s.repo.Account.GetByVerificationToken(ctx, token)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrVerificationInvalid
		}
		s.logger.Error("lookup verification token failed", zap.Error(err))
		return err
	}
	if account.VerificationExpiresAt != nil && s.now().After(*account.VerificationExpiresAt) {
		return ErrVerificationInvalid
	}

	if err := s.repo.Account.MarkVerified(ctx, account.AccountID); err != nil {
		s.logger.Error("mark verified failed", zap.String("account_id", account.AccountID), zap.Error(err))
		return err
	}
	s.logger.Info("account verified", zap.String("account_id", account.AccountID))
	return nil
}

// ────────────────────── Logout ──────────────────────

// Logout revokes the presented token for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.revoker == nil {
		s.logger.Warn("logout without revocation store; token stays valid until expiry")
		return nil
	}
	if claims.ExpiresAt == nil || claims.ID == "" {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if err := s.revoker.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("revoke token failed", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, accountID string) (*dto.AccountSummary, error) {
	account, err := s.repo.Account.GetByID(ctx, accountID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrAccountNotFound.WithMessage("account not found")
		}
		return nil, err
	}
	summary := summarize(account, s.admins.EffectiveRole(account.Email, account.Role))
	return &summary, nil
}

// ── helpers ──

func summarize(a *model.Account, role string) dto.AccountSummary {
	return dto.AccountSummary{
		StudentID:  a.StudentID,
		Name:       a.Name,
		Email:      a.Email,
		Role:       role,
		Department: a.Department,
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (s *authService) recordAuth(op, outcome string) {
	metrics.AuthAttempts.WithLabelValues(op, outcome).Inc()
}
