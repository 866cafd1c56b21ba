package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sakib-101-git/EDU-ClassRepo/internal/model"
)

// AccountRepository is the credential store.
type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	GetByID(ctx context.Context, id string) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByVerificationToken(ctx context.Context, token string) (*model.Account, error)
	MarkVerified(ctx context.Context, id string) error
	Update(ctx context.Context, account *model.Account) error
}

type accountRepo struct {
	db *gorm.DB
}

// NewAccountRepo creates an AccountRepository.
func NewAccountRepo(db *gorm.DB) AccountRepository {
	return &accountRepo{db: db}
}

func (r *accountRepo) Create(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Where("account_id = ?", id).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepo) GetByVerificationToken(ctx context.Context, token string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).
		Where("verification_token = ?", token).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// MarkVerified sets is_verified and clears the one-time token.
func (r *accountRepo) MarkVerified(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("account_id = ?", id).
		Updates(map[string]interface{}{
			"is_verified":             true,
			"verification_token":      nil,
			"verification_expires_at": nil,
			"updated_at":              time.Now(),
		}).Error
}

func (r *accountRepo) Update(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}
