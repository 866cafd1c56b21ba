package model

import "time"

// Roles
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// Account maps to accounts. Email is always stored lowercase.
type Account struct {
	AccountID             string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"account_id"`
	StudentID             string     `gorm:"type:varchar(50);not null"                      json:"student_id"`
	Name                  string     `gorm:"type:varchar(100);not null"                     json:"name"`
	Email                 string     `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash          string     `gorm:"type:varchar(255);not null"                     json:"-"`
	Role                  string     `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`
	Department            string     `gorm:"type:varchar(100);not null"                     json:"department"`
	Gender                *string    `gorm:"type:varchar(20)"                               json:"gender,omitempty"`
	Semester              *string    `gorm:"type:varchar(20)"                               json:"semester,omitempty"`
	IsVerified            bool       `gorm:"not null;default:false"                         json:"is_verified"`
	VerificationToken     *string    `gorm:"type:varchar(64)"                               json:"-"`
	VerificationExpiresAt *time.Time `                                                      json:"-"`
	CreatedAt             time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt             time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }
