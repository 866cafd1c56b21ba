package model

import "time"

// Enrollment maps to enrollments; the pair is the primary key.
type Enrollment struct {
	AccountID string    `gorm:"type:uuid;primaryKey"               json:"account_id"`
	CourseID  string    `gorm:"type:uuid;primaryKey"               json:"course_id"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Enrollment) TableName() string { return "enrollments" }
