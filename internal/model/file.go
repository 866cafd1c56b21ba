package model

import "time"

// File statuses. Rejection deletes the row, so there is no rejected status.
const (
	FileStatusPending  = "pending"
	FileStatusApproved = "approved"
)

// File maps to files; the binary lives in the blob store under StorageKey.
type File struct {
	FileID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"           json:"file_id"`
	CourseID    string    `gorm:"type:uuid;not null"                                       json:"course_id"`
	DisplayName string    `gorm:"type:varchar(255);not null"                               json:"display_name"`
	StorageKey  string    `gorm:"type:varchar(512);not null;uniqueIndex"                   json:"-"`
	SizeBytes   int64     `gorm:"not null"                                                 json:"size_bytes"`
	ContentType string    `gorm:"type:varchar(255);not null;default:'application/octet-stream'" json:"content_type"`
	UploadedBy  string    `gorm:"type:uuid;not null"                                       json:"uploaded_by"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending'"              json:"status"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"                       json:"created_at"`

	Uploader *Account `gorm:"foreignKey:UploadedBy;references:AccountID" json:"uploader,omitempty"`
	Course   *Course  `gorm:"foreignKey:CourseID;references:CourseID"   json:"course,omitempty"`
}

func (File) TableName() string { return "files" }
