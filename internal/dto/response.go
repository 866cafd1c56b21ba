package dto

import "time"

// ── auth ──

// AccountSummary is the public view of an account. Never carries the hash.
type AccountSummary struct {
	StudentID  string `json:"student_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// RegisterResponse registration result.
type RegisterResponse struct {
	Email                string `json:"email"`
	VerificationRequired bool   `json:"verification_required"`
}

// TokenResponse login result.
type TokenResponse struct {
	Token     string         `json:"token"`
	ExpiresIn int            `json:"expires_in"` // seconds
	User      AccountSummary `json:"user"`
}

// ── courses ──

// CourseResponse catalog entry.
type CourseResponse struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Title      string `json:"title"`
	Department string `json:"department"`
	Instructor string `json:"instructor"`
}

// IDResponse carries the id of a created record.
type IDResponse struct {
	ID string `json:"id"`
}

// ImportCourseResponse bulk import result.
type ImportCourseResponse struct {
	Total   int                 `json:"total"`
	Success int                 `json:"success"`
	Failed  int                 `json:"failed"`
	Errors  []ImportCourseError `json:"errors,omitempty"`
}

// ImportCourseError one rejected spreadsheet row.
type ImportCourseError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ── files ──

// UploadResponse upload result.
type UploadResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// FileResponse a file in the approved listing.
type FileResponse struct {
	ID           string    `json:"id"`
	CourseID     string    `json:"course_id"`
	DisplayName  string    `json:"display_name"`
	SizeBytes    int64     `json:"size_bytes"`
	ContentType  string    `json:"content_type"`
	Status       string    `json:"status"`
	UploaderName string    `json:"uploader_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// PendingFileResponse a file in the moderation queue.
type PendingFileResponse struct {
	FileResponse
	CourseCode  string `json:"course_code"`
	CourseTitle string `json:"course_title"`
}
