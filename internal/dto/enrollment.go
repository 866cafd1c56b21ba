package dto

// EnrollRequest POST /enrollments
type EnrollRequest struct {
	CourseID string `json:"courseId"`
}
