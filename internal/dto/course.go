package dto

// CourseRequest is used for both create and full-replacement update.
type CourseRequest struct {
	Code       string `json:"code"`
	Title      string `json:"title"`
	Department string `json:"department"`
	Instructor string `json:"instructor"`
}
