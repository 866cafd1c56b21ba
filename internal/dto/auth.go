package dto

// ── auth requests ──

// RegisterRequest registration. Blank checks happen in the service so the
// client gets a ValidationError rather than a binding message.
type RegisterRequest struct {
	Name       string  `json:"name"`
	StudentID  string  `json:"student_id"`
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Department string  `json:"department"`
	Gender     *string `json:"gender"`
	Semester   *string `json:"semester"`
}

// LoginRequest login. UserType is the role the client asks to sign in as.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}
