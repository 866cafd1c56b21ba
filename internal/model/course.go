package model

// DefaultInstructor is stored when a course is created without one.
const DefaultInstructor = "TBA"

// Course maps to courses. Codes are not unique.
type Course struct {
	CourseID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Code       string `gorm:"type:varchar(20);not null"                      json:"code"`
	Title      string `gorm:"type:varchar(200);not null"                     json:"title"`
	Department string `gorm:"type:varchar(100);not null"                     json:"department"`
	Instructor string `gorm:"type:varchar(100);not null;default:'TBA'"       json:"instructor"`
	BaseModel
}

func (Course) TableName() string { return "courses" }
