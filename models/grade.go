package models

import (
	"time"
)

// Semesters of the school year.
const (
	SemesterFirst  = "first"
	SemesterSecond = "second"
)

// Grade is one teacher's mark for one student in one semester. The value is
// restricted to the half-step scale 1, 1.5, ..., 5; nil means "not graded yet".
type Grade struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	StudentID uint     `gorm:"not null;uniqueIndex:idx_grade_scope" json:"studentId"`
	TeacherID uint     `gorm:"not null;uniqueIndex:idx_grade_scope" json:"teacherId"`
	ClassID   uint     `gorm:"not null;uniqueIndex:idx_grade_scope" json:"classId"`
	Semester  string   `gorm:"size:10;not null;uniqueIndex:idx_grade_scope" json:"semester"`
	Grade     *float64 `json:"grade"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Student Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Teacher Teacher `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
}

// ValidGradeValue reports whether v is on the allowed half-step scale.
func ValidGradeValue(v float64) bool {
	if v < 1 || v > 5 {
		return false
	}
	doubled := v * 2
	return doubled == float64(int(doubled))
}
