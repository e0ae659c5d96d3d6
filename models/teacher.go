package models

import "gorm.io/gorm"

// Teacher is a staff member who can appear in assignments and rotations.
type Teacher struct {
	gorm.Model
	FirstName string `json:"firstName" gorm:"not null"`
	LastName  string `json:"lastName" gorm:"not null"`
	Username  string `json:"username" gorm:"unique;not null"`
	Email     string `json:"email"`
}

// TeacherInput binds the JSON body for create and update requests.
type TeacherInput struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email"`
}

// FullName returns "Lastname Firstname" as printed on plans and grade sheets.
func (t Teacher) FullName() string {
	return t.LastName + " " + t.FirstName
}
