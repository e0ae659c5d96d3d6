package models

import "gorm.io/gorm"

// Student belongs to at most one class. GroupID is the workshop group the
// student is placed in; it is scoped to the class's current schedule and stays
// nil until the administrator partitions the class.
type Student struct {
	gorm.Model
	FirstName string `json:"firstName" gorm:"not null"`
	LastName  string `json:"lastName" gorm:"not null"`
	Username  string `json:"username" gorm:"not null"`
	ClassID   *uint  `json:"classId"`
	GroupID   *int   `json:"groupId"`

	Class *Class `gorm:"foreignKey:ClassID" json:"class,omitempty"`
}

// StudentInput binds the JSON body for create and update requests.
type StudentInput struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Username  string `json:"username" binding:"required"`
	ClassID   *uint  `json:"classId"`
	GroupID   *int   `json:"groupId"`
}
