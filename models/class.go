package models

import "gorm.io/gorm"

// Class represents a school class whose students rotate through workshop groups.
type Class struct {
	gorm.Model
	Name        string `json:"name" gorm:"unique;not null"`
	Description string `json:"description"`
	ClassHeadID *uint  `json:"classHeadId"`
	ClassLeadID *uint  `json:"classLeadId"`

	ClassHead *Teacher   `gorm:"foreignKey:ClassHeadID" json:"classHead,omitempty"`
	ClassLead *Teacher   `gorm:"foreignKey:ClassLeadID" json:"classLead,omitempty"`
	Students  []Student  `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE" json:"students,omitempty"`
	Schedules []Schedule `gorm:"foreignKey:ClassID;constraint:OnDelete:CASCADE" json:"schedules,omitempty"`
}

// ClassInput binds the JSON body for create and update requests.
type ClassInput struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ClassHeadID *uint  `json:"classHeadId"`
	ClassLeadID *uint  `json:"classLeadId"`
}

// ClassResponse is the list representation returned by the classes API.
type ClassResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	StudentCount int    `json:"studentCount"`
	ClassHead    string `json:"classHead"`
	ClassLead    string `json:"classLead"`
}
