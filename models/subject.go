package models

import "gorm.io/gorm"

// Subject is a workshop subject (e.g. "Mechanische Werkstätte").
type Subject struct {
	gorm.Model
	Name string `json:"name" gorm:"unique;not null"`
}

// Room is a workshop location.
type Room struct {
	gorm.Model
	Name string `json:"name" gorm:"unique;not null"`
}

// LearningContent is the curriculum item taught during a workshop block.
type LearningContent struct {
	gorm.Model
	Name string `json:"name" gorm:"unique;not null"`
}
