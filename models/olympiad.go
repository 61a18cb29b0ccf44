// models/olympiad.go
package models

import "time"

type Olympiad struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Slug        string    `json:"slug" gorm:"uniqueIndex;not null;size:120"`
	ShortName   string    `json:"short_name" gorm:"size:50"`
	Name        string    `json:"name" gorm:"not null;size:200"`
	Year        int       `json:"year" gorm:"index"`
	Level       string    `json:"level" gorm:"size:50;index"`
	Subject     string    `json:"subject" gorm:"size:100;index"`
	Description string    `json:"description" gorm:"type:text"`
	Teams       []Team    `json:"teams,omitempty" gorm:"foreignKey:OlympiadID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Olympiad) TableName() string {
	return "olympiads"
}
