package model

import "github.com/google/uuid"

// Form is a question set a club attaches to its recruitings
type Form struct {
	ID     uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	ClubID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"club_id"`
	Club   Club      `gorm:"foreignKey:ClubID;references:UserID" json:"-"`

	Title     string     `gorm:"type:text" json:"title"`
	Questions []Question `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"questions"`
}

// Question is one prompt inside a form
type Question struct {
	ID      uint   `gorm:"primaryKey;autoIncrement;->" json:"id"`
	FormID  uint   `gorm:"not null;index;<-:create" json:"form_id"`
	Content string `gorm:"type:text" json:"content"`
}
