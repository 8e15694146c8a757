package model

import (
	"time"

	"github.com/google/uuid"
)

// RecruitmentStatus tracks where a recruitment post is in its lifecycle.
// Once a post reaches StatusTimeSet its interview slots are frozen and
// ReplaceMeetingTimes refuses to touch them.
type RecruitmentStatus string

var (
	// StatusOpen means the post accepts applications
	StatusOpen RecruitmentStatus = "OPEN"
	// StatusTimeSet means interview times are published and locked
	StatusTimeSet RecruitmentStatus = "TIME_SET"
	// StatusClosed means the recruitment cycle finished
	StatusClosed RecruitmentStatus = "CLOSED"
)

// ValidStatus reports whether s is one of the known recruitment statuses
func ValidStatus(s RecruitmentStatus) bool {
	return s == StatusOpen || s == StatusTimeSet || s == StatusClosed
}

// EditablePostInfo is the part of a recruitment post the owning club may edit
type EditablePostInfo struct {
	Title            string     `gorm:"type:text" json:"title"`
	Body             string     `gorm:"type:text" json:"body"`
	StartTime        *time.Time `gorm:"type:timestamp" json:"start_time"`
	EndTime          *time.Time `gorm:"type:timestamp" json:"end_time"`
	RecruitmentCount *int       `json:"recruitment_count"`
}

// Post is a recruitment announcement owned by a club. A post owns its
// recruitings (job tracks) and its images.
type Post struct {
	ID     uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	ClubID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"club_id"`
	Club   Club      `gorm:"foreignKey:ClubID;references:UserID" json:"-"`
	EditablePostInfo
	Status    RecruitmentStatus `gorm:"type:text;default:'OPEN'" json:"recruitment_status"`
	CreatedAt time.Time         `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`

	Images      []PostImage  `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"images"`
	Recruitings []Recruiting `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"recruitings"`
}

// PostImage stores the public URL of one uploaded post image
type PostImage struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID     uint   `gorm:"not null;index" json:"post_id"`
	ObjectName string `gorm:"type:text" json:"-"`
	ImageURL   string `gorm:"type:text" json:"image_url"`
}
