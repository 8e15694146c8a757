package model

import "time"

// MeetingTime is one capacity-bounded interview slot owned by a recruiting.
// Invariant: the number of applications assigned to a slot never exceeds
// AllowedNum. Slots are replaced wholesale when a club redefines the set;
// assigned applications are detached (meeting_time_id set NULL), never deleted.
type MeetingTime struct {
	ID           uint `gorm:"primaryKey;autoIncrement;->" json:"id"`
	RecruitingID uint `gorm:"not null;index" json:"recruiting_id"`

	AllowedNum       int       `gorm:"not null" json:"allowed_num"`
	MeetingStartTime time.Time `gorm:"type:timestamp;not null" json:"meeting_start_time"`
	MeetingEndTime   time.Time `gorm:"type:timestamp;not null" json:"meeting_end_time"`

	Applications []Application `gorm:"foreignKey:MeetingTimeID" json:"applications"`
}
