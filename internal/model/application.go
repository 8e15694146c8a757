package model

import (
	"time"

	"github.com/google/uuid"
)

// ResultType is the decision state of one selection round
type ResultType string

var (
	// ResultPending means no decision has been recorded yet
	ResultPending ResultType = "PENDING"
	// ResultAccepted means the applicant passed the round
	ResultAccepted ResultType = "ACCEPTED"
	// ResultRejected means the applicant failed the round
	ResultRejected ResultType = "REJECTED"
)

// Valid reports whether r is a known result value
func (r ResultType) Valid() bool {
	return r == ResultPending || r == ResultAccepted || r == ResultRejected
}

// CanTransition reports whether a result may move from r to next. Terminal
// results may be overwritten with another terminal result; nothing moves
// back to PENDING through public operations.
func (r ResultType) CanTransition(next ResultType) bool {
	return next.Valid() && next != ResultPending
}

// Application is one applicant's submission to one recruiting. At most one
// application exists per (applicant, recruiting) pair. Applications are never
// hard-deleted; they carry the scoring and decision audit trail.
type Application struct {
	ID          uint      `gorm:"primaryKey;autoIncrement;->" json:"id"`
	SubmittedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"submitted_at"`

	ApplicantID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_applicant_recruiting" json:"applicant_id"`
	Applicant   Applicant `gorm:"foreignKey:ApplicantID;references:UserID" json:"-"`

	RecruitingID uint       `gorm:"not null;uniqueIndex:idx_applicant_recruiting;index" json:"recruiting_id"`
	Recruiting   Recruiting `gorm:"foreignKey:RecruitingID;references:ID" json:"-"`

	FormResult    ResultType `gorm:"type:text;default:'PENDING'" json:"form_result"`
	MeetingResult ResultType `gorm:"type:text;default:'PENDING'" json:"meeting_result"`
	FormScore     int        `json:"form_score"`
	MeetingScore  int        `json:"meeting_score"`

	MeetingTimeID *uint        `gorm:"index" json:"meeting_time_id"`
	MeetingTime   *MeetingTime `gorm:"foreignKey:MeetingTimeID;references:ID;constraint:OnDelete:SET NULL" json:"meeting_time,omitempty"`

	Responses []Response `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"responses"`
}

// Response is one scored answer inside an application
type Response struct {
	ID            uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	ApplicationID uint     `gorm:"not null;index" json:"application_id"`
	QuestionID    uint     `gorm:"not null;index" json:"question_id"`
	Question      Question `gorm:"foreignKey:QuestionID;references:ID" json:"question"`
	Content       string   `gorm:"type:text" json:"content"`
	Score         int      `json:"score"`
}
