package model

import "time"

var (
	// RecruitmentFormOnly selects applicants from form responses alone
	RecruitmentFormOnly = "FORM_ONLY"
	// RecruitmentMeetingOnly selects applicants from an interview alone
	RecruitmentMeetingOnly = "MEETING_ONLY"
	// RecruitmentFormAndMeeting runs a form round followed by an interview round
	RecruitmentFormAndMeeting = "FORM_AND_MEETING"
)

// Recruiting is one job track inside a post. It owns the interview slot set
// and the reservation window applicants may be scheduled into.
type Recruiting struct {
	ID     uint  `gorm:"primaryKey;autoIncrement;->" json:"id"`
	PostID uint  `gorm:"not null;index;<-:create" json:"post_id"`
	Post   Post  `gorm:"foreignKey:PostID;references:ID" json:"-"`
	FormID *uint `gorm:"index" json:"form_id"`
	Form   *Form `gorm:"foreignKey:FormID;references:ID" json:"-"`

	JobTitle        string `gorm:"type:text" json:"job_title"`
	RecruitmentType string `gorm:"type:text" json:"recruitment_type"`

	ReservationStartTime *time.Time `gorm:"type:timestamp" json:"reservation_start_time"`
	ReservationEndTime   *time.Time `gorm:"type:timestamp" json:"reservation_end_time"`

	MeetingTimes []MeetingTime `gorm:"foreignKey:RecruitingID;constraint:OnDelete:CASCADE" json:"meeting_times"`
	Applications []Application `gorm:"foreignKey:RecruitingID" json:"applications"`
}
