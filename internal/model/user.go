// Package model contain gorm model for recording data to database
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	// RoleClub is the role string for club accounts
	RoleClub = "club"
	// RoleApplicant is the role string for applicant accounts
	RoleApplicant = "applicant"
	// RoleAdmin is the role string for the bootstrap admin account
	RoleAdmin = "admin"
)

// User is the base account record shared by clubs, applicants and admins
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Username  string    `gorm:"type:text;uniqueIndex" json:"username"`
	Email     *string   `gorm:"type:text" json:"email"`
	Tel       *string   `gorm:"type:text" json:"tel"`
	Password  string    `gorm:"type:text" json:"-"`
	GoogleID  string    `gorm:"type:text" json:"-"`
	Role      string    `gorm:"type:text;not null" json:"role"`
	CreatedAt time.Time `gorm:"type:timestamp;default:CURRENT_TIMESTAMP;->" json:"created_at"`
}

// EditableClubInfo is the part of a club profile the club itself may change
type EditableClubInfo struct {
	Name        string         `gorm:"type:text" json:"name"`
	School      string         `gorm:"type:text" json:"school"`
	Description string         `gorm:"type:text" json:"description"`
	Categories  pq.StringArray `gorm:"type:text[]" json:"categories"`
}

// Club is the profile record for a club account
type Club struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"user"`
	EditableClubInfo
}

// EditableApplicantInfo is the part of an applicant profile the applicant may change
type EditableApplicantInfo struct {
	Name          string  `gorm:"type:text" json:"name"`
	StudentNumber string  `gorm:"type:text" json:"student_number"`
	School        string  `gorm:"type:text" json:"school"`
	Major         *string `gorm:"type:text" json:"major"`
}

// Applicant is the profile record for an applicant account
type Applicant struct {
	UserID uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	User   User      `gorm:"foreignKey:UserID;references:ID" json:"user"`
	EditableApplicantInfo
	// EmailVerified flips to true once univcert confirms the school address
	EmailVerified bool `gorm:"type:boolean;default:false" json:"email_verified"`
}

// ClubResponse is the login/register response for club accounts
type ClubResponse struct {
	User        Club   `json:"user"`
	AccessToken string `json:"access_token"`
}

// ApplicantResponse is the login/register response for applicant accounts
type ApplicantResponse struct {
	User        Applicant `json:"user"`
	AccessToken string    `json:"access_token"`
}
