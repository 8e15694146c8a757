// Package profile provides HTTP handlers for club and applicant profiles.
package profile

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gorapang/Innerjoin-Server/internal/database"
	"github.com/gorapang/Innerjoin-Server/internal/model"
	"github.com/gorapang/Innerjoin-Server/internal/utilities"
)

// ProfileController handles profile endpoints
type ProfileController struct {
	DB *database.DBinstanceStruct
}

// NewProfileController creates a new instance of ProfileController
func NewProfileController(db *database.DBinstanceStruct) *ProfileController {
	return &ProfileController{
		DB: db,
	}
}

// GetMyProfile returns the profile record matching the requester's role.
// @Summary Get own profile
// @Tags Profile
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {object} model.Club "Club or applicant profile depending on role"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /profile/me [get]
func (pc *ProfileController) GetMyProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	switch user.Role {
	case model.RoleClub:
		club, err := pc.loadClub(user.ID)
		if err != nil {
			pc.respondProfileError(c, err)
			return
		}
		c.JSON(http.StatusOK, club)
	case model.RoleApplicant:
		applicant, err := pc.loadApplicant(user.ID)
		if err != nil {
			pc.respondProfileError(c, err)
			return
		}
		c.JSON(http.StatusOK, applicant)
	default:
		c.JSON(http.StatusOK, user)
	}
}

// GetClubProfile returns a club's public profile.
// @Summary Get club profile by user ID
// @Tags Profile
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path string true "User ID of the club"
// @Success 200 {object} model.Club "The club profile"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id parameter"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Club not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /profile/club/{id} [get]
func (pc *ProfileController) GetClubProfile(c *gin.Context) {
	clubID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid id parameter"})
		return
	}

	club, err := pc.loadClub(clubID)
	if err != nil {
		pc.respondProfileError(c, err)
		return
	}

	c.JSON(http.StatusOK, club)
}

// UpdateClubProfile merges non-empty fields into the club's profile.
// @Summary Update own club profile
// @Description Only non-empty fields of the body are applied, empty fields keep their stored value.
// @Tags Profile
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Profile body model.EditableClubInfo true "Fields to update"
// @Success 200 {object} model.Club "Updated profile"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /profile/club [patch]
func (pc *ProfileController) UpdateClubProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var info model.EditableClubInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	club, err := pc.loadClub(user.ID)
	if err != nil {
		pc.respondProfileError(c, err)
		return
	}

	utilities.MergeNonEmpty(&club, &info)
	if err := pc.DB.Model(&model.Club{UserID: user.ID}).Updates(club.EditableClubInfo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update profile: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, club)
}

// UpdateApplicantProfile merges non-empty fields into the applicant's profile.
// @Summary Update own applicant profile
// @Description Only non-empty fields of the body are applied, empty fields keep their stored value.
// @Tags Profile
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Profile body model.EditableApplicantInfo true "Fields to update"
// @Success 200 {object} model.Applicant "Updated profile"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /profile/applicant [patch]
func (pc *ProfileController) UpdateApplicantProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var info model.EditableApplicantInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	applicant, err := pc.loadApplicant(user.ID)
	if err != nil {
		pc.respondProfileError(c, err)
		return
	}

	utilities.MergeNonEmpty(&applicant, &info)
	if err := pc.DB.Model(&model.Applicant{UserID: user.ID}).Updates(applicant.EditableApplicantInfo).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update profile: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, applicant)
}

func (pc *ProfileController) loadClub(userID uuid.UUID) (model.Club, error) {
	var club model.Club
	err := pc.DB.Preload("User").Where("user_id = ?", userID).First(&club).Error
	return club, err
}

func (pc *ProfileController) loadApplicant(userID uuid.UUID) (model.Applicant, error) {
	var applicant model.Applicant
	err := pc.DB.Preload("User").Where("user_id = ?", userID).First(&applicant).Error
	return applicant, err
}

func (pc *ProfileController) respondProfileError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Profile not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
		Error: fmt.Sprintf("Failed to retrieve profile: %s", err.Error()),
	})
}
