// Package verification provides HTTP handlers for school email verification.
package verification

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gorapang/Innerjoin-Server/internal/database"
	"github.com/gorapang/Innerjoin-Server/internal/model"
	"github.com/gorapang/Innerjoin-Server/internal/utilities"
)

// Certifier is the slice of the univcert client the controller needs.
type Certifier interface {
	RequestCertification(email, univName string) error
	ConfirmCode(email, univName string, code int) error
	ClearCertification(email string) error
}

// VerificationController handles school email verification endpoints
type VerificationController struct {
	DB       *database.DBinstanceStruct
	Verifier Certifier
}

// NewVerificationController creates a new instance of VerificationController
func NewVerificationController(db *database.DBinstanceStruct, verifier Certifier) *VerificationController {
	return &VerificationController{
		DB:       db,
		Verifier: verifier,
	}
}

type requestCodeBody struct {
	Email    string `json:"email" binding:"required,email"`
	UnivName string `json:"univ_name" binding:"required"`
}

type confirmCodeBody struct {
	Email    string `json:"email" binding:"required,email"`
	UnivName string `json:"univ_name" binding:"required"`
	Code     int    `json:"code" binding:"required"`
}

// RequestCode asks univcert to mail a verification code to the school address.
// @Summary Request a school email verification code
// @Tags Verification
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Request body requestCodeBody true "School email and university name"
// @Success 200 {object} utilities.MessageResponse "Code sent"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 502 {object} utilities.ErrorResponse "Certification service failure"
// @Router /verification/request [post]
func (vc *VerificationController) RequestCode(c *gin.Context) {
	var body requestCodeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if err := vc.Verifier.RequestCertification(body.Email, body.UnivName); err != nil {
		c.JSON(http.StatusBadGateway, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to request verification: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Verification code sent"})
}

// ConfirmCode checks the code and, on success, marks the applicant verified
// and stores the school address on the account.
// @Summary Confirm a school email verification code
// @Tags Verification
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Confirmation body confirmCodeBody true "School email, university name and received code"
// @Success 200 {object} model.Applicant "Verified applicant profile"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or wrong code"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Applicant profile not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /verification/confirm [post]
func (vc *VerificationController) ConfirmCode(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var body confirmCodeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if err := vc.Verifier.ConfirmCode(body.Email, body.UnivName, body.Code); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Verification failed: %s", err.Error()),
		})
		return
	}

	var applicant model.Applicant
	if err := vc.DB.Preload("User").Where("user_id = ?", user.ID).First(&applicant).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Applicant profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve profile: %s", err.Error()),
		})
		return
	}

	err = vc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Applicant{UserID: user.ID}).
			Updates(map[string]interface{}{
				"email_verified": true,
				"school":         body.UnivName,
			}).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).Where("id = ?", user.ID).
			Update("email", body.Email).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to record verification: %s", err.Error()),
		})
		return
	}

	applicant.EmailVerified = true
	applicant.School = body.UnivName
	applicant.User.Email = &body.Email
	c.JSON(http.StatusOK, applicant)
}
