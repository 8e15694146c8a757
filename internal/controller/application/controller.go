// Package application provides HTTP handlers for application lifecycle operations.
package application

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gorapang/Innerjoin-Server/internal/database"
	"github.com/gorapang/Innerjoin-Server/internal/mailer"
	"github.com/gorapang/Innerjoin-Server/internal/model"
	"github.com/gorapang/Innerjoin-Server/internal/utilities"
)

// ApplicationController handles application endpoints
type ApplicationController struct {
	DB     *database.DBinstanceStruct
	Mailer mailer.Notifier
}

// NewApplicationController creates a new instance of ApplicationController
func NewApplicationController(db *database.DBinstanceStruct, notifier mailer.Notifier) *ApplicationController {
	return &ApplicationController{
		DB:     db,
		Mailer: notifier,
	}
}

type formScoreRequest struct {
	Scores map[uint]int `json:"scores" binding:"required"`
}

type meetingScoreRequest struct {
	Score *int `json:"score" binding:"required"`
}

type outcomeRequest struct {
	FormResult    model.ResultType `json:"form_result" binding:"required"`
	MeetingResult model.ResultType `json:"meeting_result" binding:"required"`
	StartTime     *time.Time       `json:"meeting_start_time"`
	EndTime       *time.Time       `json:"meeting_end_time"`
}

type notifyRequest struct {
	ApplicationIDs []uint `json:"application_ids" binding:"required,min=1"`
	Subject        string `json:"subject" binding:"required"`
	Body           string `json:"body" binding:"required"`
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid %s parameter", name),
		})
		return 0, false
	}
	return uint(id), true
}

// respondStoreError maps store sentinel errors onto HTTP statuses.
func respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrApplicationNotFound):
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
	case errors.Is(err, database.ErrRecruitingNotFound):
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Recruiting not found"})
	case errors.Is(err, database.ErrPostNotFound):
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Post not found"})
	case errors.Is(err, database.ErrQuestionNotFound):
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Answer references an unknown question"})
	case errors.Is(err, database.ErrUnauthorized):
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You are not allowed to manage this application"})
	case errors.Is(err, database.ErrAlreadyApplied):
		c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: "You already applied to this recruiting"})
	case errors.Is(err, database.ErrInvalidResult):
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
	case errors.Is(err, database.ErrInvalidSlot):
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
	}
}

// SubmitApplication records a new application from the logged-in applicant.
// @Summary Submit an application to a recruiting
// @Description One application per applicant per recruiting. Answers must reference questions of the recruiting's form.
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Application body database.ApplicationRequest true "Target recruiting and answers"
// @Success 201 {object} model.Application "Successfully submitted"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body or unknown question"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Recruiting not found"
// @Failure 409 {object} utilities.ErrorResponse "Duplicate application"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application [post]
func (ac *ApplicationController) SubmitApplication(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req database.ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	app, err := ac.DB.CreateApplication(user.ID, req)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

// GetApplication returns one application. Applicants may read their own,
// clubs may read applications to their posts.
// @Summary Get application by ID
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the application"
// @Success 200 {object} model.Application "The application with responses and slot"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id parameter"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the applicant nor the post owner"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application/{id} [get]
func (ac *ApplicationController) GetApplication(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	applicationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	app, err := ac.DB.FetchApplication(applicationID)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if app.ApplicantID != user.ID {
		var recruiting model.Recruiting
		if err := ac.DB.Preload("Post").First(&recruiting, app.RecruitingID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve recruiting: %s", err.Error()),
			})
			return
		}
		if recruiting.Post.ClubID != user.ID {
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "You are not allowed to read this application",
			})
			return
		}
	}

	c.JSON(http.StatusOK, app)
}

// ListMyApplications returns the logged-in applicant's applications.
// @Summary List own applications
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Application "All applications of the requester"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application/me [get]
func (ac *ApplicationController) ListMyApplications(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var apps []model.Application
	if err := ac.DB.
		Preload("MeetingTime").
		Preload("Responses").
		Where("applicant_id = ?", user.ID).
		Order("submitted_at DESC").
		Find(&apps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch applications: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, apps)
}

// UpdateFormScore overwrites per-answer scores and recomputes the form total.
// @Summary Score the form answers of an application
// @Description Scores map question id to score. Responses not mentioned keep their score of zero; question ids with no matching response are ignored. The form score becomes the sum over scored responses, so re-submitting the same map is idempotent.
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the application"
// @Param Scores body formScoreRequest true "Scores keyed by question id"
// @Success 200 {object} model.Application "Application with updated form score"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Application belongs to another club's post"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application/{id}/form-score [patch]
func (ac *ApplicationController) UpdateFormScore(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	applicationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req formScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	app, err := ac.DB.ApplyFormScores(applicationID, user.ID, req.Scores)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// UpdateMeetingScore sets the interview score of an application.
// @Summary Score the interview of an application
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the application"
// @Param Score body meetingScoreRequest true "Interview score"
// @Success 200 {object} model.Application "Application with updated meeting score"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Application belongs to another club's post"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application/{id}/meeting-score [patch]
func (ac *ApplicationController) UpdateMeetingScore(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	applicationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req meetingScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	app, err := ac.DB.SetMeetingScore(applicationID, user.ID, *req.Score)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// UpdateOutcome records the round results of an application and optionally
// reschedules its interview window.
// @Summary Update the form and interview results of an application
// @Description Results may move between ACCEPTED and REJECTED but never back to PENDING. When both window fields are present the applicant's interview is moved: a sole occupant's slot is rescheduled in place, otherwise a dedicated single-seat slot is created.
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the application"
// @Param Outcome body outcomeRequest true "Round results with optional interview window"
// @Success 200 {object} model.Application "Updated application"
// @Failure 400 {object} utilities.ErrorResponse "Illegal result transition or invalid window"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Application belongs to another club's post"
// @Failure 404 {object} utilities.ErrorResponse "Application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application/{id}/outcome [put]
func (ac *ApplicationController) UpdateOutcome(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	applicationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req outcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	var window *database.TimeWindow
	if req.StartTime != nil || req.EndTime != nil {
		if req.StartTime == nil || req.EndTime == nil {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: "Both meeting_start_time and meeting_end_time must be provided",
			})
			return
		}
		window = &database.TimeWindow{Start: *req.StartTime, End: *req.EndTime}
	}

	app, err := ac.DB.UpdateOutcome(applicationID, user.ID, req.FormResult, req.MeetingResult, window)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// NotifyApplicants emails the result notice to the applicants behind the
// given applications of a post.
// @Summary Send a result email to selected applicants of a post
// @Description Applications under other posts are skipped. Applicants without an email address are silently omitted.
// @Tags Application
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the post"
// @Param Notice body notifyRequest true "Recipients and message"
// @Success 200 {object} utilities.MessageResponse "Delivery summary"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Post owned by another club"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Failure 502 {object} utilities.ErrorResponse "Mail relay failure"
// @Router /post/{id}/notify [post]
func (ac *ApplicationController) NotifyApplicants(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	recipients, err := ac.DB.ResolveRecipients(postID, user.ID, req.ApplicationIDs)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if len(recipients) == 0 {
		c.JSON(http.StatusOK, utilities.MessageResponse{Message: "No reachable applicants"})
		return
	}

	if err := ac.Mailer.Notify(recipients, req.Subject, req.Body); err != nil {
		c.JSON(http.StatusBadGateway, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to send notification: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{
		Message: fmt.Sprintf("Notification sent to %d applicant(s)", len(recipients)),
	})
}
