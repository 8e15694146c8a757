// Package scheduling provides HTTP handlers for interview slot management.
package scheduling

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gorapang/Innerjoin-Server/internal/database"
	"github.com/gorapang/Innerjoin-Server/internal/utilities"
)

// SchedulingController handles interview slot endpoints
type SchedulingController struct {
	DB *database.DBinstanceStruct
}

// NewSchedulingController creates a new instance of SchedulingController
func NewSchedulingController(db *database.DBinstanceStruct) *SchedulingController {
	return &SchedulingController{
		DB: db,
	}
}

type assignSlotRequest struct {
	MeetingTimeID uint `json:"meeting_time_id" binding:"required"`
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

// DefineMeetingTimes replaces the whole interview slot set of a recruiting.
// @Summary Replace the interview slot set of a recruiting
// @Description Destructive bulk operation: existing slots are removed, their assignments cleared, and the reservation window overwritten. Rejected once the post is in TIME_SET state. An empty slot list clears the schedule.
// @Tags Scheduling
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the recruiting"
// @Param Plan body database.MeetingTimePlan true "New slot set and reservation window"
// @Success 200 {object} database.RecruitingSchedule "Resulting schedule"
// @Failure 400 {object} utilities.ErrorResponse "Invalid slot specification"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Recruiting belongs to another club"
// @Failure 404 {object} utilities.ErrorResponse "Recruiting not found"
// @Failure 409 {object} utilities.ErrorResponse "Interview times already published"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /recruiting/{id}/meeting-times [post]
func (sc *SchedulingController) DefineMeetingTimes(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	recruitingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var plan database.MeetingTimePlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if err := sc.DB.ReplaceMeetingTimes(recruitingID, user.ID, plan); err != nil {
		switch {
		case errors.Is(err, database.ErrRecruitingNotFound), errors.Is(err, database.ErrPostNotFound):
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Recruiting not found"})
		case errors.Is(err, database.ErrUnauthorized):
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You are not allowed to schedule this recruiting"})
		case errors.Is(err, database.ErrSchedulingLocked):
			c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: "Interview times are already published for this post"})
		case errors.Is(err, database.ErrInvalidSlot):
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to replace meeting times: %s", err.Error()),
			})
		}
		return
	}

	schedule, err := sc.DB.ListMeetingTimes(recruitingID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to load schedule: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// ListMeetingTimes returns the slot set of a recruiting with occupancy.
// @Summary List interview slots of a recruiting
// @Description Slots are ordered by start time. Each slot carries its capacity, reserved count and occupant identities.
// @Tags Scheduling
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the recruiting"
// @Success 200 {object} database.RecruitingSchedule "Current schedule"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id parameter"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Recruiting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /recruiting/{id}/meeting-times [get]
func (sc *SchedulingController) ListMeetingTimes(c *gin.Context) {
	recruitingID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	schedule, err := sc.DB.ListMeetingTimes(recruitingID)
	if err != nil {
		if errors.Is(err, database.ErrRecruitingNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Recruiting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to load schedule: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// AssignToSlot places an application into one of the recruiting's bulk slots.
// @Summary Assign an application to an interview slot
// @Description The slot must belong to the application's recruiting and have free capacity.
// @Tags Scheduling
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the application"
// @Param Slot body assignSlotRequest true "Target slot"
// @Success 200 {object} model.Application "Updated application"
// @Failure 400 {object} utilities.ErrorResponse "Slot belongs to another recruiting"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Application belongs to another club's post"
// @Failure 404 {object} utilities.ErrorResponse "Application or slot not found"
// @Failure 409 {object} utilities.ErrorResponse "Slot is full"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /application/{id}/meeting-time [patch]
func (sc *SchedulingController) AssignToSlot(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	applicationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req assignSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	app, err := sc.DB.AssignApplicationToSlot(applicationID, req.MeetingTimeID, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrApplicationNotFound):
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Application not found"})
		case errors.Is(err, database.ErrRecruitingNotFound):
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Meeting time not found"})
		case errors.Is(err, database.ErrUnauthorized):
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: "You are not allowed to manage this application"})
		case errors.Is(err, database.ErrInvalidSlot):
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
		case errors.Is(err, database.ErrMeetingTimeFull):
			c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: "Meeting time is already full"})
		default:
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to assign slot: %s", err.Error()),
			})
		}
		return
	}

	c.JSON(http.StatusOK, app)
}
