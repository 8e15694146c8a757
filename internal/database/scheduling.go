package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gorapang/Innerjoin-Server/internal/model"
)

// SlotSpec is one requested interview slot in a bulk redefinition
type SlotSpec struct {
	AllowedNum       int       `json:"allowed_num" binding:"required"`
	MeetingStartTime time.Time `json:"meeting_start_time" binding:"required"`
	MeetingEndTime   time.Time `json:"meeting_end_time" binding:"required"`
}

// MeetingTimePlan is the full slot set plus the reservation window for one
// recruiting. An empty MeetingTimes list is legal and clears all slots.
type MeetingTimePlan struct {
	MeetingTimes         []SlotSpec `json:"meeting_times"`
	ReservationStartTime time.Time  `json:"reservation_start_time" binding:"required"`
	ReservationEndTime   time.Time  `json:"reservation_end_time" binding:"required"`
}

// SlotOccupant is the minimal applicant identity exposed in slot listings
type SlotOccupant struct {
	ApplicantID   uuid.UUID `json:"applicant_id"`
	Name          string    `json:"name"`
	StudentNumber string    `json:"student_number"`
}

// SlotView is one slot with its current occupancy
type SlotView struct {
	ID               uint           `json:"id"`
	AllowedNum       int            `json:"allowed_num"`
	ReservedNum      int            `json:"reserved_num"`
	Applicants       []SlotOccupant `json:"applicants"`
	MeetingStartTime time.Time      `json:"meeting_start_time"`
	MeetingEndTime   time.Time      `json:"meeting_end_time"`
}

// RecruitingSchedule is the slot listing for one recruiting
type RecruitingSchedule struct {
	RecruitingID         uint       `json:"recruiting_id"`
	JobTitle             string     `json:"job_title"`
	ReservationStartTime *time.Time `json:"reservation_start_time"`
	ReservationEndTime   *time.Time `json:"reservation_end_time"`
	MeetingTimes         []SlotView `json:"meeting_times"`
}

// ReplaceMeetingTimes swaps the whole slot set of a recruiting for the one in
// plan and overwrites the reservation window. The requester must own the post
// and the post must not be in TIME_SET state. The old slots are deleted and
// their assignments detached inside the same transaction as the insert, so
// the replacement is all-or-nothing.
func (d *DBinstanceStruct) ReplaceMeetingTimes(recruitingID uint, clubID uuid.UUID, plan MeetingTimePlan) error {
	var recruiting model.Recruiting
	if err := d.First(&recruiting, recruitingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecruitingNotFound
		}
		return err
	}

	var post model.Post
	if err := d.First(&post, recruiting.PostID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}

	if post.ClubID != clubID {
		return ErrUnauthorized
	}

	if post.Status == model.StatusTimeSet {
		return ErrSchedulingLocked
	}

	for i, spec := range plan.MeetingTimes {
		if spec.AllowedNum < 1 {
			return fmt.Errorf("%w: slot %d has capacity %d", ErrInvalidSlot, i, spec.AllowedNum)
		}
		if !spec.MeetingEndTime.After(spec.MeetingStartTime) {
			return fmt.Errorf("%w: slot %d window ends before it starts", ErrInvalidSlot, i)
		}
	}

	return d.Transaction(func(tx *gorm.DB) error {
		// Detach applications pointing at the slots that are about to go
		slotIDs := tx.Model(&model.MeetingTime{}).Select("id").Where("recruiting_id = ?", recruitingID)
		if err := tx.Model(&model.Application{}).
			Where("meeting_time_id IN (?)", slotIDs).
			Update("meeting_time_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("recruiting_id = ?", recruitingID).
			Delete(&model.MeetingTime{}).Error; err != nil {
			return err
		}

		if len(plan.MeetingTimes) > 0 {
			slots := make([]model.MeetingTime, 0, len(plan.MeetingTimes))
			for _, spec := range plan.MeetingTimes {
				slots = append(slots, model.MeetingTime{
					RecruitingID:     recruitingID,
					AllowedNum:       spec.AllowedNum,
					MeetingStartTime: spec.MeetingStartTime,
					MeetingEndTime:   spec.MeetingEndTime,
				})
			}
			if err := tx.Create(&slots).Error; err != nil {
				return err
			}
		}

		return tx.Model(&model.Recruiting{}).
			Where("id = ?", recruitingID).
			Updates(map[string]interface{}{
				"reservation_start_time": plan.ReservationStartTime,
				"reservation_end_time":   plan.ReservationEndTime,
			}).Error
	})
}

// ListMeetingTimes returns the recruiting's slots ordered by start time with
// occupancy counts and minimal occupant identities.
func (d *DBinstanceStruct) ListMeetingTimes(recruitingID uint) (RecruitingSchedule, error) {
	var recruiting model.Recruiting
	err := d.
		Preload("MeetingTimes", func(db *gorm.DB) *gorm.DB {
			return db.Order("meeting_start_time ASC")
		}).
		Preload("MeetingTimes.Applications.Applicant").
		First(&recruiting, recruitingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RecruitingSchedule{}, ErrRecruitingNotFound
		}
		return RecruitingSchedule{}, err
	}

	schedule := RecruitingSchedule{
		RecruitingID:         recruiting.ID,
		JobTitle:             recruiting.JobTitle,
		ReservationStartTime: recruiting.ReservationStartTime,
		ReservationEndTime:   recruiting.ReservationEndTime,
		MeetingTimes:         make([]SlotView, 0, len(recruiting.MeetingTimes)),
	}

	for _, slot := range recruiting.MeetingTimes {
		occupants := make([]SlotOccupant, 0, len(slot.Applications))
		for _, app := range slot.Applications {
			occupants = append(occupants, SlotOccupant{
				ApplicantID:   app.ApplicantID,
				Name:          app.Applicant.Name,
				StudentNumber: app.Applicant.StudentNumber,
			})
		}
		schedule.MeetingTimes = append(schedule.MeetingTimes, SlotView{
			ID:               slot.ID,
			AllowedNum:       slot.AllowedNum,
			ReservedNum:      len(slot.Applications),
			Applicants:       occupants,
			MeetingStartTime: slot.MeetingStartTime,
			MeetingEndTime:   slot.MeetingEndTime,
		})
	}

	return schedule, nil
}

// AssignApplicationToSlot places an application into an existing bulk slot of
// its own recruiting. Capacity is enforced: a full slot yields
// ErrMeetingTimeFull. The occupancy check and the assignment run in one
// transaction so concurrent assignments cannot overfill a slot.
func (d *DBinstanceStruct) AssignApplicationToSlot(applicationID, meetingTimeID uint, clubID uuid.UUID) (model.Application, error) {
	app, err := d.fetchOwnedApplication(applicationID, clubID)
	if err != nil {
		return model.Application{}, err
	}

	err = d.Transaction(func(tx *gorm.DB) error {
		var slot model.MeetingTime
		if err := tx.First(&slot, meetingTimeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecruitingNotFound
			}
			return err
		}
		if slot.RecruitingID != app.RecruitingID {
			return fmt.Errorf("%w: slot belongs to another recruiting", ErrInvalidSlot)
		}

		var occupied int64
		if err := tx.Model(&model.Application{}).
			Where("meeting_time_id = ? AND id <> ?", slot.ID, app.ID).
			Count(&occupied).Error; err != nil {
			return err
		}
		if occupied >= int64(slot.AllowedNum) {
			return ErrMeetingTimeFull
		}

		return tx.Model(&model.Application{}).
			Where("id = ?", app.ID).
			Update("meeting_time_id", slot.ID).Error
	})
	if err != nil {
		return model.Application{}, err
	}

	return d.FetchApplication(applicationID)
}

// assignMeetingWindow gives an application an ad-hoc interview window. If the
// application is the sole occupant of its current slot the window is moved in
// place. If the slot is shared, mutating it would drag the other occupants
// along, so the application is detached into a fresh single-occupant slot
// instead; the same fresh slot is created when no slot is assigned yet.
func assignMeetingWindow(tx *gorm.DB, app *model.Application, start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("%w: window ends before it starts", ErrInvalidSlot)
	}

	if app.MeetingTimeID != nil {
		var others int64
		if err := tx.Model(&model.Application{}).
			Where("meeting_time_id = ? AND id <> ?", *app.MeetingTimeID, app.ID).
			Count(&others).Error; err != nil {
			return err
		}
		if others == 0 {
			return tx.Model(&model.MeetingTime{}).
				Where("id = ?", *app.MeetingTimeID).
				Updates(map[string]interface{}{
					"meeting_start_time": start,
					"meeting_end_time":   end,
				}).Error
		}
	}

	slot := model.MeetingTime{
		RecruitingID:     app.RecruitingID,
		AllowedNum:       1,
		MeetingStartTime: start,
		MeetingEndTime:   end,
	}
	if err := tx.Create(&slot).Error; err != nil {
		return err
	}

	return tx.Model(&model.Application{}).
		Where("id = ?", app.ID).
		Update("meeting_time_id", slot.ID).Error
}
