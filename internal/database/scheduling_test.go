package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorapang/Innerjoin-Server/internal/model"
)

func morningPlan() MeetingTimePlan {
	day := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return MeetingTimePlan{
		ReservationStartTime: day,
		ReservationEndTime:   day.Add(8 * time.Hour),
		MeetingTimes: []SlotSpec{
			{AllowedNum: 2, MeetingStartTime: day, MeetingEndTime: day.Add(30 * time.Minute)},
			{AllowedNum: 1, MeetingStartTime: day.Add(30 * time.Minute), MeetingEndTime: day.Add(time.Hour)},
		},
	}
}

func clearSlots(t *testing.T, recruitingID uint) {
	t.Helper()
	require.NoError(t, testDB.Model(&model.Application{}).
		Where("recruiting_id = ?", recruitingID).
		Update("meeting_time_id", nil).Error)
	require.NoError(t, testDB.Where("recruiting_id = ?", recruitingID).
		Delete(&model.MeetingTime{}).Error)
}

func TestReplaceMeetingTimes_Success(t *testing.T) {
	clearSlots(t, TestRecruiting1.ID)

	plan := morningPlan()
	require.NoError(t, testDB.ReplaceMeetingTimes(TestRecruiting1.ID, TestUserClub1.ID, plan))

	schedule, err := testDB.ListMeetingTimes(TestRecruiting1.ID)
	require.NoError(t, err)
	require.Len(t, schedule.MeetingTimes, 2)
	assert.Equal(t, 2, schedule.MeetingTimes[0].AllowedNum)
	assert.Equal(t, 0, schedule.MeetingTimes[0].ReservedNum)
	assert.True(t, plan.MeetingTimes[0].MeetingStartTime.Equal(schedule.MeetingTimes[0].MeetingStartTime))
	require.NotNil(t, schedule.ReservationStartTime)
	assert.True(t, plan.ReservationStartTime.Equal(*schedule.ReservationStartTime))
}

func TestReplaceMeetingTimes_ReplacesAndDetaches(t *testing.T) {
	clearSlots(t, TestRecruiting1.ID)
	require.NoError(t, testDB.ReplaceMeetingTimes(TestRecruiting1.ID, TestUserClub1.ID, morningPlan()))

	schedule, err := testDB.ListMeetingTimes(TestRecruiting1.ID)
	require.NoError(t, err)
	firstSlotID := schedule.MeetingTimes[0].ID

	// Assign a seeded application to a slot of the old set
	app := seedApplication(t, TestUserApplicant1.ID, TestRecruiting1.ID)
	_, err = testDB.AssignApplicationToSlot(app.ID, firstSlotID, TestUserClub1.ID)
	require.NoError(t, err)

	// Redefine with a single new slot
	day := time.Date(2025, 3, 2, 14, 0, 0, 0, time.UTC)
	plan := MeetingTimePlan{
		ReservationStartTime: day,
		ReservationEndTime:   day.Add(4 * time.Hour),
		MeetingTimes: []SlotSpec{
			{AllowedNum: 3, MeetingStartTime: day, MeetingEndTime: day.Add(time.Hour)},
		},
	}
	require.NoError(t, testDB.ReplaceMeetingTimes(TestRecruiting1.ID, TestUserClub1.ID, plan))

	schedule, err = testDB.ListMeetingTimes(TestRecruiting1.ID)
	require.NoError(t, err)
	require.Len(t, schedule.MeetingTimes, 1)
	assert.Equal(t, 0, schedule.MeetingTimes[0].ReservedNum)

	// The application survived but lost its slot
	reloaded, err := testDB.FetchApplication(app.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.MeetingTimeID)
}

func TestReplaceMeetingTimes_EmptyListClears(t *testing.T) {
	clearSlots(t, TestRecruiting1.ID)
	require.NoError(t, testDB.ReplaceMeetingTimes(TestRecruiting1.ID, TestUserClub1.ID, morningPlan()))

	plan := morningPlan()
	plan.MeetingTimes = nil
	require.NoError(t, testDB.ReplaceMeetingTimes(TestRecruiting1.ID, TestUserClub1.ID, plan))

	schedule, err := testDB.ListMeetingTimes(TestRecruiting1.ID)
	require.NoError(t, err)
	assert.Empty(t, schedule.MeetingTimes)
}

func TestReplaceMeetingTimes_Locked(t *testing.T) {
	err := testDB.ReplaceMeetingTimes(TestRecruitingLocked.ID, TestUserClub1.ID, morningPlan())
	assert.ErrorIs(t, err, ErrSchedulingLocked)

	// Nothing was written
	schedule, err := testDB.ListMeetingTimes(TestRecruitingLocked.ID)
	require.NoError(t, err)
	assert.Empty(t, schedule.MeetingTimes)
}

func TestReplaceMeetingTimes_WrongClub(t *testing.T) {
	err := testDB.ReplaceMeetingTimes(TestRecruiting1.ID, TestUserClub2.ID, morningPlan())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestReplaceMeetingTimes_UnknownRecruiting(t *testing.T) {
	err := testDB.ReplaceMeetingTimes(99999, TestUserClub1.ID, morningPlan())
	assert.ErrorIs(t, err, ErrRecruitingNotFound)
}

func TestReplaceMeetingTimes_InvalidSlots(t *testing.T) {
	plan := morningPlan()
	plan.MeetingTimes[0].AllowedNum = 0
	assert.ErrorIs(t, testDB.ReplaceMeetingTimes(TestRecruiting1.ID, TestUserClub1.ID, plan), ErrInvalidSlot)

	plan = morningPlan()
	plan.MeetingTimes[1].MeetingEndTime = plan.MeetingTimes[1].MeetingStartTime
	assert.ErrorIs(t, testDB.ReplaceMeetingTimes(TestRecruiting1.ID, TestUserClub1.ID, plan), ErrInvalidSlot)
}

func TestAssignApplicationToSlot_CapacityEnforced(t *testing.T) {
	clearSlots(t, TestRecruiting1.ID)
	require.NoError(t, testDB.ReplaceMeetingTimes(TestRecruiting1.ID, TestUserClub1.ID, morningPlan()))

	schedule, err := testDB.ListMeetingTimes(TestRecruiting1.ID)
	require.NoError(t, err)
	capTwoSlot := schedule.MeetingTimes[0].ID

	app1 := seedApplication(t, TestUserApplicant1.ID, TestRecruiting1.ID)
	app2 := seedApplication(t, TestUserApplicant2.ID, TestRecruiting1.ID)
	app3 := seedApplication(t, TestUserApplicant3.ID, TestRecruiting1.ID)

	_, err = testDB.AssignApplicationToSlot(app1.ID, capTwoSlot, TestUserClub1.ID)
	require.NoError(t, err)
	_, err = testDB.AssignApplicationToSlot(app2.ID, capTwoSlot, TestUserClub1.ID)
	require.NoError(t, err)

	_, err = testDB.AssignApplicationToSlot(app3.ID, capTwoSlot, TestUserClub1.ID)
	assert.ErrorIs(t, err, ErrMeetingTimeFull)

	schedule, err = testDB.ListMeetingTimes(TestRecruiting1.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, schedule.MeetingTimes[0].ReservedNum)
	assert.LessOrEqual(t, schedule.MeetingTimes[0].ReservedNum, schedule.MeetingTimes[0].AllowedNum)
}

func TestAssignApplicationToSlot_Reassign(t *testing.T) {
	clearSlots(t, TestRecruiting1.ID)
	require.NoError(t, testDB.ReplaceMeetingTimes(TestRecruiting1.ID, TestUserClub1.ID, morningPlan()))

	schedule, err := testDB.ListMeetingTimes(TestRecruiting1.ID)
	require.NoError(t, err)

	app := seedApplication(t, TestUserApplicant1.ID, TestRecruiting1.ID)
	_, err = testDB.AssignApplicationToSlot(app.ID, schedule.MeetingTimes[0].ID, TestUserClub1.ID)
	require.NoError(t, err)

	// Moving to another slot of the same recruiting is allowed
	updated, err := testDB.AssignApplicationToSlot(app.ID, schedule.MeetingTimes[1].ID, TestUserClub1.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.MeetingTimeID)
	assert.Equal(t, schedule.MeetingTimes[1].ID, *updated.MeetingTimeID)
}

func TestAssignApplicationToSlot_ForeignSlot(t *testing.T) {
	clearSlots(t, TestRecruiting2.ID)
	day := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, testDB.ReplaceMeetingTimes(TestRecruiting2.ID, TestUserClub2.ID, MeetingTimePlan{
		ReservationStartTime: day,
		ReservationEndTime:   day.Add(2 * time.Hour),
		MeetingTimes: []SlotSpec{
			{AllowedNum: 1, MeetingStartTime: day, MeetingEndTime: day.Add(20 * time.Minute)},
		},
	}))
	foreign, err := testDB.ListMeetingTimes(TestRecruiting2.ID)
	require.NoError(t, err)

	app := seedApplication(t, TestUserApplicant1.ID, TestRecruiting1.ID)
	_, err = testDB.AssignApplicationToSlot(app.ID, foreign.MeetingTimes[0].ID, TestUserClub1.ID)
	assert.ErrorIs(t, err, ErrInvalidSlot)
}
