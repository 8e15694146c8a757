package scheduling

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gorapang/Innerjoin-Server/internal/auth"
	"github.com/gorapang/Innerjoin-Server/internal/database"
	"github.com/gorapang/Innerjoin-Server/internal/middleware"
	"github.com/gorapang/Innerjoin-Server/internal/model"
	"github.com/gorapang/Innerjoin-Server/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	teardown, db, err := database.GetTestDB()
	if err != nil {
		log.Fatalf("Failed to set up test database: %v", err)
	}
	testDB = db

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Printf("Failed to tear down test database: %v", err)
		}
	}
	os.Exit(code)
}

func schedulingEngine() *gin.Engine {
	r := gin.New()
	ctrl := NewSchedulingController(testDB)

	r.Use(middleware.RequireAuth(testDB))
	r.GET("/recruiting/:id/meeting-times", ctrl.ListMeetingTimes)
	r.POST("/recruiting/:id/meeting-times", middleware.CheckRole(model.RoleClub), ctrl.DefineMeetingTimes)
	r.PATCH("/application/:id/meeting-time", middleware.CheckRole(model.RoleClub), ctrl.AssignToSlot)
	return r
}

func token(t *testing.T, username string) string {
	t.Helper()
	tok, err := auth.GetAccessToken(t, testDB, username, database.TestSeedPassword)
	require.NoError(t, err)
	return tok
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func planBody(slots ...gin.H) gin.H {
	return gin.H{
		"meeting_times":          slots,
		"reservation_start_time": time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC),
		"reservation_end_time":   time.Date(2025, 2, 27, 18, 0, 0, 0, time.UTC),
	}
}

func slotAt(hour, capacity int) gin.H {
	return gin.H{
		"allowed_num":        capacity,
		"meeting_start_time": time.Date(2025, 3, 2, hour, 0, 0, 0, time.UTC),
		"meeting_end_time":   time.Date(2025, 3, 2, hour, 30, 0, 0, time.UTC),
	}
}

// seedApplication inserts a bare application row for slot assignment tests.
func seedApplication(t *testing.T, applicantID uuid.UUID, recruitingID uint) model.Application {
	t.Helper()
	require.NoError(t, testDB.Where("applicant_id = ? AND recruiting_id = ?", applicantID, recruitingID).
		Delete(&model.Application{}).Error)
	app := model.Application{
		ApplicantID:   applicantID,
		RecruitingID:  recruitingID,
		FormResult:    model.ResultPending,
		MeetingResult: model.ResultPending,
	}
	require.NoError(t, testDB.Create(&app).Error)
	return app
}

func TestDefineMeetingTimes(t *testing.T) {
	engine := schedulingEngine()
	tok := token(t, database.TestUserClub1.Username)

	rec, resp := testutil.MakeJSONRequest(planBody(slotAt(10, 2), slotAt(11, 1)), tok, engine,
		"/recruiting/"+itoa(database.TestRecruiting1.ID)+"/meeting-times", http.MethodPost)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.EqualValues(t, database.TestRecruiting1.ID, resp["recruiting_id"])
	slots := resp["meeting_times"].([]interface{})
	require.Len(t, slots, 2)
	first := slots[0].(map[string]interface{})
	assert.EqualValues(t, 2, first["allowed_num"])
	assert.EqualValues(t, 0, first["reserved_num"])
}

func TestDefineMeetingTimesLockedPost(t *testing.T) {
	engine := schedulingEngine()
	tok := token(t, database.TestUserClub1.Username)

	rec, resp := testutil.MakeJSONRequest(planBody(slotAt(10, 1)), tok, engine,
		"/recruiting/"+itoa(database.TestRecruitingLocked.ID)+"/meeting-times", http.MethodPost)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Interview times are already published for this post", resp["error"])
}

func TestDefineMeetingTimesWrongClub(t *testing.T) {
	engine := schedulingEngine()
	tok := token(t, database.TestUserClub2.Username)

	rec, _ := testutil.MakeJSONRequest(planBody(slotAt(10, 1)), tok, engine,
		"/recruiting/"+itoa(database.TestRecruiting1.ID)+"/meeting-times", http.MethodPost)

	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
}

func TestDefineMeetingTimesUnknownRecruiting(t *testing.T) {
	engine := schedulingEngine()
	tok := token(t, database.TestUserClub1.Username)

	rec, resp := testutil.MakeJSONRequest(planBody(slotAt(10, 1)), tok, engine,
		"/recruiting/999999/meeting-times", http.MethodPost)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Recruiting not found", resp["error"])
}

func TestListMeetingTimesUnknownRecruiting(t *testing.T) {
	engine := schedulingEngine()
	tok := token(t, database.TestUserApplicant1.Username)

	rec, resp := testutil.MakeJSONRequest(nil, tok, engine, "/recruiting/999999/meeting-times", http.MethodGet)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Recruiting not found", resp["error"])
}

func TestAssignToSlotCapacity(t *testing.T) {
	engine := schedulingEngine()
	tok := token(t, database.TestUserClub2.Username)

	// Single-seat slot on club 2's recruiting
	rec, resp := testutil.MakeJSONRequest(planBody(slotAt(14, 1)), tok, engine,
		"/recruiting/"+itoa(database.TestRecruiting2.ID)+"/meeting-times", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	slots := resp["meeting_times"].([]interface{})
	require.Len(t, slots, 1)

	first := seedApplication(t, database.TestUserApplicant1.ID, database.TestRecruiting2.ID)
	second := seedApplication(t, database.TestUserApplicant2.ID, database.TestRecruiting2.ID)

	rec, resp = testutil.MakeJSONRequest(gin.H{"meeting_time_id": slots[0].(map[string]interface{})["id"]}, tok, engine,
		"/application/"+itoa(first.ID)+"/meeting-time", http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotNil(t, resp["meeting_time_id"])

	rec, resp = testutil.MakeJSONRequest(gin.H{"meeting_time_id": slots[0].(map[string]interface{})["id"]}, tok, engine,
		"/application/"+itoa(second.ID)+"/meeting-time", http.MethodPatch)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Meeting time is already full", resp["error"])
}

func TestAssignToSlotWrongClub(t *testing.T) {
	engine := schedulingEngine()
	club1 := token(t, database.TestUserClub1.Username)
	club2 := token(t, database.TestUserClub2.Username)

	rec, resp := testutil.MakeJSONRequest(planBody(slotAt(16, 1)), club2, engine,
		"/recruiting/"+itoa(database.TestRecruiting2.ID)+"/meeting-times", http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	slots := resp["meeting_times"].([]interface{})
	slotID := slots[0].(map[string]interface{})["id"]

	app := seedApplication(t, database.TestUserApplicant3.ID, database.TestRecruiting2.ID)

	rec, _ = testutil.MakeJSONRequest(gin.H{"meeting_time_id": slotID}, club1, engine,
		"/application/"+itoa(app.ID)+"/meeting-time", http.MethodPatch)
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
}
