package post

import (
	"context"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
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

func performRequest(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func postEngine() *gin.Engine {
	r := gin.New()
	ctrl := NewPostController(testDB)

	r.Use(middleware.RequireAuth(testDB))
	r.GET("/post", ctrl.GetPosts)
	r.GET("/post/:id", ctrl.GetPostByID)
	r.POST("/post", middleware.CheckRole(model.RoleClub), ctrl.CreatePost)
	r.PATCH("/post/:id", middleware.CheckRole(model.RoleClub), ctrl.EditPost)
	r.PATCH("/post/:id/status", middleware.CheckRole(model.RoleClub), ctrl.UpdateStatus)
	r.DELETE("/post/:id", middleware.CheckRole(model.RoleClub, model.RoleAdmin), ctrl.DeletePost)
	return r
}

func clubToken(t *testing.T, username string) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, username, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func TestCreatePost(t *testing.T) {
	engine := postEngine()
	token := clubToken(t, database.TestUserClub1.Username)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title": "LikeLion 14th recruitment",
		"body":  "Join the 14th batch.",
		"recruitings": []gin.H{
			{
				"job_title":        "Backend",
				"recruitment_type": model.RecruitmentFormAndMeeting,
				"form_id":          database.TestForm1.ID,
			},
			{
				"job_title":        "Crew",
				"recruitment_type": model.RecruitmentMeetingOnly,
			},
		},
	}, token, engine, "/post", http.MethodPost)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, string(model.StatusOpen), resp["recruitment_status"])
	recruitings := resp["recruitings"].([]interface{})
	assert.Len(t, recruitings, 2)
}

func TestCreatePostFormOwnedByAnotherClub(t *testing.T) {
	engine := postEngine()
	token := clubToken(t, database.TestUserClub2.Username)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"title": "FilmSociety misuse",
		"body":  "Trying to borrow a form.",
		"recruitings": []gin.H{
			{
				"job_title":        "Editor",
				"recruitment_type": model.RecruitmentFormOnly,
				"form_id":          database.TestForm1.ID,
			},
		},
	}, token, engine, "/post", http.MethodPost)

	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
}

func TestCreatePostMissingForm(t *testing.T) {
	engine := postEngine()
	token := clubToken(t, database.TestUserClub1.Username)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title": "Formless recruitment",
		"body":  "Form type without a form.",
		"recruitings": []gin.H{
			{
				"job_title":        "Backend",
				"recruitment_type": model.RecruitmentFormOnly,
			},
		},
	}, token, engine, "/post", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "needs a form")
}

func TestGetPostsFilterByTitle(t *testing.T) {
	engine := postEngine()
	token := clubToken(t, database.TestUserClub1.Username)

	req, _ := http.NewRequest(http.MethodGet, "/post?search=FilmSociety", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := performRequest(engine, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "FilmSociety spring recruitment")
	assert.NotContains(t, rec.Body.String(), "LikeLion 13th recruitment")
}

func TestGetPostsFilterByCategory(t *testing.T) {
	engine := postEngine()
	token := clubToken(t, database.TestUserClub1.Username)

	req, _ := http.NewRequest(http.MethodGet, "/post?category=art", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := performRequest(engine, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "FilmSociety spring recruitment")
	assert.NotContains(t, rec.Body.String(), "LikeLion 13th recruitment")
}

func TestGetPostByIDNotFound(t *testing.T) {
	engine := postEngine()
	token := clubToken(t, database.TestUserClub1.Username)

	rec, resp := testutil.MakeJSONRequest(nil, token, engine, "/post/999999", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Post not found", resp["error"])
}

func TestEditPostWrongClub(t *testing.T) {
	engine := postEngine()
	token := clubToken(t, database.TestUserClub2.Username)

	rec, _ := testutil.MakeJSONRequest(gin.H{
		"title": "Hijacked title",
	}, token, engine, "/post/"+itoa(database.TestPost1.ID), http.MethodPatch)

	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
}

func TestUpdateStatusForwardOnly(t *testing.T) {
	engine := postEngine()
	token := clubToken(t, database.TestUserClub1.Username)

	// Fresh post so shared fixtures keep their state
	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title": "Lifecycle post",
		"body":  "Status test subject.",
		"recruitings": []gin.H{
			{"job_title": "Crew", "recruitment_type": model.RecruitmentMeetingOnly},
		},
	}, token, engine, "/post", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	postPath := "/post/" + itoa(uint(resp["id"].(float64))) + "/status"

	rec, resp = testutil.MakeJSONRequest(gin.H{"status": model.StatusTimeSet}, token, engine, postPath, http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, string(model.StatusTimeSet), resp["recruitment_status"])

	// Backward transition must be rejected
	rec, resp = testutil.MakeJSONRequest(gin.H{"status": model.StatusOpen}, token, engine, postPath, http.MethodPatch)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, resp["error"], "Cannot move status")

	// Forward to terminal state still works
	rec, resp = testutil.MakeJSONRequest(gin.H{"status": model.StatusClosed}, token, engine, postPath, http.MethodPatch)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(model.StatusClosed), resp["recruitment_status"])
}

func TestUpdateStatusUnknownValue(t *testing.T) {
	engine := postEngine()
	token := clubToken(t, database.TestUserClub1.Username)

	rec, resp := testutil.MakeJSONRequest(gin.H{"status": "ARCHIVED"}, token, engine,
		"/post/"+itoa(database.TestPost1.ID)+"/status", http.MethodPatch)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp["error"], "Status must be one of")
}

func TestDeletePostWrongClub(t *testing.T) {
	engine := postEngine()
	token := clubToken(t, database.TestUserClub2.Username)

	rec, _ := testutil.MakeJSONRequest(nil, token, engine, "/post/"+itoa(database.TestPost1.ID), http.MethodDelete)
	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
}

func TestDeletePost(t *testing.T) {
	engine := postEngine()
	token := clubToken(t, database.TestUserClub2.Username)

	rec, resp := testutil.MakeJSONRequest(gin.H{
		"title": "Disposable post",
		"body":  "To be deleted.",
		"recruitings": []gin.H{
			{"job_title": "Crew", "recruitment_type": model.RecruitmentMeetingOnly},
		},
	}, token, engine, "/post", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	postID := itoa(uint(resp["id"].(float64)))

	rec, resp = testutil.MakeJSONRequest(nil, token, engine, "/post/"+postID, http.MethodDelete)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Post deleted", resp["message"])

	rec, _ = testutil.MakeJSONRequest(nil, token, engine, "/post/"+postID, http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
