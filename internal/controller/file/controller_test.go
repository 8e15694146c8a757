package file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
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

// memoryStorage keeps uploaded objects in a map instead of a bucket.
type memoryStorage struct {
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (s *memoryStorage) UploadFile(objectName string, fileData io.Reader) error {
	data, err := io.ReadAll(fileData)
	if err != nil {
		return err
	}
	s.objects[objectName] = data
	return nil
}

func (s *memoryStorage) DeleteFile(objectName string) error {
	if _, ok := s.objects[objectName]; !ok {
		return fmt.Errorf("object %s not found", objectName)
	}
	delete(s.objects, objectName)
	return nil
}

func (s *memoryStorage) PublicURL(objectName string) string {
	return "https://storage.example.com/test-bucket/" + objectName
}

func fileEngine(storage StorageClient) *gin.Engine {
	r := gin.New()
	ctrl := NewFileController(testDB, storage)

	r.Use(middleware.RequireAuth(testDB), middleware.CheckRole(model.RoleClub))
	r.POST("/post/:id/image", middleware.SizeLimit(10<<20), ctrl.UploadPostImage)
	r.DELETE("/post/:id/image/:imageID", ctrl.DeletePostImage)
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

func uploadImage(t *testing.T, engine *gin.Engine, tok, endpoint, filename string, payload []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, endpoint, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+tok)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestUploadPostImage(t *testing.T) {
	storage := newMemoryStorage()
	engine := fileEngine(storage)
	tok := token(t, database.TestUserClub1.Username)

	rec := uploadImage(t, engine, tok, "/post/"+itoa(database.TestPost1.ID)+"/image",
		"poster.png", bytes.Repeat([]byte("img"), 1024))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "https://storage.example.com/test-bucket/post-images/")
	assert.Len(t, storage.objects, 1)
}

func TestUploadPostImageBadExtension(t *testing.T) {
	storage := newMemoryStorage()
	engine := fileEngine(storage)
	tok := token(t, database.TestUserClub1.Username)

	rec := uploadImage(t, engine, tok, "/post/"+itoa(database.TestPost1.ID)+"/image",
		"malware.exe", []byte("not an image"))

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Empty(t, storage.objects)
}

func TestUploadPostImageWrongClub(t *testing.T) {
	engine := fileEngine(newMemoryStorage())
	tok := token(t, database.TestUserClub2.Username)

	rec := uploadImage(t, engine, tok, "/post/"+itoa(database.TestPost1.ID)+"/image",
		"poster.jpg", []byte("payload"))

	assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
}

func TestUploadPostImageStorageDisabled(t *testing.T) {
	engine := fileEngine(nil)
	tok := token(t, database.TestUserClub1.Username)

	rec := uploadImage(t, engine, tok, "/post/"+itoa(database.TestPost1.ID)+"/image",
		"poster.jpg", []byte("payload"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cloud storage is disabled")
}

func TestDeletePostImage(t *testing.T) {
	storage := newMemoryStorage()
	engine := fileEngine(storage)
	tok := token(t, database.TestUserClub1.Username)
	endpoint := "/post/" + itoa(database.TestPost1.ID) + "/image"

	rec := uploadImage(t, engine, tok, endpoint, "todelete.jpeg", []byte("payload"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var image model.PostImage
	require.NoError(t, testDB.Where("post_id = ?", database.TestPost1.ID).
		Order("id DESC").First(&image).Error)

	delRec, resp := testutil.MakeJSONRequest(nil, tok, engine,
		endpoint+"/"+itoa(image.ID), http.MethodDelete)
	require.Equal(t, http.StatusOK, delRec.Code, delRec.Body.String())
	assert.Equal(t, "Image deleted", resp["message"])
	assert.NotContains(t, storage.objects, image.ObjectName)

	var count int64
	require.NoError(t, testDB.Model(&model.PostImage{}).Where("id = ?", image.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeletePostImageNotFound(t *testing.T) {
	engine := fileEngine(newMemoryStorage())
	tok := token(t, database.TestUserClub1.Username)

	rec, resp := testutil.MakeJSONRequest(nil, tok, engine,
		"/post/"+itoa(database.TestPost1.ID)+"/image/999999", http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Image not found", resp["error"])
}
