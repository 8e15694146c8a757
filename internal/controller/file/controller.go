// Package file provides HTTP handlers for post image uploads.
package file

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gorapang/Innerjoin-Server/internal/database"
	"github.com/gorapang/Innerjoin-Server/internal/model"
	"github.com/gorapang/Innerjoin-Server/internal/utilities"
)

// FileController handles post image endpoints
type FileController struct {
	DB      *database.DBinstanceStruct
	Storage StorageClient
}

const imageObjectPrefix = "post-images"

// NewFileController creates a new instance of FileController
func NewFileController(db *database.DBinstanceStruct, storage StorageClient) *FileController {
	return &FileController{
		DB:      db,
		Storage: storage,
	}
}

// fetchOwnedPost loads a post and rejects requesters that do not own it.
func (fc *FileController) fetchOwnedPost(c *gin.Context) (model.Post, bool) {
	var post model.Post

	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return post, false
	}

	if err := fc.DB.Where("id = ?", c.Param("id")).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Post not found"})
			return post, false
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve post: %s", err.Error()),
		})
		return post, false
	}

	if post.ClubID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to modify this post",
		})
		return post, false
	}

	return post, true
}

// UploadPostImage attaches an image to a recruitment post owned by the club.
// @Summary Upload image for a recruitment post
// @Description Only file that smaller than 10 MB with .jpg, .jpeg, or .png extension is permitted
// @Tags Post
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the post"
// @Param image formData file true "Upload your image file"
// @Success 201 {object} model.PostImage "Successfully upload image"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the post"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Failure 413 {object} utilities.ErrorResponse "File size is larger than 10 MB"
// @Failure 415 {object} utilities.ErrorResponse "File extension is not allowed"
// @Failure 500 {object} utilities.ErrorResponse "Database or storage error"
// @Router /post/{id}/image [post]
func (fc *FileController) UploadPostImage(c *gin.Context) {
	post, ok := fc.fetchOwnedPost(c)
	if !ok {
		return
	}

	rawFile, err := c.FormFile("image")
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{
			Error: err.Error(),
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve file: %s", err.Error()),
		})
		return
	}

	allowedExtensions := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
	}
	extension := strings.ToLower(filepath.Ext(rawFile.Filename))
	if !allowedExtensions[extension] {
		c.JSON(http.StatusUnsupportedMediaType, utilities.ErrorResponse{
			Error: fmt.Sprintf("Unsupported file extension: %s", extension),
		})
		return
	}

	if fc.Storage == nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: "Cloud storage is disabled",
		})
		return
	}

	f, err := rawFile.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{Error: "Cannot open file"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Failed to close file: %v", err)
		}
	}()

	objectName := fmt.Sprintf("%s/%d/%s%s", imageObjectPrefix, post.ID, uuid.NewString(), extension)
	if err := fc.Storage.UploadFile(objectName, f); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to store image: %s", err.Error()),
		})
		return
	}

	image := model.PostImage{
		PostID:     post.ID,
		ObjectName: objectName,
		ImageURL:   fc.Storage.PublicURL(objectName),
	}
	if err := fc.DB.Create(&image).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to save image record: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, image)
}

// DeletePostImage removes an image from a post owned by the club.
// @Summary Delete an image of a recruitment post
// @Tags Post
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the post"
// @Param imageID path integer true "ID of the image"
// @Success 200 {object} utilities.MessageResponse "Successfully delete image"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not the owner of the post"
// @Failure 404 {object} utilities.ErrorResponse "Post or image not found"
// @Failure 500 {object} utilities.ErrorResponse "Database or storage error"
// @Router /post/{id}/image/{imageID} [delete]
func (fc *FileController) DeletePostImage(c *gin.Context) {
	post, ok := fc.fetchOwnedPost(c)
	if !ok {
		return
	}

	var image model.PostImage
	if err := fc.DB.Where("id = ? AND post_id = ?", c.Param("imageID"), post.ID).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Image not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve image: %s", err.Error()),
		})
		return
	}

	if fc.Storage != nil && image.ObjectName != "" {
		if err := fc.Storage.DeleteFile(image.ObjectName); err != nil {
			log.Printf("failed to delete storage object %s: %v", image.ObjectName, err)
		}
	}

	if err := fc.DB.Delete(&image).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete image record: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Image deleted"})
}
