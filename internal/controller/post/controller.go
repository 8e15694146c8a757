// Package post provides HTTP handlers for recruitment post operations.
package post

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gorapang/Innerjoin-Server/internal/database"
	"github.com/gorapang/Innerjoin-Server/internal/model"
	"github.com/gorapang/Innerjoin-Server/internal/utilities"
)

// PostController handles recruitment post endpoints
type PostController struct {
	DB *database.DBinstanceStruct
}

// NewPostController creates a new instance of PostController
func NewPostController(db *database.DBinstanceStruct) *PostController {
	return &PostController{
		DB: db,
	}
}

type recruitingSpec struct {
	JobTitle        string `json:"job_title" binding:"required"`
	RecruitmentType string `json:"recruitment_type" binding:"required,oneof=FORM_ONLY MEETING_ONLY FORM_AND_MEETING"`
	FormID          *uint  `json:"form_id"`
}

type createPostRequest struct {
	model.EditablePostInfo
	Recruitings []recruitingSpec `json:"recruitings" binding:"required,min=1,dive"`
}

type statusRequest struct {
	Status model.RecruitmentStatus `json:"status" binding:"required"`
}

// CreatePost handles the creation of a new recruitment post by a club.
// @Summary Create recruitment post with its job tracks
// @Description Only club accounts have access to this endpoint. Each recruiting that uses a form must reference a form owned by the club.
// @Tags Post
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Post body createPostRequest true "Post information with at least one recruiting"
// @Success 201 {object} model.Post "Successfully create post"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, or invalid post struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Not logged in as club, or form owned by another club"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /post [post]
func (pc *PostController) CreatePost(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	post := model.Post{
		ClubID:           user.ID,
		EditablePostInfo: req.EditablePostInfo,
		Status:           model.StatusOpen,
	}

	for _, spec := range req.Recruitings {
		if spec.FormID != nil {
			var form model.Form
			if err := pc.DB.First(&form, *spec.FormID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
						Error: fmt.Sprintf("Form %d not found", *spec.FormID),
					})
					return
				}
				c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
					Error: fmt.Sprintf("Failed to retrieve form: %s", err.Error()),
				})
				return
			}
			if form.ClubID != user.ID {
				c.JSON(http.StatusForbidden, utilities.ErrorResponse{
					Error: "You are not allowed to use this form",
				})
				return
			}
		} else if spec.RecruitmentType != model.RecruitmentMeetingOnly {
			c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
				Error: fmt.Sprintf("Recruiting '%s' needs a form for type %s", spec.JobTitle, spec.RecruitmentType),
			})
			return
		}

		post.Recruitings = append(post.Recruitings, model.Recruiting{
			FormID:          spec.FormID,
			JobTitle:        spec.JobTitle,
			RecruitmentType: spec.RecruitmentType,
		})
	}

	if err := pc.DB.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to create post: ", err),
		})
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetPosts fetches recruitment posts that match query from the database
// and returns them as a JSON response.
// @Summary Get recruitment posts based on query
// @Description Every query are not required, but they have specific use defined in their description
// @Tags Post
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param search query string false "Search from post title with substring matching and case insensitive"
// @Param club query string false "Search from club name with substring matching and case insensitive"
// @Param category query string false "Search if club categories contain category param, case insensitive"
// @Param status query string false "Recruitment status, must exactly match to get result"
// @Param desc query boolean false "Sorting by creation time in descending if true, otherwise ascending"
// @Success 200 {array} model.Post "Return matching post(s)"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /post [get]
func (pc *PostController) GetPosts(c *gin.Context) {
	rawSearch := c.Query("search")
	rawClub := c.Query("club")
	rawCategory := c.Query("category")
	rawStatus := c.Query("status")
	rawDesc := c.Query("desc")

	var posts []model.Post

	result := pc.DB.
		Preload("Images").
		Preload("Recruitings").
		Model(&model.Post{})

	if rawSearch != "" {
		result = result.Where("title ILIKE ?", "%"+rawSearch+"%")
	}

	if rawStatus != "" {
		result = result.Where("status = ?", rawStatus)
	}

	if rawClub != "" || rawCategory != "" {
		result = result.Joins("JOIN clubs ON clubs.user_id = posts.club_id")
	}

	if rawClub != "" {
		result = result.Where("clubs.name ILIKE ?", "%"+rawClub+"%")
	}

	if rawCategory != "" {
		result = result.Where("? ILIKE ANY(clubs.categories)", rawCategory)
	}

	result = result.Order(clause.OrderByColumn{
		Column: clause.Column{Name: "created_at"},
		Desc:   strings.ToLower(rawDesc) == "true",
	}).Find(&posts)

	if err := result.Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch posts: ", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetPostByID fetches a recruitment post by its ID from the database
// and returns it as a JSON response.
// @Summary Get recruitment post by ID
// @Description Retrieve a specific post with its recruitings and images
// @Tags Post
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired post"
// @Success 200 {object} model.Post "Return the post with the specified ID"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /post/{id} [get]
func (pc *PostController) GetPostByID(c *gin.Context) {
	id := c.Param("id")

	post := model.Post{}
	if err := pc.DB.
		Preload("Images").
		Preload("Recruitings").
		Preload("Recruitings.MeetingTimes").
		Where("id = ?", id).
		First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve post: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, post)
}

// EditPost allows a club to update a post they own.
// @Summary Edit recruitment post based on given json structure
// @Description Only the club that owns the post has access to this endpoint
// @Tags Post
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired post"
// @Param Post body model.EditablePostInfo true "Input post information"
// @Success 200 {object} model.Post "Successfully update post"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header, or invalid post struct"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to edit"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /post/{id} [patch]
func (pc *PostController) EditPost(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id := c.Param("id")

	post := model.Post{}
	if err := pc.DB.Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve post: %s", err.Error()),
		})
		return
	}

	if post.ClubID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to edit this post",
		})
		return
	}

	var updated model.EditablePostInfo
	if err := c.ShouldBindJSON(&updated); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse request body: %s", err.Error()),
		})
		return
	}

	if err := pc.DB.Model(&post).Updates(model.Post{EditablePostInfo: updated}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update post: %s", err.Error()),
		})
		return
	}

	if err := pc.DB.Preload("Images").Preload("Recruitings").Where("id = ?", post.ID).First(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve updated post: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, post)
}

// statusRank orders the lifecycle so transitions can only move forward.
func statusRank(s model.RecruitmentStatus) int {
	switch s {
	case model.StatusOpen:
		return 0
	case model.StatusTimeSet:
		return 1
	case model.StatusClosed:
		return 2
	}
	return -1
}

// UpdateStatus advances the recruitment lifecycle of a post. Moving backwards
// is rejected, so once interview times are published (TIME_SET) the slot set
// stays frozen for the rest of the cycle.
// @Summary Update recruitment status of a post
// @Description Status only moves forward: OPEN -> TIME_SET -> CLOSED
// @Tags Post
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired post"
// @Param Status body statusRequest true "New status"
// @Success 200 {object} model.Post "Successfully update status"
// @Failure 400 {object} utilities.ErrorResponse "Unknown status value"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to edit"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Failure 409 {object} utilities.ErrorResponse "Backward status transition"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /post/{id}/status [patch]
func (pc *PostController) UpdateStatus(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil || !model.ValidStatus(req.Status) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Status must be one of OPEN, TIME_SET, CLOSED",
		})
		return
	}

	post := model.Post{}
	if err := pc.DB.Where("id = ?", c.Param("id")).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve post: %s", err.Error()),
		})
		return
	}

	if post.ClubID != user.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to edit this post",
		})
		return
	}

	if statusRank(req.Status) < statusRank(post.Status) {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: fmt.Sprintf("Cannot move status from %s back to %s", post.Status, req.Status),
		})
		return
	}

	if err := pc.DB.Model(&post).Update("status", req.Status).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update status: %s", err.Error()),
		})
		return
	}

	post.Status = req.Status
	c.JSON(http.StatusOK, post)
}

// DeletePost allows a club to delete a post they own.
// @Summary Delete given post ID
// @Description Only the club that owns the post or admin have access to this endpoint
// @Tags Post
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of desired post"
// @Success 200 {object} utilities.MessageResponse "Successfully delete post"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Do not have permission to delete this post"
// @Failure 404 {object} utilities.ErrorResponse "Post not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /post/{id} [delete]
func (pc *PostController) DeletePost(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	id := c.Param("id")

	post := model.Post{}
	if err := pc.DB.Where("id = ?", id).First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve post: %s", err.Error()),
		})
		return
	}

	if post.ClubID != user.ID {
		if user.Role != model.RoleAdmin {
			c.JSON(http.StatusForbidden, utilities.ErrorResponse{
				Error: "You are not allowed to delete this post",
			})
			return
		}
	}

	if err := pc.DB.Select(clause.Associations).Delete(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete post: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Post deleted"})
}
