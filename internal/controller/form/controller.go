// Package form provides HTTP handlers for application form management.
package form

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gorapang/Innerjoin-Server/internal/database"
	"github.com/gorapang/Innerjoin-Server/internal/model"
	"github.com/gorapang/Innerjoin-Server/internal/utilities"
)

// FormController handles form endpoints
type FormController struct {
	DB *database.DBinstanceStruct
}

// NewFormController creates a new instance of FormController
func NewFormController(db *database.DBinstanceStruct) *FormController {
	return &FormController{
		DB: db,
	}
}

type createFormRequest struct {
	Title     string   `json:"title" binding:"required"`
	Questions []string `json:"questions" binding:"required,min=1,dive,required"`
}

// CreateForm stores a new question set for the logged-in club.
// @Summary Create a form
// @Description Questions are stored in the given order. The form can then be attached to recruitings of the same club.
// @Tags Form
// @Accept json
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param Form body createFormRequest true "Title and question prompts"
// @Success 201 {object} model.Form "Created form with question ids"
// @Failure 400 {object} utilities.ErrorResponse "Invalid request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /form [post]
func (fc *FormController) CreateForm(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var req createFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	form := model.Form{
		ClubID: user.ID,
		Title:  req.Title,
	}
	for _, content := range req.Questions {
		form.Questions = append(form.Questions, model.Question{Content: content})
	}

	if err := fc.DB.Create(&form).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create form: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusCreated, form)
}

// GetMyForms returns every form of the logged-in club.
// @Summary List own forms
// @Tags Form
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Success 200 {array} model.Form "Forms with their questions"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /form/me [get]
func (fc *FormController) GetMyForms(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	var forms []model.Form
	if err := fc.DB.
		Preload("Questions").
		Where("club_id = ?", user.ID).
		Order("id").
		Find(&forms).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to fetch forms: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, forms)
}

// GetFormByID returns one form with its questions.
// @Summary Get form by ID
// @Tags Form
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the form"
// @Success 200 {object} model.Form "The form with its questions"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id parameter"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Form not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /form/{id} [get]
func (fc *FormController) GetFormByID(c *gin.Context) {
	formID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid id parameter"})
		return
	}

	var form model.Form
	if err := fc.DB.Preload("Questions").First(&form, uint(formID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Form not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve form: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, form)
}

// DeleteForm removes a form the club owns, unless a recruiting still uses it.
// @Summary Delete a form
// @Description Fails while any recruiting references the form. Detach or delete those recruitings first.
// @Tags Form
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the form"
// @Success 200 {object} utilities.MessageResponse "Successfully deleted"
// @Failure 400 {object} utilities.ErrorResponse "Invalid id parameter"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Form owned by another club"
// @Failure 404 {object} utilities.ErrorResponse "Form not found"
// @Failure 409 {object} utilities.ErrorResponse "Form still referenced by a recruiting"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /form/{id} [delete]
func (fc *FormController) DeleteForm(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	formID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid id parameter"})
		return
	}

	var form model.Form
	if err := fc.DB.First(&form, uint(formID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Form not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve form: %s", err.Error()),
		})
		return
	}

	if form.ClubID != user.ID && user.Role != model.RoleAdmin {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "You are not allowed to delete this form",
		})
		return
	}

	var inUse int64
	if err := fc.DB.Model(&model.Recruiting{}).Where("form_id = ?", form.ID).Count(&inUse).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to check form usage: %s", err.Error()),
		})
		return
	}
	if inUse > 0 {
		c.JSON(http.StatusConflict, utilities.ErrorResponse{
			Error: fmt.Sprintf("Form is still used by %d recruiting(s)", inUse),
		})
		return
	}

	if err := fc.DB.Select("Questions").Delete(&form).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete form: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Form deleted"})
}
