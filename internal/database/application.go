package database

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/gorapang/Innerjoin-Server/internal/model"
)

// AnswerSpec is one answer in an application submission
type AnswerSpec struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Answer     string `json:"answer"`
}

// ApplicationRequest is the payload for submitting an application
type ApplicationRequest struct {
	RecruitingID uint         `json:"recruiting_id" binding:"required"`
	Answers      []AnswerSpec `json:"answers"`
}

// TimeWindow is an ad-hoc interview window override
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// CreateApplication records a new application with its responses in one
// transaction. A second application for the same (applicant, recruiting)
// pair fails with ErrAlreadyApplied; the composite unique index closes the
// race the scan alone would leave open.
func (d *DBinstanceStruct) CreateApplication(applicantID uuid.UUID, req ApplicationRequest) (model.Application, error) {
	var recruiting model.Recruiting
	if err := d.First(&recruiting, req.RecruitingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Application{}, ErrRecruitingNotFound
		}
		return model.Application{}, err
	}

	var existing model.Application
	err := d.Where("applicant_id = ? AND recruiting_id = ?", applicantID, req.RecruitingID).
		First(&existing).Error
	if err == nil {
		return model.Application{}, ErrAlreadyApplied
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Application{}, err
	}

	app := model.Application{
		ApplicantID:   applicantID,
		RecruitingID:  req.RecruitingID,
		FormResult:    model.ResultPending,
		MeetingResult: model.ResultPending,
	}

	err = d.Transaction(func(tx *gorm.DB) error {
		for _, answer := range req.Answers {
			var question model.Question
			if err := tx.First(&question, answer.QuestionID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrQuestionNotFound
				}
				return err
			}
			app.Responses = append(app.Responses, model.Response{
				QuestionID: question.ID,
				Content:    answer.Answer,
			})
		}
		return tx.Create(&app).Error
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.Application{}, ErrAlreadyApplied
		}
		return model.Application{}, err
	}

	return app, nil
}

// FetchApplication loads an application with its responses, slot and
// applicant identity.
func (d *DBinstanceStruct) FetchApplication(applicationID uint) (model.Application, error) {
	var app model.Application
	err := d.
		Preload("Responses.Question").
		Preload("MeetingTime").
		Preload("Applicant.User").
		First(&app, applicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Application{}, ErrApplicationNotFound
		}
		return model.Application{}, err
	}
	return app, nil
}

// fetchOwnedApplication loads an application and verifies the requesting club
// owns the post the application's recruiting belongs to.
func (d *DBinstanceStruct) fetchOwnedApplication(applicationID uint, clubID uuid.UUID) (model.Application, error) {
	var app model.Application
	err := d.Preload("Recruiting.Post").First(&app, applicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Application{}, ErrApplicationNotFound
		}
		return model.Application{}, err
	}
	if app.Recruiting.Post.ClubID != clubID {
		return model.Application{}, ErrUnauthorized
	}
	return app, nil
}

// ApplyFormScores overwrites the score of every response whose question id
// appears in scores and recomputes the form score as the sum over matched
// responses. Question ids with no matching response are ignored. Calling it
// twice with the same map yields the same form score.
func (d *DBinstanceStruct) ApplyFormScores(applicationID uint, clubID uuid.UUID, scores map[uint]int) (model.Application, error) {
	if _, err := d.fetchOwnedApplication(applicationID, clubID); err != nil {
		return model.Application{}, err
	}

	err := d.Transaction(func(tx *gorm.DB) error {
		var responses []model.Response
		if err := tx.Where("application_id = ?", applicationID).Find(&responses).Error; err != nil {
			return err
		}

		total := 0
		for _, response := range responses {
			score, ok := scores[response.QuestionID]
			if !ok {
				continue
			}
			if err := tx.Model(&model.Response{}).
				Where("id = ?", response.ID).
				Update("score", score).Error; err != nil {
				return err
			}
			total += score
		}

		return tx.Model(&model.Application{}).
			Where("id = ?", applicationID).
			Update("form_score", total).Error
	})
	if err != nil {
		return model.Application{}, err
	}

	return d.FetchApplication(applicationID)
}

// SetMeetingScore records the interview score directly, no aggregation.
func (d *DBinstanceStruct) SetMeetingScore(applicationID uint, clubID uuid.UUID, score int) (model.Application, error) {
	if _, err := d.fetchOwnedApplication(applicationID, clubID); err != nil {
		return model.Application{}, err
	}

	if err := d.Model(&model.Application{}).
		Where("id = ?", applicationID).
		Update("meeting_score", score).Error; err != nil {
		return model.Application{}, err
	}

	return d.FetchApplication(applicationID)
}

// UpdateOutcome records both round results and, when a window override is
// supplied, reschedules the applicant's interview through the move-or-create
// path. PENDING is not a legal target; terminal overwrites are.
func (d *DBinstanceStruct) UpdateOutcome(
	applicationID uint,
	clubID uuid.UUID,
	formResult, meetingResult model.ResultType,
	window *TimeWindow,
) (model.Application, error) {
	app, err := d.fetchOwnedApplication(applicationID, clubID)
	if err != nil {
		return model.Application{}, err
	}

	if !app.FormResult.CanTransition(formResult) {
		return model.Application{}, fmt.Errorf("%w: form result %s -> %s", ErrInvalidResult, app.FormResult, formResult)
	}
	if !app.MeetingResult.CanTransition(meetingResult) {
		return model.Application{}, fmt.Errorf("%w: meeting result %s -> %s", ErrInvalidResult, app.MeetingResult, meetingResult)
	}

	err = d.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Application{}).
			Where("id = ?", applicationID).
			Updates(map[string]interface{}{
				"form_result":    formResult,
				"meeting_result": meetingResult,
			}).Error; err != nil {
			return err
		}

		if window != nil {
			return assignMeetingWindow(tx, &app, window.Start, window.End)
		}
		return nil
	})
	if err != nil {
		return model.Application{}, err
	}

	return d.FetchApplication(applicationID)
}

// ResolveRecipients returns the email addresses of the applicants behind the
// given application ids, after verifying the requesting club owns the post.
// Applications under other posts and applicants without an email are skipped.
func (d *DBinstanceStruct) ResolveRecipients(postID uint, clubID uuid.UUID, applicationIDs []uint) ([]string, error) {
	var post model.Post
	if err := d.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.ClubID != clubID {
		return nil, ErrUnauthorized
	}

	var apps []model.Application
	err := d.
		Preload("Applicant.User").
		Joins("JOIN recruitings ON recruitings.id = applications.recruiting_id").
		Where("applications.id IN ? AND recruitings.post_id = ?", applicationIDs, postID).
		Find(&apps).Error
	if err != nil {
		return nil, err
	}

	emails := make([]string, 0, len(apps))
	for _, app := range apps {
		if app.Applicant.User.Email != nil && *app.Applicant.User.Email != "" {
			emails = append(emails, *app.Applicant.User.Email)
		}
	}
	return emails, nil
}
