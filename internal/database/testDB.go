package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "github.com/gorapang/Innerjoin-Server/internal/model"
	"github.com/gorapang/Innerjoin-Server/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test users & domain records
var (
	TestUserClub1      m.User
	TestUserClub2      m.User
	TestUserApplicant1 m.User
	TestUserApplicant2 m.User
	TestUserApplicant3 m.User
	TestClub1          m.Club
	TestClub2          m.Club
	TestApplicant1     m.Applicant
	TestApplicant2     m.Applicant
	TestApplicant3     m.Applicant

	// Add exported plain password
	TestSeedPassword = "SeedPass123!"

	// Seeded recruitment fixtures
	TestForm1            m.Form
	TestQuestion1        m.Question
	TestQuestion2        m.Question
	TestPost1            m.Post
	TestPost2            m.Post
	TestPostLocked       m.Post
	TestRecruiting1      m.Recruiting
	TestRecruiting2      m.Recruiting
	TestRecruitingLocked m.Recruiting
)

// GetTestDB starts a PostgreSQL test container and returns a teardown
// function, the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample club and applicant accounts plus a small
// recruitment fixture set if the database is empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}

	// Ignore admin user that got created during NewDBInstance
	if userCount > 1 {
		return nil
	}

	emails := []*string{
		ptr("chairman1@club.example.com"),
		ptr("chairman2@club.example.com"),
		ptr("minji@student.example.ac.kr"),
		ptr("junho@student.example.ac.kr"),
		ptr("soyeon@student.example.ac.kr"),
	}
	userSpecs := []struct {
		username string
		email    *string
		role     string
	}{
		{"club_user_1", emails[0], m.RoleClub},
		{"club_user_2", emails[1], m.RoleClub},
		{"applicant_1", emails[2], m.RoleApplicant},
		{"applicant_2", emails[3], m.RoleApplicant},
		{"applicant_3", emails[4], m.RoleApplicant},
	}

	// Pre-hash shared password for all seeded users
	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	users := make([]m.User, 0, len(userSpecs))
	for _, s := range userSpecs {
		users = append(users, m.User{
			ID:       uuid.New(),
			Username: s.username,
			Email:    s.email,
			Role:     s.role,
			Password: hashedPwd,
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	for _, u := range users {
		switch u.Username {
		case "club_user_1":
			TestUserClub1 = u
		case "club_user_2":
			TestUserClub2 = u
		case "applicant_1":
			TestUserApplicant1 = u
		case "applicant_2":
			TestUserApplicant2 = u
		case "applicant_3":
			TestUserApplicant3 = u
		}
	}

	clubs := []m.Club{
		{
			UserID: TestUserClub1.ID,
			EditableClubInfo: m.EditableClubInfo{
				Name:        "LikeLion",
				School:      "Example University",
				Description: "Web service development club",
				Categories:  []string{"development", "startup"},
			},
		},
		{
			UserID: TestUserClub2.ID,
			EditableClubInfo: m.EditableClubInfo{
				Name:        "FilmSociety",
				School:      "Example University",
				Description: "Short film production club",
				Categories:  []string{"art", "media"},
			},
		},
	}
	if err := db.Create(&clubs).Error; err != nil {
		return err
	}
	TestClub1 = clubs[0]
	TestClub2 = clubs[1]

	applicants := []m.Applicant{
		{
			UserID: TestUserApplicant1.ID,
			EditableApplicantInfo: m.EditableApplicantInfo{
				Name:          "Kim Minji",
				StudentNumber: "202312345",
				School:        "Example University",
			},
		},
		{
			UserID: TestUserApplicant2.ID,
			EditableApplicantInfo: m.EditableApplicantInfo{
				Name:          "Lee Junho",
				StudentNumber: "202254321",
				School:        "Example University",
			},
		},
		{
			UserID: TestUserApplicant3.ID,
			EditableApplicantInfo: m.EditableApplicantInfo{
				Name:          "Park Soyeon",
				StudentNumber: "202198765",
				School:        "Example University",
			},
		},
	}
	if err := db.Create(&applicants).Error; err != nil {
		return err
	}
	TestApplicant1 = applicants[0]
	TestApplicant2 = applicants[1]
	TestApplicant3 = applicants[2]

	// Form with two questions, owned by club 1
	TestForm1 = m.Form{
		ClubID: TestUserClub1.ID,
		Title:  "Backend track application form",
		Questions: []m.Question{
			{Content: "Why do you want to join?"},
			{Content: "Describe a project you are proud of."},
		},
	}
	if err := db.Create(&TestForm1).Error; err != nil {
		return err
	}
	TestQuestion1 = TestForm1.Questions[0]
	TestQuestion2 = TestForm1.Questions[1]

	// Open post with one recruiting for club 1
	TestPost1 = m.Post{
		ClubID: TestUserClub1.ID,
		EditablePostInfo: m.EditablePostInfo{
			Title: "LikeLion 13th recruitment",
			Body:  "Join the 13th batch.",
		},
		Status: m.StatusOpen,
		Recruitings: []m.Recruiting{
			{
				FormID:          &TestForm1.ID,
				JobTitle:        "Backend",
				RecruitmentType: m.RecruitmentFormAndMeeting,
			},
		},
	}
	if err := db.Create(&TestPost1).Error; err != nil {
		return err
	}
	TestRecruiting1 = TestPost1.Recruitings[0]

	// Open post for club 2
	TestPost2 = m.Post{
		ClubID: TestUserClub2.ID,
		EditablePostInfo: m.EditablePostInfo{
			Title: "FilmSociety spring recruitment",
			Body:  "Actors and crew wanted.",
		},
		Status: m.StatusOpen,
		Recruitings: []m.Recruiting{
			{
				JobTitle:        "Crew",
				RecruitmentType: m.RecruitmentMeetingOnly,
			},
		},
	}
	if err := db.Create(&TestPost2).Error; err != nil {
		return err
	}
	TestRecruiting2 = TestPost2.Recruitings[0]

	// Post already locked with TIME_SET, owned by club 1
	TestPostLocked = m.Post{
		ClubID: TestUserClub1.ID,
		EditablePostInfo: m.EditablePostInfo{
			Title: "LikeLion 12th recruitment",
			Body:  "Interview times already published.",
		},
		Status: m.StatusTimeSet,
		Recruitings: []m.Recruiting{
			{
				JobTitle:        "Design",
				RecruitmentType: m.RecruitmentFormAndMeeting,
			},
		},
	}
	if err := db.Create(&TestPostLocked).Error; err != nil {
		return err
	}
	TestRecruitingLocked = TestPostLocked.Recruitings[0]

	return nil
}

// ptr helper
func ptr[T any](v T) *T { return &v }
