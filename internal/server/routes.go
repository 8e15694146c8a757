// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	// Init swagger doc
	_ "github.com/gorapang/Innerjoin-Server/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gorapang/Innerjoin-Server/internal/auth"
	"github.com/gorapang/Innerjoin-Server/internal/controller/application"
	"github.com/gorapang/Innerjoin-Server/internal/controller/file"
	"github.com/gorapang/Innerjoin-Server/internal/controller/form"
	"github.com/gorapang/Innerjoin-Server/internal/controller/post"
	"github.com/gorapang/Innerjoin-Server/internal/controller/profile"
	"github.com/gorapang/Innerjoin-Server/internal/controller/scheduling"
	"github.com/gorapang/Innerjoin-Server/internal/controller/verification"
	"github.com/gorapang/Innerjoin-Server/internal/mailer"
	"github.com/gorapang/Innerjoin-Server/internal/middleware"
	"github.com/gorapang/Innerjoin-Server/internal/model"
	"github.com/gorapang/Innerjoin-Server/internal/univcert"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOrginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrgins := strings.Split(allowOrginsStr, ",")

	googleOauth := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_AUTH_CLIENT"),
		ClientSecret: os.Getenv("GOOGLE_AUTH_SECRET"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint:    google.Endpoint,
		RedirectURL: os.Getenv("OAUTH_REDIRECT_URL"),
	}

	gAuth := auth.NewOauthLoginHandler(s.DB, googleOauth, "https://www.googleapis.com/oauth2/v2/userinfo")
	lAuth := auth.NewLocalAuthHandler(s.DB)

	var storage file.StorageClient
	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		gcs, err := file.NewCloudStorageClient(bucket)
		if err != nil {
			log.Fatalf("Cloud storage failed to initialize: %s", err)
		}
		storage = gcs
	} else {
		log.Println("GCS_BUCKET not set, image upload is disabled")
	}

	postCtrl := post.NewPostController(s.DB)
	fileCtrl := file.NewFileController(s.DB, storage)
	schedCtrl := scheduling.NewSchedulingController(s.DB)
	appCtrl := application.NewApplicationController(s.DB, mailer.FromEnv())
	formCtrl := form.NewFormController(s.DB)
	profileCtrl := profile.NewProfileController(s.DB)
	verifyCtrl := verification.NewVerificationController(s.DB, univcert.NewClientFromEnv())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrgins, // Add your frontend URL
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true, // Enable cookies/auth
	}))
	r.Use(middleware.SafeHeader(), middleware.EnvRateLimitMiddleware())

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)
	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.POST("google/applicant", gAuth.ApplicantGoogleLoginHandler)
			authRoute.GET("google/callback", gAuth.Callback)

			authRoute.POST("login", lAuth.LocalLoginHandler)
			authRoute.POST("register", lAuth.LocalRegisterHandler)
		}

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB))

			postRoute := needAuth.Group("/post")
			{
				postRoute.GET("", postCtrl.GetPosts)
				postRoute.GET(":id", postCtrl.GetPostByID)

				needClub := postRoute.Group("")
				{
					needClub.Use(middleware.CheckRole(model.RoleClub))
					needClub.POST("", postCtrl.CreatePost)
					needClub.PATCH(":id", postCtrl.EditPost)
					needClub.PATCH(":id/status", postCtrl.UpdateStatus)
					needClub.POST(":id/image", middleware.SizeLimit(10<<20), fileCtrl.UploadPostImage)
					needClub.DELETE(":id/image/:imageID", fileCtrl.DeletePostImage)
					needClub.POST(":id/notify", appCtrl.NotifyApplicants)
				}
				postRoute.DELETE(":id", middleware.CheckRole(model.RoleClub, model.RoleAdmin), postCtrl.DeletePost)
			}

			recruitingRoute := needAuth.Group("/recruiting")
			{
				recruitingRoute.GET(":id/meeting-times", schedCtrl.ListMeetingTimes)
				recruitingRoute.POST(":id/meeting-times", middleware.CheckRole(model.RoleClub), schedCtrl.DefineMeetingTimes)
			}

			applicationRoute := needAuth.Group("/application")
			{
				applicationRoute.POST("", middleware.CheckRole(model.RoleApplicant), appCtrl.SubmitApplication)
				applicationRoute.GET("me", middleware.CheckRole(model.RoleApplicant), appCtrl.ListMyApplications)
				applicationRoute.GET(":id", appCtrl.GetApplication)

				needClub := applicationRoute.Group("")
				{
					needClub.Use(middleware.CheckRole(model.RoleClub))
					needClub.PATCH(":id/form-score", appCtrl.UpdateFormScore)
					needClub.PATCH(":id/meeting-score", appCtrl.UpdateMeetingScore)
					needClub.PUT(":id/outcome", appCtrl.UpdateOutcome)
					needClub.PATCH(":id/meeting-time", schedCtrl.AssignToSlot)
				}
			}

			formRoute := needAuth.Group("/form")
			{
				formRoute.Use(middleware.CheckRole(model.RoleClub, model.RoleAdmin))
				formRoute.POST("", formCtrl.CreateForm)
				formRoute.GET("me", formCtrl.GetMyForms)
				formRoute.GET(":id", formCtrl.GetFormByID)
				formRoute.DELETE(":id", formCtrl.DeleteForm)
			}

			profileRoute := needAuth.Group("/profile")
			{
				profileRoute.GET("me", profileCtrl.GetMyProfile)
				profileRoute.GET("club/:id", profileCtrl.GetClubProfile)
				profileRoute.PATCH("club", middleware.CheckRole(model.RoleClub), profileCtrl.UpdateClubProfile)
				profileRoute.PATCH("applicant", middleware.CheckRole(model.RoleApplicant), profileCtrl.UpdateApplicantProfile)
			}

			verificationRoute := needAuth.Group("/verification")
			{
				verificationRoute.Use(middleware.CheckRole(model.RoleApplicant))
				verificationRoute.POST("request", verifyCtrl.RequestCode)
				verificationRoute.POST("confirm", verifyCtrl.ConfirmCode)
			}
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *Server) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
