package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ypropel/backend/internal/app/controllers"
	"github.com/ypropel/backend/internal/app/repositories"
	"github.com/ypropel/backend/internal/middleware"
	"github.com/ypropel/backend/internal/pkg/ratelimit"
)

// Handlers groups everything the route table dispatches to
type Handlers struct {
	Auth        *controllers.AuthController
	User        *controllers.UserController
	Post        *controllers.PostController
	Discussion  *controllers.DiscussionController
	StudyCircle *controllers.StudyCircleController
	Message     *controllers.MessageController
	Freelance   *controllers.FreelanceController
	Resume      *controllers.ResumeController
	Job         *controllers.JobController
	Article     *controllers.ArticleController
	Content     *controllers.ContentController
	Video       *controllers.VideoController
	Lookup      *controllers.LookupController
	Admin       *controllers.AdminController

	// CircleSocket upgrades /study-circles/:id/ws. Optional.
	CircleSocket gin.HandlerFunc
}

// lookupPaths maps each reference table to its public path
var lookupPaths = map[string]string{
	repositories.LookupMajors:           "/majors",
	repositories.LookupExperienceLevels: "/experience-levels",
	repositories.LookupUSStates:         "/us-states",
	repositories.LookupCities:           "/cities",
	repositories.LookupCountries:        "/countries",
	repositories.LookupProgramTypes:     "/program-types",
	repositories.LookupServiceTypes:     "/service-types",
	repositories.LookupJobCategories:    "/job-categories",
}

// adminLookupKinds are the reference tables admins may extend
var adminLookupKinds = []string{
	repositories.LookupMajors,
	repositories.LookupExperienceLevels,
	repositories.LookupCountries,
	repositories.LookupProgramTypes,
	repositories.LookupServiceTypes,
	repositories.LookupJobCategories,
}

// contentPaths maps each curated content kind to its path segment
var contentPaths = map[string]string{
	repositories.KindNews:           "/news",
	repositories.KindMiniCourses:    "/mini-courses",
	repositories.KindSummerPrograms: "/summer-programs",
	repositories.KindJobFairs:       "/job-fairs",
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	h Handlers,
	authMiddleware *middleware.AuthMiddleware,
	limiter *ratelimit.Limiter,
) {
	rateLimited := func(scope string) gin.HandlerFunc {
		if limiter == nil {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimit(limiter, scope)
	}

	// --- Public Auth routes ---
	auth := router.Group("/auth")
	{
		auth.POST("/signup", h.Auth.Signup)
		auth.POST("/signin", rateLimited("signin"), h.Auth.Signin)
		auth.POST("/google", h.Auth.GoogleSignin)
		auth.POST("/forgot-password", rateLimited("forgot-password"), h.Auth.ForgotPassword)
		auth.POST("/reset-password", rateLimited("reset-password"), h.Auth.ResetPassword)
		auth.GET("/unsubscribe", h.Auth.Unsubscribe)
	}

	// --- Public reference data and listings ---
	for kind, path := range lookupPaths {
		router.GET(path, h.Lookup.List(kind))
	}
	for kind, path := range contentPaths {
		router.GET(path, h.Content.List(kind))
		router.GET(path+"/:id", h.Content.Get(kind))
	}

	router.GET("/jobs", h.Job.List)
	router.GET("/jobs/:id", h.Job.Get)

	optional := router.Group("")
	optional.Use(authMiddleware.OptionalAuth())
	{
		optional.GET("/articles", h.Article.List)
		optional.GET("/articles/:id", h.Article.Get)
		optional.GET("/freelance-services", h.Freelance.List)
		optional.GET("/freelance-services/:id", h.Freelance.Get)
		optional.GET("/api/videos", h.Video.List)
	}

	// --- Authenticated Routes Group ---
	authenticated := router.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		users := authenticated.Group("/users")
		{
			users.GET("", h.User.Directory)
			users.GET("/me", h.User.GetMe)
			users.PUT("/me", h.User.UpdateMe)
			users.POST("/me/photo", h.User.UpdatePhoto)
			users.PUT("/me/password", h.User.ChangePassword)
			users.GET("/:id", h.User.GetProfile)
		}

		posts := authenticated.Group("/posts")
		{
			posts.GET("", h.Post.List)
			posts.POST("", h.Post.Create)
			posts.GET("/:id", h.Post.Get)
			posts.PUT("/:id", h.Post.Update)
			posts.DELETE("/:id", h.Post.Delete)
			posts.POST("/:id/like", h.Post.Like)
			posts.POST("/:id/follow", h.Post.Follow)
			posts.POST("/:id/share", h.Post.Share)
			posts.GET("/:id/comments", h.Post.ListComments)
			posts.POST("/:id/comments", h.Post.AddComment)
		}

		comments := authenticated.Group("/comments")
		{
			comments.PUT("/:id", h.Post.UpdateComment)
			comments.DELETE("/:id", h.Post.DeleteComment)
		}

		topics := authenticated.Group("/discussion_topics")
		{
			topics.GET("", h.Discussion.List)
			topics.POST("", h.Discussion.Create)
			topics.GET("/:id", h.Discussion.Get)
			topics.PUT("/:id", h.Discussion.Update)
			topics.DELETE("/:id", h.Discussion.Delete)
			topics.POST("/:id/like", h.Discussion.Like)
			topics.POST("/:id/follow", h.Discussion.Follow)
			topics.POST("/:id/upvote", h.Discussion.Upvote)
			topics.GET("/:id/comments", h.Discussion.ListComments)
			topics.POST("/:id/comments", h.Discussion.AddComment)
		}

		circles := authenticated.Group("/study-circles")
		{
			circles.GET("", h.StudyCircle.List)
			circles.POST("", h.StudyCircle.Create)
			circles.GET("/:id", h.StudyCircle.Get)
			circles.PUT("/:id", h.StudyCircle.Update)
			circles.DELETE("/:id", h.StudyCircle.Delete)
			circles.POST("/:id/join", h.StudyCircle.Join)
			circles.GET("/:id/messages", h.StudyCircle.ListMessages)
			circles.POST("/:id/messages", h.StudyCircle.PostMessage)
			if h.CircleSocket != nil {
				circles.GET("/:id/ws", h.CircleSocket)
			}
		}

		messages := authenticated.Group("/messages")
		{
			messages.POST("", h.Message.Send)
			messages.GET("/conversations", h.Message.Conversations)
			messages.GET("/unread-count", h.Message.UnreadCount)
			messages.GET("/with/:userId", h.Message.Thread)
			messages.PUT("/:id/read", h.Message.MarkRead)
		}

		freelance := authenticated.Group("/freelance-services")
		{
			freelance.GET("/mine", h.Freelance.Mine)
			freelance.POST("", h.Freelance.Create)
			freelance.PUT("/:id", h.Freelance.Update)
			freelance.DELETE("/:id", h.Freelance.Delete)
		}

		resumes := authenticated.Group("/members/resumes")
		{
			resumes.GET("", h.Resume.List)
			resumes.POST("", h.Resume.Upload)
			resumes.DELETE("/:id", h.Resume.Delete)
		}

		authenticated.POST("/articles/:id/like", h.Article.Like)

		videos := authenticated.Group("/api/videos")
		{
			videos.POST("", h.Video.Upload)
			videos.DELETE("/:id", h.Video.Delete)
			videos.POST("/:id/like", h.Video.Like)
			videos.POST("/:id/share", h.Video.Share)
		}

		// Admin routes
		admin := authenticated.Group("/admin")
		admin.Use(authMiddleware.AdminRequired())
		{
			admin.GET("/users", h.Admin.ListUsers)
			admin.GET("/users/export", h.Admin.ExportUsers)
			admin.PUT("/users/:id/admin", h.Admin.SetAdmin)
			admin.DELETE("/users/:id", h.Admin.DeleteUser)
			admin.GET("/stats", h.Admin.Stats)

			admin.GET("/jobs", h.Job.AdminList)
			admin.POST("/jobs", h.Job.Create)
			admin.PUT("/jobs/:id", h.Job.Update)
			admin.PATCH("/jobs/:id/active", h.Job.SetActive)
			admin.DELETE("/jobs/:id", h.Job.Delete)

			admin.POST("/articles", h.Article.Create)
			admin.PUT("/articles/:id", h.Article.Update)
			admin.DELETE("/articles/:id", h.Article.Delete)

			for kind, path := range contentPaths {
				admin.POST(path, h.Content.Create(kind))
				admin.PUT(path+"/:id", h.Content.Update(kind))
				admin.DELETE(path+"/:id", h.Content.Delete(kind))
			}

			for _, kind := range adminLookupKinds {
				admin.POST(lookupPaths[kind], h.Lookup.Create(kind))
			}
		}
	}

	// Health check endpoint (public)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
