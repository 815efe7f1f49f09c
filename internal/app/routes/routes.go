package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/placementprep/internal/app/controllers"
	"github.com/yigit/placementprep/internal/middleware"
)

// Controllers groups every handler the router mounts. Socket may be nil,
// in which case the notification stream is not registered.
type Controllers struct {
	Auth         *controllers.AuthController
	Company      *controllers.CompanyController
	Submission   *controllers.SubmissionController
	Admin        *controllers.AdminController
	Notification *controllers.NotificationController
	Comment      *controllers.CommentController
	Chat         *controllers.ChatController
	Media        *controllers.MediaController
	Socket       gin.HandlerFunc
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	// Signed links carry their own authorization
	router.GET("/media/*key", c.Media.Serve)

	v1 := router.Group("/api/v1")

	// --- Public routes; a valid token personalises the response ---
	public := v1.Group("")
	public.Use(authMiddleware.OptionalAuth())
	{
		public.GET("/companies", c.Company.ListCompanies)
		public.GET("/companies/:id", c.Company.GetCompany)
		public.GET("/companies/:id/comments", c.Comment.ListComments)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", c.Auth.Me)

		authenticated.POST("/submissions", c.Submission.CreateSubmission)

		authenticated.POST("/companies", c.Company.CreateCompany)
		authenticated.POST("/companies/:id/helpful", c.Company.MarkHelpful)
		authenticated.POST("/companies/:id/rate-difficulty", c.Company.RateDifficulty)
		authenticated.POST("/companies/:id/comments", c.Comment.CreateComment)
		authenticated.DELETE("/comments/:commentId", c.Comment.DeleteComment)

		notifications := authenticated.Group("/notifications")
		{
			notifications.GET("", c.Notification.List)
			notifications.DELETE("", c.Notification.Clear)
			notifications.GET("/unread-count", c.Notification.UnreadCount)
			notifications.PATCH("/seen-all", c.Notification.MarkAllSeen)
			notifications.PATCH("/:id/seen", c.Notification.MarkSeen)
			notifications.DELETE("/:id", c.Notification.Delete)
			if c.Socket != nil {
				notifications.GET("/ws", c.Socket)
			}
		}

		authenticated.POST("/chat", c.Chat.Ask)
	}

	// --- Admin routes ---
	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.RequireAdmin())
	{
		admin.GET("/stats", c.Admin.GetStats)

		admin.GET("/submissions", c.Admin.ListSubmissions)
		admin.POST("/submissions/:id/approve", c.Admin.ApproveSubmission)
		admin.DELETE("/submissions/:id/reject", c.Admin.RejectSubmission)

		admin.GET("/companies", c.Admin.ListCompanies)
		admin.GET("/companies/:id", c.Admin.GetCompany)
		admin.POST("/companies/:id/approve", c.Admin.ApproveCompany)
		admin.DELETE("/companies/:id/reject", c.Admin.RejectCompany)
		admin.DELETE("/companies/:id", c.Admin.DeleteCompany)

		admin.POST("/media/sign", c.Media.Sign)
	}
}
