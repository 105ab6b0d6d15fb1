package routes

import (
	"meetly/api/handlers"
	"meetly/api/middleware"

	"github.com/gin-gonic/gin"
)

func PublicApi(router *gin.Engine) *gin.RouterGroup {
	public := router.Group("/api/v1/")
	{
		public.POST("auth/signup", handlers.Signup)
		public.POST("auth/login", handlers.Login)
	}

	authed := router.Group("/api/v1/")
	authed.Use(middleware.AuthMiddleware())
	{
		authed.POST("auth/logout", handlers.Logout)

		authed.GET("profile", handlers.GetProfile)
		authed.POST("profile/friends", handlers.AddFriend)
		authed.POST("profile/permissions", handlers.SetPermission)
		authed.PUT("profile/schedule", handlers.UploadSchedule)
		authed.GET("profile/schedule/:id", handlers.GetFriendSchedule)

		authed.GET("friends/search", handlers.SearchFriend)
		authed.POST("friends/request", handlers.SendFriendRequest)
		authed.POST("friends/accept", handlers.AcceptFriendRequest)
		authed.POST("friends/reject", handlers.RejectFriendRequest)
		authed.GET("friends/list", handlers.GetFriends)
		authed.GET("friends/requests", handlers.GetPendingRequests)

		authed.POST("meetings", handlers.CreateMeeting)
		authed.GET("meetings", handlers.GetUserMeetings)
		authed.PUT("meetings/:id", handlers.UpdateMeeting)
		authed.DELETE("meetings/:id", handlers.DeleteMeeting)
		authed.POST("meetings/:id/accept", handlers.SetMeetingAcceptance)
		authed.POST("meetings/:id/confirm", handlers.ConfirmMeeting)

		authed.GET("calendar", handlers.GetCalendar)
		authed.GET("calendar/export", handlers.ExportCalendar)
	}
	return authed
}
