package routes

import (
	"net/http"

	"vantage/activity"
	"vantage/admin"
	"vantage/auth"
	"vantage/companies"
	"vantage/downloads"
	"vantage/live"
	"vantage/middleware"
	"vantage/ratelim"
	"vantage/releases"
	"vantage/settings"
	"vantage/users"
	"vantage/versions"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/downloads/*filepath", http.Dir("static/downloads"))
	router.ServeFiles("/static/coverpic/*filepath", http.Dir("static/coverpic"))
}

func AddAuthRoutes(router *httprouter.Router) {
	router.POST("/api/auth/login", ratelim.RateLimit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
	router.POST("/api/auth/token/refresh", ratelim.RateLimit(auth.RefreshToken))
	router.GET("/api/auth/session", ratelim.RateLimit(auth.Session))
}

func AddUserRoutes(router *httprouter.Router) {
	router.POST("/api/create-user", middleware.RequireAdmin(users.CreateUser))
	router.POST("/api/remove-first-time-flag", middleware.Authenticate(users.RemoveFirstTimeFlag))
	router.POST("/api/set-user-role", middleware.RequireAdmin(users.SetUserRole))
	router.GET("/api/users/users-with-role-user", middleware.RequireAdmin(users.ListRegularUsers))
	router.DELETE("/api/users/:uid", middleware.RequireAdmin(users.DeleteUser))
}

func AddCompanyRoutes(router *httprouter.Router) {
	router.GET("/api/company/companies", middleware.RequireAdmin(companies.ListCompanies))
	router.POST("/api/company/create-company", middleware.RequireAdmin(companies.CreateCompany))
	router.PUT("/api/company/:companyid", middleware.RequireAdmin(companies.EditCompany))
	router.DELETE("/api/company/:companyid", middleware.RequireAdmin(companies.DeleteCompany))
	router.POST("/api/company/members/:companyid", middleware.RequireAdmin(companies.AddMember))
	router.DELETE("/api/company/:companyid/members/:uid", middleware.RequireAdmin(companies.RemoveMember))
}

func AddDownloadRoutes(router *httprouter.Router) {
	router.GET("/api/downloads", middleware.Authenticate(downloads.List))
	router.POST("/api/downloads", middleware.RequireAdmin(downloads.Upload))
	router.DELETE("/api/downloads/:downloadid", middleware.RequireAdmin(downloads.Delete))
	router.GET("/api/downloads/:downloadid/qr", middleware.Authenticate(downloads.QR))
}

func AddVersionRoutes(router *httprouter.Router) {
	router.GET("/api/versions", middleware.Authenticate(versions.List))
	router.GET("/api/versions/latest", middleware.Authenticate(versions.Latest))
	router.POST("/api/versions", middleware.RequireAdmin(versions.Create))
	router.PUT("/api/versions/:versionid", middleware.RequireAdmin(versions.Edit))
	router.DELETE("/api/versions/:versionid", middleware.RequireAdmin(versions.Delete))
	router.GET("/api/versions/manifest/:versionid", middleware.RequireAdmin(versions.Manifest))
}

func AddReleasePostRoutes(router *httprouter.Router) {
	router.GET("/api/release-posts", middleware.Authenticate(releases.List))
	router.POST("/api/release-posts/addPost", middleware.RequireAdmin(releases.AddPost))
	router.DELETE("/api/release-posts/:postid", middleware.RequireAdmin(releases.DeletePost))
}

func AddAdminRoutes(router *httprouter.Router) {
	router.GET("/api/admin/role/:uid", middleware.Authenticate(admin.GetUserRole))
}

func AddSettingsRoutes(router *httprouter.Router) {
	router.GET("/api/settings", middleware.Authenticate(settings.GetUserSettings))
	router.PUT("/api/settings/:type", middleware.Authenticate(settings.UpdateUserSetting))
}

func AddActivityRoutes(router *httprouter.Router) {
	router.GET("/api/activity", ratelim.RateLimit(middleware.RequireAdmin(activity.GetActivityFeed)))
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub) {
	router.GET("/ws/dashboard", live.WebSocketHandler(hub))
}
