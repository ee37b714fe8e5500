package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"console/internal/backend"
	"console/internal/middleware"
	"console/internal/service"
	"console/internal/view"
)

// Services are the business services the pages are built on.
type Services struct {
	Entities  service.EntityService
	Employees service.EmployeeService
	Dashboard service.DashboardService
	Users     service.UserService
}

// RouterOptions configure the optional parts of the router.
type RouterOptions struct {
	LoginLimit  gin.HandlerFunc
	CORSOrigins []string
	MetricsPath string
	Metrics     http.Handler
}

// NewRouter wires every page onto a gin engine.
func NewRouter(deps *Deps, client *backend.Client, renderer *view.Renderer, svc Services, opts RouterOptions) *gin.Engine {
	router := gin.New()
	// record ids are path-escaped in links, so match on the raw path and unescape params
	router.UseRawPath = true
	router.UnescapePathValues = true
	router.Use(gin.Recovery(), middleware.RequestLogger(deps.Log))
	router.HTMLRender = renderer

	if len(opts.CORSOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = opts.CORSOrigins
		corsConfig.AllowCredentials = true
		corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept"}
		corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
		router.Use(cors.New(corsConfig))
	}

	if opts.Metrics != nil && opts.MetricsPath != "" {
		router.GET(opts.MetricsPath, gin.WrapH(opts.Metrics))
	}

	public := router.Group("")
	NewSystemHandler(deps).RegisterRoutes(public)
	NewAuthHandler(deps, opts.LoginLimit).RegisterRoutes(public)

	protected := router.Group("", middleware.RequireSession(deps.Auth, client, deps.Cookie, deps.Log))
	NewDashboardHandler(deps, svc.Dashboard).RegisterRoutes(protected)
	NewEmployeeHandler(deps, svc.Employees).RegisterRoutes(protected)
	NewUserHandler(deps, svc.Users).RegisterRoutes(protected)
	NewEntityHandler(deps, svc.Entities).RegisterRoutes(protected)

	toDashboard := func(c *gin.Context) { c.Redirect(http.StatusFound, "/dashboard") }
	router.GET("/", toDashboard)
	router.NoRoute(toDashboard)
	return router
}
