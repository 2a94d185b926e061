package api

import (
	"nba-season-dashboard/internal/api/handler"
	"nba-season-dashboard/pkg/router"

	_ "nba-season-dashboard/docs"

	httpSwagger "github.com/swaggo/http-swagger"
)

func RegisterRoutes(r *router.Router, h *handler.DashboardHandler) {
	r.GET("/health", h.HealthCheck)
	r.GET("/", h.Page)

	r.GET("/api/v1/filters", h.GetFilters)
	r.GET("/api/v1/seasons", h.GetSeasons)
	r.GET("/api/v1/loads", h.GetLoads)
	r.GET("/api/v1/dashboard/player", h.GetPlayerDashboard)
	r.GET("/api/v1/dashboard/team/{team}", h.GetTeamDashboard)

	r.Handle("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}
