// handlers/routes.go - Service wiring and route table
package handlers

import (
	"time"

	"teammatch/middleware"
	"teammatch/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	db                 *gorm.DB
	userService        *services.UserService
	teamService        *services.TeamService
	joinRequestService *services.JoinRequestService
	accessService      *services.ProfileAccessService
	olympiadService    *services.OlympiadService
)

// InitHandlers builds the services every handler uses.
func InitHandlers(conn *gorm.DB, production bool) {
	if conn == nil {
		panic("Database not initialized before InitHandlers")
	}
	db = conn
	hideInternalErrors = production

	userService = services.NewUserService(conn)
	teamService = services.NewTeamService(conn)
	joinRequestService = services.NewJoinRequestService(conn)
	accessService = services.NewProfileAccessService(conn)
	olympiadService = services.NewOlympiadService(conn)
}

// RegisterRoutes mounts the API on app.
func RegisterRoutes(app *fiber.App, limiters *middleware.Limiters) {
	app.Get("/health", Health)

	api := app.Group("/api")
	if limiters != nil {
		api.Use(limiters.General())
	}
	api.Get("/health", Health)

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	if limiters != nil {
		authGroup.Use(limiters.Auth())
	}
	authGroup.Post("/register", Register)
	authGroup.Post("/login", Login)

	// Users
	userGroup := api.Group("/users")
	userGroup.Use(middleware.AuthMiddleware)
	userGroup.Get("/me", GetCurrentUser)
	userGroup.Delete("/me", DeleteCurrentUser)
	userGroup.Get("/:id/profile", ViewUserProfile)

	// Own profile
	profileGroup := api.Group("/profile")
	profileGroup.Use(middleware.AuthMiddleware)
	profileGroup.Get("/", GetOwnProfile)
	profileGroup.Put("/", UpsertProfile)
	profileGroup.Get("/viewers", GetProfileViewers)

	// Olympiads: browsing is public
	olympiadGroup := api.Group("/olympiads")
	olympiadGroup.Get("/", ListOlympiads)
	olympiadGroup.Post("/", middleware.AuthMiddleware, CreateOlympiad)
	olympiadGroup.Get("/:slug", GetOlympiad)
	olympiadGroup.Get("/:slug/teams", ListOlympiadTeams)

	// Teams
	teamGroup := api.Group("/teams")
	teamGroup.Use(middleware.AuthMiddleware)
	teamGroup.Post("/", CreateTeam)
	teamGroup.Get("/my", GetUserTeams)
	teamGroup.Get("/:id", GetTeam)
	teamGroup.Put("/:id", UpdateTeam)
	teamGroup.Delete("/:id", DeleteTeam)
	teamGroup.Post("/:id/join", JoinTeam)
	teamGroup.Post("/:id/leave", LeaveTeam)
	teamGroup.Get("/:id/members", GetTeamMembers)
	teamGroup.Delete("/:id/members/:memberId", RemoveMember)
	teamGroup.Put("/:id/transfer", TransferOwnership)
	teamGroup.Get("/:id/check-membership", CheckMembership)
	teamGroup.Get("/:id/match", MatchTeam)

	// Join requests
	teamGroup.Post("/:id/requests", SubmitJoinRequest)
	teamGroup.Get("/:id/requests", ListPendingRequests)
	teamGroup.Get("/:id/requests/me", GetMyRequestStatus)

	requestGroup := api.Group("/requests")
	requestGroup.Use(middleware.AuthMiddleware)
	requestGroup.Get("/mine", ListMyRequests)
	requestGroup.Post("/:id/approve", ApproveRequest)
	requestGroup.Post("/:id/reject", RejectRequest)
}

// Health reports liveness and whether the database answers.
func Health(c *fiber.Ctx) error {
	status := "healthy"
	code := fiber.StatusOK

	if sqlDB, err := db.DB(); err != nil || sqlDB.Ping() != nil {
		status = "degraded"
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"version":   "1.0.0",
	})
}
