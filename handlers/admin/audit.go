// handlers/admin/audit.go - Operator endpoints for the membership audit
package admin

import (
	"teammatch/middleware"
	"teammatch/services"
	"teammatch/utils"

	"github.com/gofiber/fiber/v2"
)

var auditWorker *services.AuditWorker

// RegisterRoutes mounts /api/admin behind user auth plus the admin list.
func RegisterRoutes(app *fiber.App, w *services.AuditWorker) {
	auditWorker = w

	adminGroup := app.Group("/api/admin")
	adminGroup.Use(middleware.AuthMiddleware, middleware.AdminAuthMiddleware)
	adminGroup.Get("/audit", GetAuditReport)
	adminGroup.Post("/audit/run", RunAudit)
}

// GetAuditReport returns the last background pass
// GET /api/admin/audit
func GetAuditReport(c *fiber.Ctx) error {
	report := auditWorker.LastReport()
	if report == nil {
		return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"report": nil, "message": "No audit has run yet"})
	}
	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{"report": report})
}

// RunAudit runs a pass immediately
// POST /api/admin/audit/run
func RunAudit(c *fiber.Ctx) error {
	violations := auditWorker.RunOnce()
	report := auditWorker.LastReport()
	if report == nil {
		return utils.JSONError(c, fiber.StatusInternalServerError, "Audit failed")
	}

	return utils.JSONSuccess(c, fiber.StatusOK, fiber.Map{
		"report": report,
		"count":  len(violations),
	})
}
