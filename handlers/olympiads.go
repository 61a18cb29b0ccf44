// handlers/olympiads.go
package handlers

import (
	"teammatch/services"
	"teammatch/utils"

	"github.com/gofiber/fiber/v2"
)

// ListOlympiads
// GET /api/olympiads?subject=&level=&year=
func ListOlympiads(c *fiber.Ctx) error {
	olympiads, err := olympiadService.ListOlympiads(services.OlympiadFilter{
		Subject: c.Query("subject"),
		Level:   c.Query("level"),
		Year:    utils.QueryInt(c, "year", 0),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"olympiads": olympiads,
		"count":     len(olympiads),
	})
}

// CreateOlympiad
// POST /api/olympiads
func CreateOlympiad(c *fiber.Ctx) error {
	var req services.OlympiadInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	o, err := olympiadService.CreateOlympiad(req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "olympiad": o})
}

// GetOlympiad
// GET /api/olympiads/:slug
func GetOlympiad(c *fiber.Ctx) error {
	o, err := olympiadService.GetOlympiadBySlug(c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "olympiad": o})
}

// ListOlympiadTeams
// GET /api/olympiads/:slug/teams?open=true
func ListOlympiadTeams(c *fiber.Ctx) error {
	o, err := olympiadService.GetOlympiadBySlug(c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}

	teams, err := teamService.ListOlympiadTeams(o.ID, utils.QueryBool(c, "open"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"teams":   teams,
		"count":   len(teams),
	})
}
