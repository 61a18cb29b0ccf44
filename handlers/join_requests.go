// handlers/join_requests.go - Join-request workflow endpoints
package handlers

import (
	"teammatch/middleware"
	"teammatch/utils"

	"github.com/gofiber/fiber/v2"
)

// SubmitJoinRequest asks to join a team
// POST /api/teams/:id/requests
func SubmitJoinRequest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	teamID, ok := utils.ParamID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}

	var req struct {
		Message string `json:"message"`
	}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	jr, err := joinRequestService.SubmitJoinRequest(userID, teamID, req.Message)
	if err != nil {
		middleware.Logger(c).WithField("team_id", teamID).WithError(err).Info("join request refused")
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Join request sent",
		"request": jr,
	})
}

// GetMyRequestStatus returns the caller's latest request for a team
// GET /api/teams/:id/requests/me
func GetMyRequestStatus(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	teamID, ok := utils.ParamID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}

	jr, err := joinRequestService.GetMyRequestStatus(userID, teamID)
	if err != nil {
		return respondError(c, err)
	}

	if jr == nil {
		return c.JSON(fiber.Map{"success": true, "request": nil, "status": nil})
	}
	return c.JSON(fiber.Map{"success": true, "request": jr, "status": jr.Status})
}

// ListPendingRequests lists a team's pending requests (creator only)
// GET /api/teams/:id/requests
func ListPendingRequests(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	teamID, ok := utils.ParamID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}

	pending, err := joinRequestService.ListPendingRequests(teamID, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"requests": pending,
		"count":    len(pending),
	})
}

// ListMyRequests lists every request the caller has made
// GET /api/requests/mine
func ListMyRequests(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	reqs, err := joinRequestService.ListMyRequests(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"requests": reqs,
		"count":    len(reqs),
	})
}

// ApproveRequest
// POST /api/requests/:id/approve
func ApproveRequest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	requestID, ok := utils.ParamID(c, "id")
	if !ok {
		return badRequest(c, "Invalid request ID")
	}

	jr, member, err := joinRequestService.Approve(requestID, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Request approved",
		"request": jr,
		"member":  member,
	})
}

// RejectRequest
// POST /api/requests/:id/reject
func RejectRequest(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	requestID, ok := utils.ParamID(c, "id")
	if !ok {
		return badRequest(c, "Invalid request ID")
	}

	jr, err := joinRequestService.Reject(requestID, userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Request rejected",
		"request": jr,
	})
}
