// handlers/teams.go - Team HTTP Handlers
package handlers

import (
	"teammatch/middleware"
	"teammatch/services"
	"teammatch/utils"

	"github.com/gofiber/fiber/v2"
)

// ================== TEAM CRUD ENDPOINTS ==================

// CreateTeam creates a new team
// POST /api/teams
func CreateTeam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req services.CreateTeamInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	team, err := teamService.CreateTeam(userID, req)
	if err != nil {
		return respondError(c, err)
	}

	middleware.Logger(c).WithField("team_id", team.ID).Info("team created")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Team created successfully",
		"team":    team,
	})
}

// GetTeam retrieves a team by ID
// GET /api/teams/:id
func GetTeam(c *fiber.Ctx) error {
	teamID, ok := utils.ParamID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}

	team, err := teamService.GetTeamByID(teamID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"team":    team,
	})
}

// GetUserTeams returns the teams the caller belongs to
// GET /api/teams/my
func GetUserTeams(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	teams, err := teamService.GetUserTeams(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"teams":   teams,
		"count":   len(teams),
	})
}

// UpdateTeam updates team settings (creator only)
// PUT /api/teams/:id
func UpdateTeam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	teamID, ok := utils.ParamID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}

	var req services.UpdateTeamInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	team, err := teamService.UpdateTeam(teamID, userID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Team updated successfully",
		"team":    team,
	})
}

// DeleteTeam deletes a team (creator only)
// DELETE /api/teams/:id
func DeleteTeam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	teamID, ok := utils.ParamID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}

	if err := teamService.DeleteTeam(teamID, userID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Team deleted successfully",
	})
}

// ================== MEMBERSHIP ENDPOINTS ==================

// JoinTeam adds the caller to an open team without approval
// POST /api/teams/:id/join
func JoinTeam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	teamID, ok := utils.ParamID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}

	member, err := teamService.JoinTeam(userID, teamID)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Successfully joined team",
		"member":  member,
	})
}

// LeaveTeam removes the caller from a team
// POST /api/teams/:id/leave
func LeaveTeam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	teamID, ok := utils.ParamID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}

	if err := teamService.LeaveTeam(userID, teamID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Successfully left team",
	})
}

// GetTeamMembers lists a team's members
// GET /api/teams/:id/members
func GetTeamMembers(c *fiber.Ctx) error {
	teamID, ok := utils.ParamID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}

	members, err := teamService.GetTeamMembers(teamID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"members": members,
		"count":   len(members),
	})
}

// RemoveMember removes a member (creator only)
// DELETE /api/teams/:id/members/:memberId
func RemoveMember(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	teamID, ok := utils.ParamID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}
	memberID, ok := utils.ParamID(c, "memberId")
	if !ok {
		return badRequest(c, "Invalid member ID")
	}

	if err := teamService.RemoveMember(teamID, userID, memberID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Member removed successfully",
	})
}

// TransferOwnership hands the team to another member
// PUT /api/teams/:id/transfer
func TransferOwnership(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	teamID, ok := utils.ParamID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}

	var req struct {
		NewOwnerID uint `json:"new_owner_id"`
	}
	if err := c.BodyParser(&req); err != nil || req.NewOwnerID == 0 {
		return badRequest(c, "new_owner_id is required")
	}

	if err := teamService.TransferOwnership(teamID, userID, req.NewOwnerID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Ownership transferred successfully",
	})
}

// CheckMembership reports the caller's role in a team
// GET /api/teams/:id/check-membership
func CheckMembership(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	teamID, ok := utils.ParamID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}

	role, err := teamService.GetMemberRole(userID, teamID)
	if services.IsCode(err, "NOT_MEMBER") {
		return c.JSON(fiber.Map{"success": true, "is_member": false})
	}
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"is_member": true,
		"role":      role,
	})
}

// MatchTeam compares the caller's profile with the team's wishes
// GET /api/teams/:id/match
func MatchTeam(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	teamID, ok := utils.ParamID(c, "id")
	if !ok {
		return badRequest(c, "Invalid team ID")
	}

	report, err := services.MatchForUser(db, userID, teamID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "match": report})
}
