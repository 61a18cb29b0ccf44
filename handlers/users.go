// handlers/users.go - Account and profile endpoints
package handlers

import (
	"teammatch/middleware"
	"teammatch/services"
	"teammatch/utils"

	"github.com/gofiber/fiber/v2"
)

// GetCurrentUser returns the authenticated user
// GET /api/users/me
func GetCurrentUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := userService.GetUser(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    userInfo(user),
		"profile": user.Profile,
	})
}

// DeleteCurrentUser deletes the caller's account
// DELETE /api/users/me
func DeleteCurrentUser(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := userService.DeleteUser(userID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Account deleted",
	})
}

// ViewUserProfile shows another user's profile if the caller may see it
// GET /api/users/:id/profile
func ViewUserProfile(c *fiber.Ctx) error {
	viewerID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	profileUserID, ok := utils.ParamID(c, "id")
	if !ok {
		return badRequest(c, "Invalid user ID")
	}

	view, err := accessService.ViewProfile(viewerID, profileUserID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user_id": view.UserID,
		"profile": view.Profile,
		"access":  view.Access,
	})
}

// GetOwnProfile returns the caller's profile
// GET /api/profile
func GetOwnProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	profile, err := userService.GetOwnProfile(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "profile": profile})
}

// UpsertProfile creates or replaces the caller's profile
// PUT /api/profile
func UpsertProfile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req services.ProfileInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	profile, err := userService.UpsertProfile(userID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "profile": profile})
}

// GetProfileViewers lists who may currently read the caller's profile
// GET /api/profile/viewers
func GetProfileViewers(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	viewers, err := accessService.GetAuthorizedViewers(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "viewers": viewers})
}
