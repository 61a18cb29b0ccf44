// handlers/auth.go
package handlers

import (
	"time"

	"teammatch/middleware"
	"teammatch/models"
	"teammatch/services"

	"github.com/gofiber/fiber/v2"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token,omitempty"`
	User    UserInfo `json:"user"`
}

type UserInfo struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	HasProfile bool      `json:"has_profile"`
	CreatedAt  time.Time `json:"created_at"`
}

func userInfo(u *models.User) UserInfo {
	return UserInfo{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		HasProfile: u.Profile != nil,
		CreatedAt:  u.CreatedAt,
	}
}

// Register creates a new user account
// POST /api/auth/register
func Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := userService.Register(req)
	if err != nil {
		return respondError(c, err)
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		return respondError(c, err)
	}

	middleware.Logger(c).WithField("new_user_id", user.ID).Info("account registered")

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{
		Success: true,
		Token:   token,
		User:    userInfo(user),
	})
}

// Login authenticates a registered user
// POST /api/auth/login
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := userService.Login(req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	token, err := middleware.GenerateToken(user)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(AuthResponse{
		Success: true,
		Token:   token,
		User:    userInfo(user),
	})
}
