package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"teammatch/config"
	"teammatch/database"
	"teammatch/middleware"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetHandler(discard.Default)
	os.Exit(m.Run())
}

type client struct {
	t   *testing.T
	app *fiber.App
}

func newClient(t *testing.T) *client {
	t.Helper()

	conn, err := database.OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	InitHandlers(conn, false)
	middleware.InitAuth(&config.Config{JWTSecret: "0123456789abcdef0123456789abcdef", TokenTTL: time.Hour})

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(middleware.RequestID())
	RegisterRoutes(app, nil)

	return &client{t: t, app: app}
}

func (c *client) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)

	out := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		require.NoError(c.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

// register returns the token and user id of a new account.
func (c *client) register(name string) (string, uint) {
	c.t.Helper()
	code, body := c.do("POST", "/api/auth/register", "", fiber.Map{
		"name":     name,
		"email":    name + "@example.com",
		"password": "pw",
	})
	require.Equal(c.t, 201, code, body)
	user := body["user"].(map[string]interface{})
	return body["token"].(string), uint(user["id"].(float64))
}

func (c *client) profile(token string) {
	c.t.Helper()
	code, body := c.do("PUT", "/api/profile", token, fiber.Map{
		"role":   "college_student",
		"skills": []string{"graphs"},
	})
	require.Equal(c.t, 200, code, body)
}

func (c *client) olympiadAndTeam(token string, maxMembers int) uint {
	c.t.Helper()
	code, body := c.do("POST", "/api/olympiads", token, fiber.Map{"short_name": "IOI", "name": "IOI", "year": 2025})
	require.Equal(c.t, 201, code, body)
	o := body["olympiad"].(map[string]interface{})

	code, body = c.do("POST", "/api/teams", token, fiber.Map{
		"name":        "Team",
		"olympiad_id": o["id"],
		"max_members": maxMembers,
	})
	require.Equal(c.t, 201, code, body)
	return uint(body["team"].(map[string]interface{})["id"].(float64))
}

func TestHealth(t *testing.T) {
	c := newClient(t)
	code, body := c.do("GET", "/api/health", "", nil)
	assert.Equal(t, 200, code)
	assert.Equal(t, "healthy", body["status"])
}

func TestAuthRequired(t *testing.T) {
	c := newClient(t)
	code, body := c.do("POST", "/api/teams/1/requests", "", nil)
	assert.Equal(t, 401, code)
	assert.Equal(t, false, body["success"])
}

func TestLoginFlow(t *testing.T) {
	c := newClient(t)
	c.register("ada")

	code, body := c.do("POST", "/api/auth/login", "", fiber.Map{"email": "ada@example.com", "password": "pw"})
	require.Equal(t, 200, code, body)
	token := body["token"].(string)

	code, body = c.do("GET", "/api/users/me", token, nil)
	require.Equal(t, 200, code, body)
	assert.Equal(t, "ada", body["user"].(map[string]interface{})["name"])

	code, body = c.do("POST", "/api/auth/login", "", fiber.Map{"email": "ada@example.com", "password": "nope"})
	assert.Equal(t, 401, code)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])

	code, body = c.do("POST", "/api/auth/register", "", fiber.Map{"name": "again", "email": "ada@example.com", "password": "pw"})
	assert.Equal(t, 409, code)
	assert.Equal(t, "EMAIL_TAKEN", body["code"])
}

func TestJoinRequestWorkflow(t *testing.T) {
	c := newClient(t)
	leaderToken, _ := c.register("leader")
	candToken, candID := c.register("cand")
	c.profile(leaderToken)
	teamID := c.olympiadAndTeam(leaderToken, 2)

	requests := fmt.Sprintf("/api/teams/%d/requests", teamID)
	profilePath := fmt.Sprintf("/api/users/%d/profile", candID)

	// No profile yet.
	code, body := c.do("POST", requests, candToken, fiber.Map{"message": "hi"})
	assert.Equal(t, 403, code)
	assert.Equal(t, "PROFILE_REQUIRED", body["code"])
	assert.Equal(t, "You must complete your profile before requesting to join a team", body["error"])

	c.profile(candToken)

	code, body = c.do("GET", requests+"/me", candToken, nil)
	require.Equal(t, 200, code)
	assert.Nil(t, body["request"])

	// The leader cannot see the candidate yet.
	code, body = c.do("GET", profilePath, leaderToken, nil)
	assert.Equal(t, 403, code)
	assert.Equal(t, "PROFILE_ACCESS_DENIED", body["code"])

	code, body = c.do("POST", requests, candToken, fiber.Map{"message": "hi"})
	require.Equal(t, 201, code, body)
	reqID := uint(body["request"].(map[string]interface{})["id"].(float64))

	code, body = c.do("POST", requests, candToken, nil)
	assert.Equal(t, 409, code)
	assert.Equal(t, "DUPLICATE_REQUEST", body["code"])

	code, body = c.do("GET", requests+"/me", candToken, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, "PENDING", body["status"])

	code, body = c.do("GET", profilePath, leaderToken, nil)
	require.Equal(t, 200, code, body)
	access := body["access"].(map[string]interface{})
	assert.Equal(t, `Viewing as leader of team "Team"`, access["reason"])

	// Only the creator sees the queue.
	code, _ = c.do("GET", requests, candToken, nil)
	assert.Equal(t, 403, code)

	code, body = c.do("GET", requests, leaderToken, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, float64(1), body["count"])

	// The candidate cannot approve their own request.
	code, body = c.do("POST", fmt.Sprintf("/api/requests/%d/approve", reqID), candToken, nil)
	assert.Equal(t, 403, code)
	assert.Equal(t, "FORBIDDEN", body["code"])

	code, body = c.do("POST", fmt.Sprintf("/api/requests/%d/approve", reqID), leaderToken, nil)
	require.Equal(t, 200, code, body)
	assert.Equal(t, "APPROVED", body["request"].(map[string]interface{})["status"])

	code, body = c.do("POST", fmt.Sprintf("/api/requests/%d/reject", reqID), leaderToken, nil)
	assert.Equal(t, 409, code)
	assert.Equal(t, "ALREADY_DECIDED", body["code"])

	// Access lapsed with the decision.
	code, _ = c.do("GET", profilePath, leaderToken, nil)
	assert.Equal(t, 403, code)

	code, body = c.do("GET", fmt.Sprintf("/api/teams/%d", teamID), candToken, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, float64(2), body["team"].(map[string]interface{})["member_count"])

	// Full now, for both paths.
	otherToken, _ := c.register("other")
	c.profile(otherToken)
	code, body = c.do("POST", requests, otherToken, nil)
	assert.Equal(t, 400, code)
	assert.Equal(t, "TEAM_FULL", body["code"])
	code, body = c.do("POST", fmt.Sprintf("/api/teams/%d/join", teamID), otherToken, nil)
	assert.Equal(t, 400, code)
	assert.Equal(t, "TEAM_FULL", body["code"])

	code, body = c.do("GET", "/api/requests/mine", candToken, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, float64(1), body["count"])
}

func TestLeaveTeamEndpoint(t *testing.T) {
	c := newClient(t)
	leaderToken, _ := c.register("leader")
	memberToken, _ := c.register("member")
	teamID := c.olympiadAndTeam(leaderToken, 4)

	code, body := c.do("POST", fmt.Sprintf("/api/teams/%d/join", teamID), memberToken, nil)
	require.Equal(t, 201, code, body)

	code, body = c.do("POST", fmt.Sprintf("/api/teams/%d/leave", teamID), leaderToken, nil)
	assert.Equal(t, 409, code)
	assert.Equal(t, "CREATOR_CANNOT_LEAVE", body["code"])
	assert.Equal(t, "Team creator cannot leave. Delete the team instead.", body["error"])

	code, _ = c.do("POST", fmt.Sprintf("/api/teams/%d/leave", teamID), memberToken, nil)
	assert.Equal(t, 200, code)

	code, body = c.do("POST", fmt.Sprintf("/api/teams/%d/leave", teamID), memberToken, nil)
	assert.Equal(t, 404, code)
	assert.Equal(t, "NOT_MEMBER", body["code"])

	code, body = c.do("GET", fmt.Sprintf("/api/teams/%d/members", teamID), memberToken, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, float64(1), body["count"])

	code, body = c.do("DELETE", "/api/users/me", leaderToken, nil)
	assert.Equal(t, 409, code)
	assert.Equal(t, "USER_OWNS_TEAMS", body["code"])
}

func TestInvalidIDs(t *testing.T) {
	c := newClient(t)
	token, _ := c.register("x")

	code, body := c.do("GET", "/api/teams/abc", token, nil)
	assert.Equal(t, 400, code)
	assert.Equal(t, "INVALID_INPUT", body["code"])

	code, body = c.do("GET", "/api/teams/999", token, nil)
	assert.Equal(t, 404, code)
	assert.Equal(t, "TEAM_NOT_FOUND", body["code"])
}

func TestOlympiadBrowsing(t *testing.T) {
	c := newClient(t)
	token, _ := c.register("x")
	c.olympiadAndTeam(token, 3)

	code, body := c.do("GET", "/api/olympiads?year=2025", "", nil)
	require.Equal(t, 200, code)
	assert.Equal(t, float64(1), body["count"])

	code, body = c.do("GET", "/api/olympiads/ioi-2025/teams?open=true", "", nil)
	require.Equal(t, 200, code)
	assert.Equal(t, float64(1), body["count"])

	code, body = c.do("GET", "/api/olympiads/nope", "", nil)
	assert.Equal(t, 404, code)
	assert.Equal(t, "OLYMPIAD_NOT_FOUND", body["code"])
}
