// utils/http.go - Small Fiber response and parameter helpers
package utils

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// JSONError sends a JSON error response
func JSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// JSONSuccess sends a JSON success response, merging data into the body
// when it is a fiber.Map.
func JSONSuccess(c *fiber.Ctx, status int, data interface{}) error {
	response := fiber.Map{"success": true}

	if dataMap, ok := data.(fiber.Map); ok {
		for k, v := range dataMap {
			response[k] = v
		}
	} else if data != nil {
		response["data"] = data
	}

	return c.Status(status).JSON(response)
}

// ParamID parses a positive numeric route parameter.
func ParamID(c *fiber.Ctx, key string) (uint, bool) {
	id, err := strconv.ParseUint(c.Params(key), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// QueryInt gets an integer query parameter
func QueryInt(c *fiber.Ctx, key string, defaultValue int) int {
	val := c.Query(key)
	if val == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return n
}

// QueryBool reads true/1/yes as true.
func QueryBool(c *fiber.Ctx, key string) bool {
	switch c.Query(key) {
	case "true", "1", "yes":
		return true
	}
	return false
}
