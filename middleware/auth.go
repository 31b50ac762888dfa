package middleware

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"

	"github.com/agenda-app/agenda-api/db"
	"github.com/agenda-app/agenda-api/models"
	"github.com/agenda-app/agenda-api/utils"
)

// Protected verifies the bearer token, resolves the referenced user and puts
// the identity into locals ("userID", "currentUser"). A valid token whose
// user no longer exists is rejected the same way as a bad token.
func Protected() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:   utils.JWTSecret(),
		ErrorHandler: jwtError,
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return jwtError(c, fmt.Errorf("missing token in context"))
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return jwtError(c, fmt.Errorf("invalid token claims"))
			}

			userID, err := extractUserID(claims)
			if err != nil {
				return jwtError(c, err)
			}

			var user models.User
			if err := db.DB.First(&user, userID).Error; err != nil {
				return jwtError(c, fmt.Errorf("no user found with this id"))
			}

			c.Locals("userID", user.ID)
			c.Locals("currentUser", &user)
			return c.Next()
		},
	})
}

// extractUserID handles the formats the id claim shows up in after JSON
// round-tripping.
func extractUserID(claims jwt.MapClaims) (uint, error) {
	idVal := claims["id"]
	if idVal == nil {
		return 0, fmt.Errorf("no ID found in claims")
	}

	switch v := idVal.(type) {
	case float64:
		return uint(v), nil
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse ID string: %v", err)
		}
		return uint(parsed), nil
	default:
		return 0, fmt.Errorf("unsupported ID type: %T", v)
	}
}

func jwtError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "Not authorized to access this route",
	})
}
