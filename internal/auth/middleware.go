package auth

import (
	"github.com/lmagsino/stride/internal/apierr"

	"github.com/gofiber/fiber/v2"
)

const unauthenticated = "You need to sign in or sign up before continuing."

// JWTMiddleware validates bearer tokens and stores user_id in locals.
func JWTMiddleware(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := parseBearer(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return apierr.Unauthorized(unauthenticated)
		}

		claims, err := svc.Authenticate(c.UserContext(), token)
		if err != nil {
			if IsAuthError(err) {
				return apierr.Unauthorized(unauthenticated)
			}
			return err
		}

		c.Locals("user_id", claims.UserID)
		return c.Next()
	}
}

// UserID returns the authenticated user set by JWTMiddleware.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
