package auth

import (
	"errors"
	"strings"

	"github.com/lmagsino/stride/internal/apierr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, mw fiber.Handler) {
	r.Post("/signup", func(c *fiber.Ctx) error {
		var req struct {
			User SignupRequest `json:"user"`
		}
		if err := c.BodyParser(&req); err != nil {
			return apierr.BadRequest("invalid payload")
		}
		user, token, err := svc.Signup(c.UserContext(), req.User)
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderAuthorization, "Bearer "+token)
		return c.Status(fiber.StatusCreated).JSON(AuthResponse{User: user, Token: token})
	})

	r.Post("/login", func(c *fiber.Ctx) error {
		var req struct {
			User LoginRequest `json:"user"`
		}
		if err := c.BodyParser(&req); err != nil || req.User.Email == "" || req.User.Password == "" {
			return apierr.Unauthorized("Invalid email or password")
		}
		user, token, err := svc.Login(c.UserContext(), req.User)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				return apierr.Unauthorized("Invalid email or password")
			}
			return err
		}
		c.Set(fiber.HeaderAuthorization, "Bearer "+token)
		return c.JSON(AuthResponse{User: user, Token: token})
	})

	r.Delete("/logout", func(c *fiber.Ctx) error {
		token := parseBearer(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return apierr.Unauthorized("No active session")
		}
		if err := svc.Logout(c.UserContext(), token); err != nil {
			if IsAuthError(err) {
				return apierr.Unauthorized("No active session")
			}
			return err
		}
		return c.JSON(fiber.Map{"message": "Logged out successfully"})
	})

	r.Get("/me", mw, func(c *fiber.Ctx) error {
		user, err := svc.CurrentUser(c.UserContext(), UserID(c))
		if err != nil {
			if errors.Is(err, ErrUserNotFound) {
				return apierr.Unauthorized(unauthenticated)
			}
			return err
		}
		return c.JSON(fiber.Map{"user": user})
	})
}

func parseBearer(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
