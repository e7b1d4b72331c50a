package profile

import (
	"errors"

	"github.com/lmagsino/stride/internal/apierr"
	"github.com/lmagsino/stride/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Use(authMiddleware)

	r.Get("/", func(c *fiber.Ctx) error {
		userID := auth.UserID(c)
		p, err := svc.GetProfile(c.UserContext(), userID)
		if err != nil {
			return err
		}
		races, err := svc.Races(c.UserContext(), userID)
		if err != nil {
			return err
		}

		views := make([]RaceView, 0, len(races))
		for _, r := range races {
			views = append(views, r.View())
		}
		var profile *ProfileView
		if p != nil {
			v := p.View()
			profile = &v
		}
		return c.JSON(fiber.Map{"profile": profile, "race_histories": views})
	})

	r.Put("/", func(c *fiber.Ctx) error {
		var body struct {
			Profile *ProfileInput `json:"profile"`
		}
		if err := c.BodyParser(&body); err != nil || body.Profile == nil {
			return apierr.BadRequest("param is missing or the value is empty: profile")
		}
		p, err := svc.UpdateProfile(c.UserContext(), auth.UserID(c), *body.Profile)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"profile": p.View()})
	})

	r.Post("/race_histories", func(c *fiber.Ctx) error {
		var body struct {
			RaceHistory *RaceInput `json:"race_history"`
		}
		if err := c.BodyParser(&body); err != nil || body.RaceHistory == nil {
			return apierr.BadRequest("param is missing or the value is empty: race_history")
		}
		race, err := svc.CreateRace(c.UserContext(), auth.UserID(c), *body.RaceHistory)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"race_history": race.View()})
	})

	r.Delete("/race_histories/:id", func(c *fiber.Ctx) error {
		if err := svc.DeleteRace(c.UserContext(), auth.UserID(c), c.Params("id")); err != nil {
			if errors.Is(err, ErrRaceNotFound) {
				return apierr.NotFound("Race history not found")
			}
			return err
		}
		return c.JSON(fiber.Map{"message": "Race history deleted"})
	})
}
