package user

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the single users endpoint. GET serves either a
// profile (?id=) or the leaderboard (?leaderboard=true).
func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		if c.Query("leaderboard") != "" {
			entries, err := svc.Leaderboard(c.Context())
			if err != nil {
				return err
			}
			return c.JSON(entries)
		}

		id := c.Query("id")
		if id == "" {
			return fiber.NewError(fiber.StatusMethodNotAllowed, "Method not allowed")
		}
		profile, err := svc.Profile(c.Context(), id)
		if err != nil {
			return userError(err)
		}
		return c.JSON(profile)
	})

	r.Post("/", func(c *fiber.Ctx) error {
		var input RegisterInput
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		u, err := svc.Register(c.Context(), input)
		if err != nil {
			return userError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	})

	r.Patch("/", func(c *fiber.Ctx) error {
		var input UpdateProfileInput
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		result, err := svc.UpdateProfile(c.Context(), input)
		if err != nil {
			return userError(err)
		}
		return c.JSON(result)
	})

	r.Options("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
}

func userError(err error) error {
	var ve ValidationError
	var ce ConflictError
	switch {
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusBadRequest, ve.Error())
	case errors.As(err, &ce):
		return fiber.NewError(fiber.StatusConflict, ce.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	return err
}
