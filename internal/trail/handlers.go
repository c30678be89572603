package trail

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the single trails endpoint. The method plus query
// parameters select the operation, matching the existing web client.
func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Get("/", func(c *fiber.Ctx) error {
		if id := c.Query("id"); id != "" {
			t, err := svc.Get(c.Context(), id)
			if err != nil {
				return trailError(err, "")
			}
			return c.JSON(t)
		}

		trails, err := svc.List(c.Context(), Filter{
			UserID:  c.Query("userId"),
			SavedBy: c.Query("savedBy"),
		})
		if err != nil {
			return err
		}
		return c.JSON(trails)
	})

	r.Post("/", func(c *fiber.Ctx) error {
		var input CreateInput
		if err := c.BodyParser(&input); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		t, err := svc.Create(c.Context(), input)
		if err != nil {
			return trailError(err, "")
		}
		return c.Status(fiber.StatusCreated).JSON(t)
	})

	r.Put("/", func(c *fiber.Ctx) error {
		id := c.Query("id")
		if id == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Trail ID is required")
		}
		var patch UpdateInput
		if err := c.BodyParser(&patch); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		t, err := svc.Update(c.Context(), id, patch)
		if err != nil {
			return trailError(err, "You can only update your own trails")
		}
		return c.JSON(t)
	})

	r.Patch("/", func(c *fiber.Ctx) error {
		if c.Query("action") != "save" {
			return fiber.NewError(fiber.StatusMethodNotAllowed, "Method not allowed")
		}
		var body struct {
			TrailID string `json:"trailId"`
			UserID  string `json:"userId"`
		}
		if err := c.BodyParser(&body); err != nil || body.TrailID == "" || body.UserID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Trail ID and User ID are required")
		}
		result, err := svc.ToggleSave(c.Context(), body.TrailID, body.UserID)
		if err != nil {
			return trailError(err, "")
		}
		return c.JSON(result)
	})

	r.Delete("/", func(c *fiber.Ctx) error {
		id := c.Query("id")
		userID := c.Query("userId")
		if id == "" || userID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Trail ID and User ID are required")
		}
		if err := svc.Delete(c.Context(), id, userID); err != nil {
			return trailError(err, "You can only delete your own trails")
		}
		return c.JSON(fiber.Map{"message": "Trail deleted successfully"})
	})

	r.Options("/", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
}

func trailError(err error, forbiddenMsg string) error {
	var ve ValidationError
	switch {
	case errors.As(err, &ve):
		return fiber.NewError(fiber.StatusBadRequest, ve.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Trail not found")
	case errors.Is(err, ErrForbidden):
		if forbiddenMsg == "" {
			forbiddenMsg = "Forbidden"
		}
		return fiber.NewError(fiber.StatusForbidden, forbiddenMsg)
	}
	return err
}
