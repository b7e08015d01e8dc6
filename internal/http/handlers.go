package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Shogund21/assetguardian-dev-sub003/internal/domain"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/maintenance"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/service"
	"github.com/Shogund21/assetguardian-dev-sub003/internal/validate"
)

// orgID reads the caller's organization from the identity context header set
// by the upstream auth proxy. Every query is scoped to it.
func orgID(c *fiber.Ctx) string {
	return c.Get("X-Org-ID")
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}

// statusFor maps the engine's error taxonomy onto HTTP statuses. Transient
// storage conditions come back 503 so callers know a retry is appropriate.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidEquipment),
		errors.Is(err, domain.ErrInvalidReading):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrTemplateNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrSessionInProgress),
		errors.Is(err, domain.ErrSessionClosed):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrRetrievalFailed),
		errors.Is(err, domain.ErrPersistFailed):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

type startDiagnosticRequest struct {
	Tier string `json:"tier" conform:"trim,lower"`
}

type readingRequest struct {
	Field     string      `json:"field" conform:"trim" validate:"required"`
	Value     interface{} `json:"value" validate:"required"`
	Timestamp time.Time   `json:"timestamp"`
}

type acknowledgeRequest struct {
	ResolvedBy string `json:"resolved_by" conform:"trim,lower" validate:"required,email"`
	Phone      string `json:"phone" conform:"trim" validate:"omitempty,phone"`
	Comment    string `json:"comment"`
}

func Register(app *fiber.App, svcs *service.Services) {
	v := validate.Get()

	app.Get("/equipment", func(c *fiber.Ctx) error {
		items, err := svcs.Repos.ListEquipment(c.Context(), orgID(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(items)
	})

	app.Get("/equipment/:id", func(c *fiber.Ctx) error {
		eq, err := svcs.Repos.GetEquipment(c.Context(), orgID(c), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(eq)
	})

	app.Get("/equipment/:id/template", func(c *fiber.Ctx) error {
		eq, err := svcs.Repos.GetEquipment(c.Context(), orgID(c), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		tier := maintenance.Tier(c.Query("tier", string(maintenance.TierDaily)))
		tmpl, err := svcs.Resolver.Resolve(eq.TypeTag, tier)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(tmpl)
	})

	app.Post("/equipment/:id/diagnostics", func(c *fiber.Ctx) error {
		var req startDiagnosticRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
			}
		}
		sess, err := svcs.Diagnostics.Start(c.Context(), orgID(c), c.Params("id"), maintenance.Tier(req.Tier))
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(sess)
	})

	app.Get("/diagnostics/:id", func(c *fiber.Ctx) error {
		sess, err := svcs.Diagnostics.Get(c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(sess)
	})

	app.Get("/diagnostics/:id/readings", func(c *fiber.Ctx) error {
		readings, err := svcs.Diagnostics.Readings(c.Context(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(readings)
	})

	app.Post("/diagnostics/:id/readings", func(c *fiber.Ctx) error {
		var req readingRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if err := v.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		rd, err := svcs.Diagnostics.Record(c.Context(), c.Params("id"), req.Field, req.Value, req.Timestamp)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(rd)
	})

	app.Post("/diagnostics/:id/complete", func(c *fiber.Ctx) error {
		verdict, err := svcs.Diagnostics.Complete(c.Context(), orgID(c), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(verdict)
	})

	app.Post("/diagnostics/:id/abort", func(c *fiber.Ctx) error {
		if err := svcs.Diagnostics.Abort(c.Params("id")); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Get("/alerts", func(c *fiber.Ctx) error {
		alerts, err := svcs.Alerts.GetActiveAlerts(c.Context(), orgID(c), c.Query("equipment_id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(alerts)
	})

	app.Post("/alerts/:id/acknowledge", func(c *fiber.Ctx) error {
		var req acknowledgeRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if err := v.Struct(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		if err := svcs.Alerts.Acknowledge(c.Context(), orgID(c), c.Params("id"), req.ResolvedBy); err != nil {
			return fail(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}
