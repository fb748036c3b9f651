package api

import (
	"context"
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/Aquilabot/SmartPC-API/internal/catalog"
	"github.com/Aquilabot/SmartPC-API/internal/scoring"
)

// errorHandler turns handler errors into {"error": ...} bodies.
func errorHandler(c *fiber.Ctx, err error) error {
	code, msg := fiber.StatusInternalServerError, "Internal server error"

	var (
		fe   *fiber.Error
		verr validation.Errors
	)
	switch {
	case errors.As(err, &fe):
		code, msg = fe.Code, fe.Message
	case errors.As(err, &verr):
		code, msg = fiber.StatusBadRequest, verr.Error()
	case errors.Is(err, catalog.ErrNotFound):
		code, msg = fiber.StatusNotFound, "Not found"
	case errors.Is(err, catalog.ErrInvalidRecord):
		code, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, scoring.ErrUnknownFPS):
		code, msg = fiber.StatusNotFound, err.Error()
	case errors.Is(err, catalog.ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		code, msg = fiber.StatusServiceUnavailable, "Catalog unavailable"
	}

	if code >= fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

func notFound(what string) error {
	return fiber.NewError(fiber.StatusNotFound, what+" not found")
}
