package server

import (
	"catalog/pkg/httperror"
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type Request any
type Response any

type HandlerInterface[R Request, Res Response] interface {
	Handle(ctx context.Context, req *R) (*Res, error)
}

// Binder is implemented by requests that read the fiber context themselves,
// e.g. to get at multipart files.
type Binder interface {
	Bind(c *fiber.Ctx) error
}

func handle[R Request, Res Response](handler HandlerInterface[R, Res]) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req R

		if binder, ok := any(&req).(Binder); ok {
			if err := binder.Bind(c); err != nil {
				return writeError(c, err)
			}
		} else if err := parse(c, &req); err != nil {
			return writeError(c, err)
		}

		res, err := handler.Handle(c.UserContext(), &req)
		if err != nil {
			return writeError(c, err)
		}

		return c.JSON(res)
	}
}

func parse(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return httperror.BadRequest(
			"request.invalid_body",
			"Invalid body",
			fiber.Map{"error": err.Error()},
		)
	}

	if err := c.ParamsParser(req); err != nil {
		return httperror.BadRequest(
			"request.invalid_path_params",
			"Invalid path params",
			fiber.Map{"error": err.Error()},
		)
	}

	if err := c.QueryParser(req); err != nil {
		return httperror.BadRequest(
			"request.invalid_query_params",
			"Invalid query params",
			fiber.Map{"error": err.Error()},
		)
	}

	return nil
}

// writeError renders err as {"error", "code"}. Details are only exposed for
// client errors; server errors keep them in the log.
func writeError(c *fiber.Ctx, err error) error {
	var httpErr *httperror.Error
	if errors.As(err, &httpErr) {
		if httpErr.Status >= fiber.StatusInternalServerError {
			zap.L().Error("Handler returned server error",
				zap.String("code", httpErr.Code),
				zap.Any("details", httpErr.Details),
				zap.Error(httpErr),
			)
		} else {
			zap.L().Warn("Handler returned client error", zap.String("code", httpErr.Code), zap.Error(httpErr))
		}

		if httpErr.Body != nil {
			return c.Status(httpErr.Status).JSON(httpErr.Body)
		}

		payload := fiber.Map{
			"error": httpErr.Message,
			"code":  httpErr.Code,
		}
		if httpErr.Details != nil && httpErr.Status < fiber.StatusInternalServerError {
			payload["details"] = httpErr.Details
		}

		return c.Status(httpErr.Status).JSON(payload)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		zap.L().Warn("Fiber error", zap.String("message", fiberErr.Message), zap.Error(err))
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"error": fiberErr.Message,
			"code":  "request.invalid",
		})
	}

	zap.L().Error("Unhandled error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
		"code":  "internal_server_error",
	})
}
