package serverutils

import (
	"errors"

	"rag-knowledge-be/internal/apperror"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts errors escaping the handlers into JSON
// responses with a status derived from the error kind.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		classified := apperror.Classify(err)
		kind, _ := apperror.KindOf(classified)
		return ctx.Status(statusForKind(kind)).JSON(ErrorResponse(classified.Error()))
	}
}

func statusForKind(kind apperror.Kind) int {
	switch kind {
	case apperror.KindValidation:
		return fiber.StatusBadRequest
	case apperror.KindExtraction,
		apperror.KindEmbedding,
		apperror.KindRetrieval,
		apperror.KindPromptTooLong,
		apperror.KindGeneration:
		return fiber.StatusUnprocessableEntity
	case apperror.KindStorage:
		return fiber.StatusServiceUnavailable
	case apperror.KindTimeout:
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}
