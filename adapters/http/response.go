package cvhttp

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	errorslib "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"

	"github.com/goliatone/go-cvbuilder/cv"
)

// ErrorResponse describes JSON error responses.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains error details.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func writeError(c router.Context, err error) error {
	if err == nil {
		return c.NoContent(http.StatusNoContent)
	}
	ge := cv.AsGoError(err)
	return c.JSON(statusForError(ge), errorBody(ge))
}

func errorBody(ge *errorslib.Error) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Message: ge.Message, Code: ge.TextCode}}
}

func statusForError(err *errorslib.Error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	switch err.TextCode {
	case "not_implemented":
		return http.StatusNotImplemented
	case "busy", "canceled":
		return http.StatusConflict
	case "timeout":
		return http.StatusGatewayTimeout
	}
	switch err.Category {
	case errorslib.CategoryValidation:
		return http.StatusBadRequest
	case errorslib.CategoryNotFound:
		return http.StatusNotFound
	case errorslib.CategoryOperation:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders fiber routing errors with the same body as handler errors.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "internal"
		switch fe.Code {
		case http.StatusNotFound:
			code = "not_found"
		case http.StatusMethodNotAllowed:
			code = "method_not_allowed"
		case http.StatusRequestEntityTooLarge:
			code = "too_large"
		}
		return c.Status(fe.Code).JSON(ErrorResponse{Error: ErrorBody{Message: fe.Message, Code: code}})
	}
	ge := cv.AsGoError(err)
	return c.Status(statusForError(ge)).JSON(errorBody(ge))
}
