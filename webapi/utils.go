package webapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/corebank/ledger/pkg/domain/account"
)

// Response defines the standard API response structure for success cases.
type Response struct {
	Status  int    `json:"status"`         // HTTP status code
	Message string `json:"message"`        // Human-readable explanation
	Data    any    `json:"data,omitempty"` // Response data
}

// ProblemDetails follows RFC 9457 Problem Details for HTTP APIs.
type ProblemDetails struct {
	Type     string `json:"type,omitempty"`     // A URI reference that identifies the problem type
	Title    string `json:"title"`              // Short, human-readable summary
	Status   int    `json:"status"`             // HTTP status code
	Detail   string `json:"detail,omitempty"`   // Human-readable explanation
	Instance string `json:"instance,omitempty"` // URI reference that identifies the specific occurrence
	Errors   any    `json:"errors,omitempty"`   // Optional: additional error details
}

// SuccessResponseJSON writes the standard success envelope.
func SuccessResponseJSON(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(Response{
		Status:  status,
		Message: message,
		Data:    data,
	})
}

// ErrorResponseJSON returns a response following RFC 9457 Problem Details.
func ErrorResponseJSON(c *fiber.Ctx, status int, title string, detail any) error {
	pd := ProblemDetails{
		Type:   "about:blank",
		Title:  title,
		Status: status,
	}
	if detail != nil {
		if s, ok := detail.(string); ok {
			pd.Detail = s
		} else {
			pd.Errors = detail
		}
	}
	pd.Instance = c.OriginalURL()

	// fiber's JSON resets the content type, so the problem media type has to
	// travel through it.
	return c.Status(status).JSON(pd, "application/problem+json")
}

// DomainErrorResponseJSON maps a domain error to a problem-details response.
// Only the matched sentinel's text reaches the client; the full error chain
// stays in server-side logs.
func DomainErrorResponseJSON(c *fiber.Ctx, title string, err error) error {
	return ErrorResponseJSON(c, ErrorToStatusCode(err), title, domainErrorDetail(err))
}

// domainTaxonomy lists the sentinels whose text is safe to show clients.
var domainTaxonomy = []error{
	account.ErrAccountNotFound,
	account.ErrTransactionNotFound,
	account.ErrDuplicateAccountNumber,
	account.ErrDuplicateEmail,
	account.ErrInvalidAmount,
	account.ErrInvalidTransactionType,
	account.ErrInvalidAccountNumber,
	account.ErrInvalidHolderName,
	account.ErrInvalidEmail,
	account.ErrInvalidAccountType,
	account.ErrInvalidAccountStatus,
	account.ErrNegativeBalance,
	account.ErrInsufficientFunds,
	account.ErrAccountNotActive,
	account.ErrWriteConflict,
	account.ErrStorageFailure,
}

// domainErrorDetail collapses an error to its domain sentinel's text. Driver
// errors joined onto ErrStorageFailure carry connection details that must not
// leave the server.
func domainErrorDetail(err error) string {
	for _, sentinel := range domainTaxonomy {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "internal server error"
}

// ErrorToStatusCode maps domain errors to appropriate HTTP status codes.
func ErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, account.ErrAccountNotFound),
		errors.Is(err, account.ErrTransactionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, account.ErrDuplicateAccountNumber),
		errors.Is(err, account.ErrDuplicateEmail),
		errors.Is(err, account.ErrWriteConflict):
		return fiber.StatusConflict
	case errors.Is(err, account.ErrInvalidAmount),
		errors.Is(err, account.ErrInvalidTransactionType),
		errors.Is(err, account.ErrInvalidAccountNumber),
		errors.Is(err, account.ErrInvalidHolderName),
		errors.Is(err, account.ErrInvalidEmail),
		errors.Is(err, account.ErrInvalidAccountType),
		errors.Is(err, account.ErrInvalidAccountStatus),
		errors.Is(err, account.ErrNegativeBalance):
		return fiber.StatusBadRequest
	case errors.Is(err, account.ErrInsufficientFunds),
		errors.Is(err, account.ErrAccountNotActive):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, account.ErrStorageFailure):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// BindAndValidate parses the request body and validates it using
// go-playground/validator. Returns the populated struct, or writes an error
// response and returns nil.
func BindAndValidate[T any](c *fiber.Ctx) (*T, error) {
	var input T
	if err := c.BodyParser(&input); err != nil {
		ErrorResponseJSON(c, fiber.StatusBadRequest, "Invalid request body", err.Error()) //nolint:errcheck
		return nil, err
	}
	validate := validator.New()
	if err := validate.Struct(input); err != nil {
		ErrorResponseJSON(c, fiber.StatusBadRequest, "Validation failed", err.Error()) //nolint:errcheck
		return nil, err
	}
	return &input, nil
}
