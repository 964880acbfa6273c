package middleware

import (
	"strconv"

	"medquest/internal/domain"
	"medquest/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	ChatIDKey = "validated_chat_id"
	LimitKey  = "validated_limit"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateChatID validates the :id path parameter
func (vm *ValidationMiddleware) ValidateChatID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		chatID := c.Params("id")
		if errors := vm.validator.ValidateChatID(chatID); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}
		c.Locals(ChatIDKey, chatID)
		return c.Next()
	}
}

// ValidateLimit parses an optional ?limit= and stores it; 0 means unset.
func (vm *ValidationMiddleware) ValidateLimit(max int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				return domain.ValidationErrors{domain.NewInvalidFormatError("limit", raw)}
			}
			limit = parsed
		}
		if errors := vm.validator.ValidateLimit(limit, max); len(errors) > 0 {
			return errors
		}
		c.Locals(LimitKey, limit)
		return c.Next()
	}
}
