package middleware

import (
	"studynote-ai/internal/domain"
	"studynote-ai/internal/export"
	"studynote-ai/internal/validation"

	"github.com/gofiber/fiber/v2"
)

const (
	ValidatedLevelKey  = "validated_level"
	ValidatedFormatKey = "validated_format"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator    *validation.Validator
	defaultLevel domain.Level
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware(validator *validation.Validator, defaultLevel domain.Level) *ValidationMiddleware {
	return &ValidationMiddleware{validator: validator, defaultLevel: defaultLevel}
}

// ValidateLevel validates the "level" form or query value and stores the
// resolved domain.Level. An absent level resolves to the default.
func (vm *ValidationMiddleware) ValidateLevel() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.FormValue("level")
		if raw == "" {
			raw = c.Query("level")
		}

		if errors := vm.validator.ValidateLevel(raw); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler
		}

		level, _ := domain.ParseLevel(raw, vm.defaultLevel)
		c.Locals(ValidatedLevelKey, level)
		return c.Next()
	}
}

// ValidateExportFormat validates the :format path parameter.
func (vm *ValidationMiddleware) ValidateExportFormat() fiber.Handler {
	return func(c *fiber.Ctx) error {
		format, err := export.ParseFormat(c.Params("format"))
		if err != nil {
			return err
		}
		c.Locals(ValidatedFormatKey, format)
		return c.Next()
	}
}
