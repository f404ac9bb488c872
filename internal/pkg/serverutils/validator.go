package serverutils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// ValidateRequest runs struct-tag validation on a request DTO.
// Post-trim emptiness is checked in services because the validator
// cannot see whitespace-only values.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			first := verrs[0]
			return NewAppError(
				fiber.StatusBadRequest,
				fmt.Sprintf("잘못된 요청입니다 (%s: %s)", first.Field(), first.Tag()),
			)
		}
		return NewAppError(fiber.StatusBadRequest, "잘못된 요청입니다")
	}
	return nil
}
