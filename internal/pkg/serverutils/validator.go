package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"rag-knowledge-be/internal/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest runs struct tag validation and folds every violation
// into a single validation error.
func ValidateRequest(request interface{}) error {
	err := validate.Struct(request)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return apperror.Wrap(apperror.KindValidation, "invalid request", err)
	}

	messages := make([]string, len(violations))
	for i, violation := range violations {
		messages[i] = fmt.Sprintf("field %s failed on %s", violation.Field(), violation.Tag())
	}
	return apperror.New(apperror.KindValidation, strings.Join(messages, "; "))
}
