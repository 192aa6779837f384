package api

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

const (
	ErrorMessage500 = "Something went wrong!"
)

func errorResponse(msg string) map[string]string {
	return map[string]string{
		"status":  "error",
		"message": msg,
	}
}

func successResponse[T interface{}](msg string, data T) map[string]interface{} {
	return map[string]interface{}{
		"status":  "success",
		"message": msg,
		"data":    data,
	}
}

// validationResponse flattens validator errors into a message list.
func validationResponse(err error) map[string]interface{} {
	var vErrs validator.ValidationErrors

	messages := []string{err.Error()}
	if errors.As(err, &vErrs) {
		messages = lo.Map(vErrs, func(item validator.FieldError, index int) string {
			return item.Error()
		})
	}

	return map[string]interface{}{
		"status":  "error",
		"message": "invalid body, validation failed",
		"errors":  messages,
	}
}
