package request

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Struct runs the validate tags on reqData and flattens any failures into a
// field -> message map for the standard validation response.
func Struct(reqData interface{}) map[string]string {
	err := validate.Struct(reqData)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["request"] = "Invalid request body!"
		return errors
	}

	for _, fieldErr := range validationErrors {
		field := strings.ToLower(fieldErr.Field()[:1]) + fieldErr.Field()[1:]
		switch fieldErr.Tag() {
		case "required":
			errors[field] = "This field is required!"
		case "email":
			errors[field] = "Invalid email!"
		case "min":
			errors[field] = "Value is too short or too small!"
		case "max":
			errors[field] = "Value is too long or too large!"
		case "gt", "gte":
			errors[field] = "Value is too small!"
		case "lt", "lte", "gtfield":
			errors[field] = "Value is out of range!"
		case "len":
			errors[field] = "Invalid length!"
		case "numeric":
			errors[field] = "Must be numeric!"
		case "oneof":
			errors[field] = "Invalid value!"
		default:
			errors[field] = "Invalid value!"
		}
	}

	return errors
}
