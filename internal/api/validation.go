package api

import (
	"errors"
	"net/http"

	"gymclass/internal/i18n"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field" example:"session_date"`
	Tag     string `json:"tag" example:"datetime"`
	Message string `json:"message" example:"session_date must match the layout 2006-01-02"`
}

// BindJSON binds the request body into obj. Malformed or invalid bodies get
// a 400 listing each failed field, and BindJSON returns false.
func BindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		BadRequest(c, err.Error())
		return false
	}

	details := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, ValidationError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Error:   string(i18n.KeyInvalid),
		Message: "validation failed",
		Details: details,
	})
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "uuid":
		return fe.Field() + " must be a UUID"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "datetime":
		return fe.Field() + " must match the layout " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
