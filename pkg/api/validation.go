package api

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/freelansire/hrh/pkg/errors"
	"github.com/freelansire/hrh/pkg/middleware"
)

// BindAndValidate binds request body and validates it
func BindAndValidate(c *gin.Context, obj interface{}) *errors.AppError {
	return bindWith(c, obj, binding.JSON, "invalid request body")
}

// BindQueryAndValidate binds query parameters and validates them
func BindQueryAndValidate(c *gin.Context, obj interface{}) *errors.AppError {
	return bindWith(c, obj, binding.Query, "invalid query parameters")
}

// BindFormAndValidate binds urlencoded or multipart form fields and validates them
func BindFormAndValidate(c *gin.Context, obj interface{}) *errors.AppError {
	b := binding.Form
	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		b = binding.FormMultipart
	}
	return bindWith(c, obj, b, "invalid form data")
}

// BindURIAndValidate binds URI parameters and validates them
func BindURIAndValidate(c *gin.Context, obj interface{}) *errors.AppError {
	if err := c.ShouldBindUri(obj); err != nil {
		return validationOrBadRequest(err, "invalid URI parameters")
	}
	return nil
}

// ValidateStruct validates a struct with the shared validator and returns AppError
func ValidateStruct(obj interface{}) *errors.AppError {
	if err := middleware.GetValidator().Struct(obj); err != nil {
		return validationOrBadRequest(err, "validation error")
	}
	return nil
}

func bindWith(c *gin.Context, obj interface{}, b binding.Binding, message string) *errors.AppError {
	if err := c.ShouldBindWith(obj, b); err != nil {
		var maxBytesErr *http.MaxBytesError
		if stderrors.As(err, &maxBytesErr) {
			return errors.ErrPayloadTooLarge(maxBytesErr.Limit)
		}
		return validationOrBadRequest(err, message)
	}
	return nil
}

func validationOrBadRequest(err error, message string) *errors.AppError {
	var validationErrors validator.ValidationErrors
	if stderrors.As(err, &validationErrors) {
		return errors.ErrValidationWithFields("validation failed", middleware.ValidationErrorFormatter(validationErrors))
	}
	return errors.ErrBadRequest(fmt.Sprintf("%s: %v", message, err))
}
