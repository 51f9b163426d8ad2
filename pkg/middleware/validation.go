package middleware

import (
	"mime"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/freelansire/hrh/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// InitValidator registers the custom validation tags on gin's validator engine
// and returns a standalone validator configured the same way.
func InitValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		configureValidator(validate)

		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			configureValidator(v)
		}
	})

	return validate
}

func configureValidator(v *validator.Validate) {
	_ = v.RegisterValidation("not_blank", validateNotBlank)
	_ = v.RegisterValidation("safe_text", validateSafeText)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
}

// GetValidator returns the singleton validator instance
func GetValidator() *validator.Validate {
	return InitValidator()
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Free-form place names may contain any printable text, but no control characters.
func validateSafeText(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	return true
}

// ValidationErrorFormatter formats validation errors into a map
func ValidationErrorFormatter(err error) map[string]string {
	fields := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			fields[e.Field()] = formatValidationError(e)
		}
	}

	return fields
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "not_blank":
		return "must not be blank"
	case "safe_text":
		return "contains control characters"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must be at most " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "uuid":
		return "must be a valid UUID"
	default:
		return "is invalid"
	}
}

// SanitizeString removes null bytes and surrounding whitespace
func SanitizeString(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\x00", ""))
}

// InputSanitizer middleware sanitizes query parameters
func InputSanitizer() gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Request.URL.Query()
		for key, values := range query {
			for i, v := range values {
				values[i] = SanitizeString(v)
			}
			query[key] = values
		}
		c.Request.URL.RawQuery = query.Encode()

		c.Next()
	}
}

// Media types accepted for request bodies: JSON for the API, multipart for
// label uploads, and urlencoded for the HTML forms.
var acceptedMediaTypes = map[string]bool{
	"application/json":                  true,
	"multipart/form-data":               true,
	"application/x-www-form-urlencoded": true,
}

// ContentType middleware rejects POST/PUT/PATCH bodies with an unsupported media type
func ContentType() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			c.Next()
			return
		}

		if c.Request.ContentLength == 0 {
			c.Next()
			return
		}

		mediaType, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
		if err != nil || !acceptedMediaTypes[mediaType] {
			AbortWithAppError(c, errors.NewAppError(
				"INVALID_CONTENT_TYPE",
				"Content-Type must be application/json, multipart/form-data or application/x-www-form-urlencoded",
				http.StatusUnsupportedMediaType,
			))
			return
		}

		c.Next()
	}
}
