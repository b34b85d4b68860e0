package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/stemsi/classroom-backend/internal/model"
)

// trans is the singleton English translator for validation errors.
var (
	trans     ut.Translator
	setupOnce sync.Once
)

// Setup registers the validator with English translations on Gin's binding engine.
// Safe to call more than once; only the first call has an effect.
func Setup() {
	setupOnce.Do(setup)
}

func setup() {
	v, ok := binding.Validator.Engine().(*govalidator.Validate)
	if !ok {
		return
	}

	// Use JSON tag name for field names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("notblank", notBlank)
	_ = v.RegisterValidation("role", validRole)

	// Register English translations.
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	registerMessage(v, "notblank", "{0} must not be blank")
	registerMessage(v, "role", "{0} must be one of ADMIN, STUDENT, INSTRUCTOR")
}

func notBlank(fl govalidator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validRole(fl govalidator.FieldLevel) bool {
	return model.Role(fl.Field().String()).Valid()
}

func registerMessage(v *govalidator.Validate, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe govalidator.FieldError) string {
			msg, _ := ut.T(tag, fe.Field())
			return msg
		},
	)
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name to human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if trans != nil {
				fields[fe.Field()] = fe.Translate(trans)
			} else {
				fields[fe.Field()] = fe.Error()
			}
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
