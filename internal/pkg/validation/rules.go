package validation

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Field limits shared by request DTOs
const (
	PasswordMinLength = 6
	NameMaxLength     = 100
)

// NotBlank rejects strings that are empty after trimming whitespace
func NotBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

var (
	registerOnce sync.Once
	registerErr  error
)

// Register installs the custom rules on gin's validator engine once per process
func Register() error {
	registerOnce.Do(func() {
		if engine, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerErr = RegisterOn(engine)
		}
	})
	return registerErr
}

// RegisterOn installs the custom rules on v and makes error field names
// follow the json tag.
func RegisterOn(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v.RegisterValidation("notblank", NotBlank)
}
