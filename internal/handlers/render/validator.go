package render

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

func configureValidator(validate *validator.Validate) {
	// Report fields by their 'json' tag name instead of struct field name
	validate.RegisterTagNameFunc(useJSONTagNames)

	// 'required' accepts whitespace only strings, passwords and chirps must not
	if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
}

func useJSONTagNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	// skip if tag key says it should be ignored
	if name == "-" {
		return ""
	}
	return name
}
