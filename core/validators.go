package core

import (
	"reflect"
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	orderingTag   = "ordering"
	orderingText  = "{0} must be a column key, optionally prefixed with '-'"
	orderingRegex = regexp.MustCompile(`^-?[a-z][a-z0-9_]*$`)

	resourceTag   = "resource"
	resourceText  = "{0} must be a lowercase resource name"
	resourceRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

	requiredTag   = "required"
	requiredIfTag = "required_if"
	requiredText  = "this field is required"
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use query/JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"schema", "json"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return ""
	})

	// register custom validators
	_ = validate.RegisterValidation(orderingTag, orderingValidation)
	RegisterCustomTranslation(validate, translator, orderingTag, orderingText)

	_ = validate.RegisterValidation(resourceTag, resourceValidation)
	RegisterCustomTranslation(validate, translator, resourceTag, resourceText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredIfTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// TranslateErrors converts validator errors into field errors using translator.
// Any other error is returned unchanged.
func TranslateErrors(err error, translator ut.Translator) error {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	flds := make([]FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		flds = append(flds, FieldError{Field: vErr.Field(), Error: vErr.Translate(translator)})
	}
	return NewValidationError(err, flds...)
}

// Custom Global Validators

// orderingValidation only allows a single column key, optionally prefixed with "-" (descending).
func orderingValidation(fl validator.FieldLevel) bool {
	return orderingRegex.MatchString(fl.Field().String())
}

func resourceValidation(fl validator.FieldLevel) bool {
	return resourceRegex.MatchString(fl.Field().String())
}
