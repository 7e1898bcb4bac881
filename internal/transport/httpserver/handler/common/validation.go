package common

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const notBlankTag = "notblank"

// Validator checks request structs and renders failures in English keyed by
// JSON field name.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator() *Validator {
	validate := validator.New()

	locale := en.New()
	uni := ut.New(locale, locale)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlank)
	_ = validate.RegisterTranslation(notBlankTag, translator,
		func(ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			return fe.Field() + " cannot be blank"
		},
	)

	return &Validator{validate: validate, translator: translator}
}

// Struct returns nil or a map of field name to message.
func (v *Validator) Struct(payload interface{}) map[string]string {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"_": err.Error()}
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fieldKey(fe)] = fe.Translate(v.translator)
	}
	return fields
}

// fieldKey drops the top-level struct name from the namespace.
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		return strings.TrimSpace(field.String()) != ""
	case reflect.Ptr:
		if field.IsNil() {
			return true
		}
		if s, ok := field.Elem().Interface().(string); ok {
			return strings.TrimSpace(s) != ""
		}
	}
	return false
}
