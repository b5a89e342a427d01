// Package validation registers the custom request rules with gin's
// validator and renders validation failures as readable messages.
package validation

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const (
	pinTag            = "pin"
	pinText           = "{0} must be 1 to 4 digits"
	strongPasswordTag = "strongpassword"

	PasswordLengthText = "Password must be at least 8 characters"
	PasswordRulesText  = "Password must contain at least one lowercase letter, one uppercase letter, one digit, and one special character"

	passwordSpecials = "@$!%*?&"
)

var (
	translator ut.Translator
	setupOnce  sync.Once
)

// Setup wires the custom rules into gin's binding validator. It is safe to
// call more than once.
func Setup() {
	setupOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			Register(v)
		}
	})
}

// Register installs the json tag names, english translations and the
// custom pin and strongpassword rules on v.
func Register(v *validator.Validate) {
	english := en.New()
	uni := ut.New(english, english)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, translator)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(pinTag, func(fl validator.FieldLevel) bool {
		return IsPin(fl.Field().String())
	})
	registerTranslation(v, pinTag, pinText)

	_ = v.RegisterValidation(strongPasswordTag, func(fl validator.FieldLevel) bool {
		return PasswordProblem(fl.Field().String()) == ""
	})
	_ = v.RegisterTranslation(
		strongPasswordTag, translator,
		func(t ut.Translator) error { return nil },
		func(_ ut.Translator, fe validator.FieldError) string {
			value, _ := fe.Value().(string)
			if problem := PasswordProblem(value); problem != "" {
				return problem
			}
			return PasswordRulesText
		},
	)
}

func registerTranslation(v *validator.Validate, tag, text string) {
	_ = v.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// IsPin reports whether s is one to four ASCII digits.
func IsPin(s string) bool {
	if len(s) == 0 || len(s) > 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// PasswordProblem returns the reason s is not a strong password, or "".
// A strong password has at least 8 characters drawn from letters, digits
// and @$!%*?&, with at least one lowercase, uppercase, digit and special.
func PasswordProblem(s string) string {
	if len(s) < 8 {
		return PasswordLengthText
	}
	var lower, upper, digit, special bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		default:
			return PasswordRulesText
		}
	}
	if !lower || !upper || !digit || !special {
		return PasswordRulesText
	}
	return ""
}

// Message flattens a binding error into one human readable line.
func Message(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if translator != nil {
			msgs = append(msgs, fe.Translate(translator))
		} else {
			msgs = append(msgs, fe.Error())
		}
	}
	return strings.Join(msgs, "; ")
}
