// Package forms holds the draft state of create/edit dialogs: validation
// with per-field Indonesian messages, amount parsing and the modal state
// machine that guards submission.
package forms

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/LittleKatyusha/Sapi-sub004/pkg/money"
)

// FieldErrors maps a form field name to its message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for k, v := range e {
		parts = append(parts, k+": "+v)
	}
	return strings.Join(parts, "; ")
}

// First returns the message of the alphabetically first field, "" when empty.
func (e FieldErrors) First() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return ""
	}
	return e[keys[0]]
}

// Validator checks form structs tagged with `validate`, naming fields by
// their `form` tag and labelling messages with `label`.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.Split(f.Tag.Get("form"), ",")[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("filled", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("rupiah", func(fl validator.FieldLevel) bool {
		n, err := money.Parse(fl.Field().String())
		return err == nil && n > 0
	})
	return &Validator{v: v}
}

var defaultValidator = NewValidator()

// Validate returns nil when s passes every rule.
func Validate(s any) FieldErrors { return defaultValidator.Validate(s) }

func (x *Validator) Validate(s any) FieldErrors {
	err := x.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_": err.Error()}
	}
	out := FieldErrors{}
	t := reflect.Indirect(reflect.ValueOf(s)).Type()
	for _, fe := range verrs {
		label := fe.Field()
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			if l := sf.Tag.Get("label"); l != "" {
				label = l
			}
		}
		out[fe.Field()] = message(label, fe)
	}
	return out
}

func message(label string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "filled":
		return label + " harus diisi"
	case "rupiah":
		if strings.TrimSpace(fmt.Sprint(fe.Value())) == "" {
			return label + " harus diisi"
		}
		return label + " harus berupa angka lebih dari 0"
	case "datetime":
		return label + " tidak valid"
	case "max":
		return fmt.Sprintf("%s maksimal %s karakter", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s harus salah satu dari: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return label + " tidak valid"
	}
}
