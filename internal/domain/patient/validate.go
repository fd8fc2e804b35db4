package patient

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError names the field that failed and why. It is returned
// before any store mutation takes place.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the validate tags on s and reports the first failure.
func validateStruct(s interface{}) error {
	return translate("", validate.Struct(s))
}

// validateVar checks a single value against tag, reporting it as field.
func validateVar(field string, value interface{}, tag string) error {
	return translate(field, validate.Var(value, tag))
}

func translate(field string, err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate: %w", err)
	}
	fe := verrs[0]
	if field == "" {
		field = fe.Namespace()
		// Drop the struct type prefix: "PatientDto.email" -> "email".
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
	}
	return invalid(field, reasonFor(fe.Tag(), fe.Param()))
}

func reasonFor(tag, param string) string {
	switch tag {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "email":
		return "must be a valid email address"
	case "datetime":
		return "must be a date formatted as " + param
	default:
		return "failed " + tag + " check"
	}
}

// -- entity rules enforced by the repositories --

func validatePatient(p *Patient) error {
	if err := validateVar("first_name", p.FirstName, "notblank"); err != nil {
		return err
	}
	if err := validateVar("last_name", p.LastName, "notblank"); err != nil {
		return err
	}
	return validateVar("email", p.Email, "required,email")
}

func validateHospital(h *Hospital) error {
	return validateVar("name", h.Name, "notblank")
}

func validateVisit(v *Visit) error {
	if v.Date.IsZero() {
		return invalid("date", "is required")
	}
	return nil
}
