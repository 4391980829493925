package employee

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var birthDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// fieldMessages holds the client-facing message for each JSON field.
var fieldMessages = map[string]string{
	"id":         "Invalid UUID",
	"fullName":   "Full Name is required",
	"avatar":     "Avatar must be a valid URL",
	"department": "Department is required",
	"birthDate":  "Birth Date must be in YYYY-MM-DD format",
	"salary":     "Salary must be a positive number",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Shape only: 2024-02-31 passes.
	if err := v.RegisterValidation("birthdate", func(fl validator.FieldLevel) bool {
		return birthDatePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// Draft is the create payload. Salary is a pointer so that a missing value
// is distinguishable from zero.
type Draft struct {
	ID         string   `json:"id,omitempty" validate:"omitempty,uuid"`
	FullName   string   `json:"fullName" validate:"required,min=2"`
	Avatar     string   `json:"avatar" validate:"required,url"`
	Department string   `json:"department" validate:"required,min=2"`
	BirthDate  string   `json:"birthDate" validate:"required,birthdate"`
	Salary     *float64 `json:"salary" validate:"required,min=0"`
}

// Employee converts a validated draft into a record.
func (d Draft) Employee() Employee {
	e := Employee{
		ID:         d.ID,
		FullName:   d.FullName,
		Avatar:     d.Avatar,
		Department: d.Department,
		BirthDate:  d.BirthDate,
	}
	if d.Salary != nil {
		e.Salary = *d.Salary
	}
	return e
}

// Validate checks every rule of the create schema.
func (d Draft) Validate() error {
	return toValidationError(validate.Struct(d))
}

// Validate checks the rules of the fields present in the patch.
func (p Patch) Validate() error {
	return toValidationError(validate.Struct(p))
}

// Issue is one failed rule, reported against a JSON field name.
type Issue struct {
	Field   string
	Message string
}

// ValidationError is returned when a request payload fails the schema.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return strings.Join(parts, "; ")
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Issues: []Issue{{Field: field, Message: message}}}
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{Issues: make([]Issue, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = "failed " + fe.Tag() + " check"
		}
		out.Issues = append(out.Issues, Issue{Field: fe.Field(), Message: msg})
	}
	return out
}
