package resource

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// MsgRequired is shown when a required form field is empty.
const MsgRequired = "All fields are required"

// validate is shared; a *validator.Validate caches struct metadata and is
// safe for concurrent use.
var validate = validator.New()

// ValidationError rejects a form before any request is issued.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError for the given fields.
func Invalid(msg string, fields ...string) *ValidationError {
	return &ValidationError{Fields: fields, Message: msg}
}

// CheckVar validates a single value against a validator tag, e.g.
// "gte=0,lte=100", and reports failure as a ValidationError on field.
func CheckVar(field string, value any, tag, msg string) error {
	if err := validate.Var(value, tag); err != nil {
		return Invalid(msg, field)
	}
	return nil
}

func (c *Controller[T]) validate(form Form) error {
	return validateForm(form, c.cfg.Required, c.cfg.Check)
}

func validateForm(form Form, required []string, check func(Form) error) error {
	var missing []string
	for _, field := range required {
		if err := validate.Var(strings.TrimSpace(form[field]), "required"); err != nil {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return Invalid(MsgRequired, missing...)
	}
	if check != nil {
		return check(form)
	}
	return nil
}
