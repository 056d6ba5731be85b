// Package contact turns the site's enquiry form into a mailto link.
package contact

import (
	"errors"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultRecipient receives enquiries when no recipient is configured.
const DefaultRecipient = "hello@brightsteps.example"

// Form is the submitted enquiry.
type Form struct {
	Name    string `validate:"required,max=100"`
	Email   string `validate:"required,email"`
	Message string `validate:"required,max=4000"`
}

// ErrInvalid marks a form that failed validation.
var ErrInvalid = errors.New("contact: invalid form")

var fieldMessages = map[string]string{
	"required": "This field is required",
	"email":    "Enter a valid email address",
	"max":      "This field is too long",
}

// Validate checks the form and returns a message per failing field, keyed by field name.
func Validate(v *validator.Validate, f Form) map[string]string {
	errs := make(map[string]string)
	err := v.Struct(f)
	if err == nil {
		return errs
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs["general"] = err.Error()
		return errs
	}
	for _, fieldErr := range fieldErrs {
		msg, ok := fieldMessages[fieldErr.Tag()]
		if !ok {
			msg = fieldErr.Error()
		}
		errs[fieldErr.Field()] = msg
	}
	return errs
}

// Normalize trims surrounding whitespace from every field.
func (f Form) Normalize() Form {
	return Form{
		Name:    strings.TrimSpace(f.Name),
		Email:   strings.TrimSpace(f.Email),
		Message: strings.TrimSpace(f.Message),
	}
}

// Subject is the mail subject line for f.
func (f Form) Subject() string {
	return "Website enquiry from " + f.Name
}

// Body is the mail body for f.
func (f Form) Body() string {
	return f.Message + "\n\nFrom: " + f.Name + " <" + f.Email + ">"
}

// Compose returns the mailto URI for f addressed to recipient.
func Compose(recipient string, f Form) string {
	if recipient == "" {
		recipient = DefaultRecipient
	}
	return "mailto:" + recipient + "?subject=" + escape(f.Subject()) + "&body=" + escape(f.Body())
}

// escape percent-encodes s for a mailto header value. Spaces become %20 since
// mail clients do not decode '+'.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
