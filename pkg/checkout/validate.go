package checkout

import (
	"regexp"
	"sort"
	"strings"

	"storefront/pkg/shop"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	telPattern   = regexp.MustCompile(`^(0[2-8]\d{7}|09\d{8})$`)
)

// Messages shown next to invalid fields.
const (
	MsgEmailRequired   = "Email is required"
	MsgEmailInvalid    = "Email format is invalid"
	MsgNameRequired    = "Recipient name is required"
	MsgTelRequired     = "Phone is required"
	MsgTelInvalid      = "Phone format is invalid"
	MsgAddressRequired = "Recipient address is required"
)

// ValidationError lists the fields that blocked a submission.
type ValidationError struct {
	Fields shop.FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid order form: " + strings.Join(names, ", ")
}

// Normalize trims the contact fields. The message is free text and kept as
// typed.
func Normalize(form shop.OrderForm) shop.OrderForm {
	form.Email = strings.TrimSpace(form.Email)
	form.Name = strings.TrimSpace(form.Name)
	form.Tel = strings.TrimSpace(form.Tel)
	form.Address = strings.TrimSpace(form.Address)
	return form
}

// Validate checks the normalized form; it returns nil when every field is
// acceptable. The message field is never checked.
func Validate(form shop.OrderForm) shop.FieldErrors {
	form = Normalize(form)
	errs := shop.FieldErrors{}

	switch email := form.Email; {
	case email == "":
		errs[shop.FieldEmail] = MsgEmailRequired
	case !emailPattern.MatchString(email):
		errs[shop.FieldEmail] = MsgEmailInvalid
	}

	if form.Name == "" {
		errs[shop.FieldName] = MsgNameRequired
	}

	switch tel := form.Tel; {
	case tel == "":
		errs[shop.FieldTel] = MsgTelRequired
	case !telPattern.MatchString(tel):
		errs[shop.FieldTel] = MsgTelInvalid
	}

	if form.Address == "" {
		errs[shop.FieldAddress] = MsgAddressRequired
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
