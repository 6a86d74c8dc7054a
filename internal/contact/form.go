package contact

import (
	"regexp"
	"strings"
)

// Field names a contact form input.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldSubject Field = "subject"
	FieldMessage Field = "message"
)

// Validation messages shown next to the offending input.
const (
	MsgNameRequired    = "Name is required"
	MsgEmailRequired   = "Email is required"
	MsgEmailInvalid    = "Email is invalid"
	MsgSubjectRequired = "Subject is required"
	MsgMessageRequired = "Message is required"
)

var allFields = []Field{FieldName, FieldEmail, FieldSubject, FieldMessage}

// AllFields returns the form fields in validation order.
func AllFields() []Field {
	out := make([]Field, len(allFields))
	copy(out, allFields)
	return out
}

// ParseField maps a raw input name to a Field.
func ParseField(raw string) (Field, bool) {
	for _, f := range allFields {
		if string(f) == raw {
			return f, true
		}
	}
	return "", false
}

// Fields holds the current value of every input.
type Fields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (f Fields) Get(field Field) string {
	switch field {
	case FieldName:
		return f.Name
	case FieldEmail:
		return f.Email
	case FieldSubject:
		return f.Subject
	case FieldMessage:
		return f.Message
	}
	return ""
}

// Set assigns value to field and reports whether the field is known.
func (f *Fields) Set(field Field, value string) bool {
	switch field {
	case FieldName:
		f.Name = value
	case FieldEmail:
		f.Email = value
	case FieldSubject:
		f.Subject = value
	case FieldMessage:
		f.Message = value
	default:
		return false
	}
	return true
}

// Errors maps an invalid field to its message. A missing key means the field
// currently has no error.
type Errors map[Field]string

func (e Errors) clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// local@domain.tld with no whitespace and a single @. RE2's \s is ASCII only,
// so vertical tab, Unicode separators and BOM are excluded explicitly.
var emailPattern = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}]+$`)

// Validate checks every field and accumulates errors. It is a pure function of
// f; earlier failures never stop later checks.
func Validate(f Fields) Errors {
	errs := Errors{}

	if strings.TrimSpace(f.Name) == "" {
		errs[FieldName] = MsgNameRequired
	}

	if strings.TrimSpace(f.Email) == "" {
		errs[FieldEmail] = MsgEmailRequired
	} else if !emailPattern.MatchString(f.Email) {
		errs[FieldEmail] = MsgEmailInvalid
	}

	if strings.TrimSpace(f.Subject) == "" {
		errs[FieldSubject] = MsgSubjectRequired
	}

	if strings.TrimSpace(f.Message) == "" {
		errs[FieldMessage] = MsgMessageRequired
	}

	return errs
}
