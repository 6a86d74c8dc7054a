package contact

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateEmptyForm(t *testing.T) {
	got := Validate(Fields{})
	want := Errors{
		FieldName:    MsgNameRequired,
		FieldEmail:   MsgEmailRequired,
		FieldSubject: MsgSubjectRequired,
		FieldMessage: MsgMessageRequired,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidatePartialForm(t *testing.T) {
	got := Validate(Fields{Name: "Jane", Email: "bad", Subject: "", Message: "hi"})
	want := Errors{
		FieldEmail:   MsgEmailInvalid,
		FieldSubject: MsgSubjectRequired,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateWhitespaceOnlyIsRequired(t *testing.T) {
	got := Validate(Fields{Name: "  ", Email: "\t", Subject: "\n", Message: " \r\n "})
	if len(got) != 4 {
		t.Fatalf("expected 4 errors, got %v", got)
	}
	if got[FieldEmail] != MsgEmailRequired {
		t.Fatalf("blank email should be required, got %q", got[FieldEmail])
	}
}

func TestValidateEmailShapes(t *testing.T) {
	cases := []struct {
		email string
		want  string
	}{
		{"a@b.co", ""},
		{"first.last@sub.example.org", ""},
		{"a@b", MsgEmailInvalid},
		{"a b@c.com", MsgEmailInvalid},
		{"ac.com", MsgEmailInvalid},
		{"a@@b.com", MsgEmailInvalid},
		{"a@b@c.com", MsgEmailInvalid},
		{" a@b.co", MsgEmailInvalid},
		{"a@b.", MsgEmailInvalid},
		{"@b.co", MsgEmailInvalid},
		{"a\vb@c.com", MsgEmailInvalid},
		{"a\u00a0b@c.com", MsgEmailInvalid},
		{"\u00a0a@b.co", MsgEmailInvalid},
		{"a@b.c\u3000om", MsgEmailInvalid},
		{"a@b\u2028.com", MsgEmailInvalid},
		{"a\ufeff@b.co", MsgEmailInvalid},
		{"jos\u00e9@caf\u00e9.fr", ""},
	}
	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			errs := Validate(Fields{Name: "n", Email: tc.email, Subject: "s", Message: "m"})
			if got := errs[FieldEmail]; got != tc.want {
				t.Fatalf("Validate(%q) email error = %q, want %q", tc.email, got, tc.want)
			}
		})
	}
}

func TestFieldsGetSet(t *testing.T) {
	var f Fields
	for _, field := range AllFields() {
		if !f.Set(field, string(field)+"-value") {
			t.Fatalf("Set(%q) reported unknown field", field)
		}
	}
	for _, field := range AllFields() {
		if got := f.Get(field); got != string(field)+"-value" {
			t.Fatalf("Get(%q) = %q", field, got)
		}
	}
	if f.Set("phone", "x") {
		t.Fatalf("Set accepted unknown field")
	}
}

func TestParseField(t *testing.T) {
	if f, ok := ParseField("subject"); !ok || f != FieldSubject {
		t.Fatalf("ParseField(subject) = %q, %v", f, ok)
	}
	if _, ok := ParseField("Subject"); ok {
		t.Fatalf("ParseField should be case sensitive")
	}
}
