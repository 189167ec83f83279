package result

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestFieldErrorAcceptsStringAndObject(t *testing.T) {
	var got []FieldError
	payload := `["password too short", {"field":"email","defaultMessage":"invalid email"}, {"field":"username","message":"taken"}]`
	if err := json.Unmarshal([]byte(payload), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []FieldError{
		{Message: "password too short"},
		{Field: "email", Message: "invalid email"},
		{Field: "username", Message: "taken"},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestUnwrap(t *testing.T) {
	ok := OK(42)
	v, err := ok.Unwrap()
	if err != nil || v != 42 {
		t.Fatalf("expected 42/nil, got %d/%v", v, err)
	}

	cause := errors.New("boom")
	failed := Fail[int](cause, "登录失败", nil)
	if _, err := failed.Unwrap(); !errors.Is(err, cause) {
		t.Fatalf("expected cause, got %v", err)
	}

	bare := Result[int]{Message: "nope"}
	if _, err := bare.Unwrap(); err == nil || err.Error() != "nope" {
		t.Fatalf("expected message error, got %v", err)
	}
}

func TestExistsUnknownOnFailure(t *testing.T) {
	if exists, known := Exists(Fail[bool](errors.New("x"), "检查用户名失败", nil)); exists || known {
		t.Fatalf("failed probe must be unknown, got exists=%v known=%v", exists, known)
	}
	if exists, known := Exists(OK(false)); exists || !known {
		t.Fatalf("expected known=false exists, got exists=%v known=%v", exists, known)
	}
	if exists, known := Exists(OK(true)); !exists || !known {
		t.Fatalf("expected known=true exists, got exists=%v known=%v", exists, known)
	}
}
