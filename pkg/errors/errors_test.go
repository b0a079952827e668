package errors

import (
	stderrors "errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := New(ErrCodeNodeNotFound, "node %q does not exist", "orders")
	want := `NODE_NOT_FOUND: node "orders" does not exist`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestError_WithNames(t *testing.T) {
	err := WithNames(ErrCodeInvalidSelection, []string{"raw_users", "daily_metrics"}, "selection contains non-pipeline entries")
	got := err.Error()
	if !strings.Contains(got, "raw_users, daily_metrics") {
		t.Errorf("Error() = %q, want offending names listed", got)
	}
	if names := GetNames(err); len(names) != 2 {
		t.Errorf("GetNames() = %v, want 2 names", names)
	}
}

func TestError_Wrap(t *testing.T) {
	cause := stderrors.New("unexpected end of JSON input")
	err := Wrap(ErrCodeConfigDecode, cause, "parse document")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if !strings.Contains(err.Error(), "unexpected end of JSON input") {
		t.Errorf("Error() = %q, want cause included", err.Error())
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeConfigInvalid, "missing pipelines array")

	if !Is(err, ErrCodeConfigInvalid) {
		t.Error("Is() should match the error's own code")
	}
	if Is(err, ErrCodeNodeNotFound) {
		t.Error("Is() should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeConfigInvalid) {
		t.Error("Is() should not match a plain error")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeMissingLink, "x")); got != ErrCodeMissingLink {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeMissingLink)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := WithNames(ErrCodeMissingLink, []string{"user-enrichment"}, "pipelines missing airflow link")
	got := UserMessage(err)
	if strings.Contains(got, string(ErrCodeMissingLink)) {
		t.Errorf("UserMessage() = %q, want no code prefix", got)
	}
	if !strings.Contains(got, "user-enrichment") {
		t.Errorf("UserMessage() = %q, want offending name included", got)
	}
}
