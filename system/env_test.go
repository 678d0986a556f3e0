package system

import (
	"testing"
)

func TestGetEnvString(t *testing.T) {
	t.Setenv("IDS_TEST_STR", "value")

	if got := GetEnvString("IDS_TEST_STR", "fallback"); got != "value" {
		t.Errorf("got %q, want value", got)
	}
	if got := GetEnvString("IDS_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("got %q, want fallback", got)
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("IDS_TEST_INT", "42")
	t.Setenv("IDS_TEST_BAD", "not-a-number")

	if got := GetEnvInt("IDS_TEST_INT", 7); got != 42 {
		t.Errorf("got %d, want 42", got)
	}
	if got := GetEnvInt("IDS_TEST_BAD", 7); got != 7 {
		t.Errorf("got %d, want default 7", got)
	}
	if got := GetEnvInt("IDS_TEST_MISSING", 7); got != 7 {
		t.Errorf("got %d, want default 7", got)
	}
}
