package env

import "testing"

func TestGetFallsBackWhenUnset(t *testing.T) {
	t.Setenv("NOTICES_TEST_ENV_KEY", "")
	if got := Get("NOTICES_TEST_ENV_KEY", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %q", got)
	}

	t.Setenv("NOTICES_TEST_ENV_KEY", "value")
	if got := Get("NOTICES_TEST_ENV_KEY", "fallback"); got != "value" {
		t.Fatalf("expected value, got %q", got)
	}
}

func TestGetBool(t *testing.T) {
	t.Setenv("NOTICES_TEST_BOOL_KEY", "true")
	if !GetBool("NOTICES_TEST_BOOL_KEY", false) {
		t.Fatal("expected true")
	}

	t.Setenv("NOTICES_TEST_BOOL_KEY", "notabool")
	if GetBool("NOTICES_TEST_BOOL_KEY", true) != true {
		t.Fatal("expected fallback on unparsable value")
	}
}
