package envutil

import (
	"testing"
	"time"
)

func TestGetEnvFallsBackToDefault(t *testing.T) {
	if got := GetEnv("ORDERDESK_TEST_MISSING", "fallback", nil); got != "fallback" {
		t.Fatalf("GetEnv: want=fallback got=%q", got)
	}
}

func TestGetEnvAsIntParsesAndFallsBack(t *testing.T) {
	t.Setenv("ORDERDESK_TEST_INT", "42")
	if got := GetEnvAsInt("ORDERDESK_TEST_INT", 1, nil); got != 42 {
		t.Fatalf("GetEnvAsInt: want=42 got=%d", got)
	}
	t.Setenv("ORDERDESK_TEST_INT", "forty")
	if got := GetEnvAsInt("ORDERDESK_TEST_INT", 7, nil); got != 7 {
		t.Fatalf("GetEnvAsInt invalid: want=7 got=%d", got)
	}
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("ORDERDESK_TEST_BOOL", "true")
	if !GetEnvAsBool("ORDERDESK_TEST_BOOL", false, nil) {
		t.Fatalf("GetEnvAsBool: expected true")
	}
	t.Setenv("ORDERDESK_TEST_BOOL", "nope")
	if GetEnvAsBool("ORDERDESK_TEST_BOOL", false, nil) {
		t.Fatalf("GetEnvAsBool invalid: expected default false")
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("ORDERDESK_TEST_DUR", "250")
	if got := GetEnvAsDuration("ORDERDESK_TEST_DUR", time.Second, nil); got != 250*time.Millisecond {
		t.Fatalf("GetEnvAsDuration ms: got=%s", got)
	}
	t.Setenv("ORDERDESK_TEST_DUR", "2s")
	if got := GetEnvAsDuration("ORDERDESK_TEST_DUR", time.Second, nil); got != 2*time.Second {
		t.Fatalf("GetEnvAsDuration: got=%s", got)
	}
}

func TestGetEnvAsList(t *testing.T) {
	t.Setenv("ORDERDESK_TEST_LIST", " a, ,b ,c")
	got := GetEnvAsList("ORDERDESK_TEST_LIST", nil, nil)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("GetEnvAsList: got=%v", got)
	}
}
