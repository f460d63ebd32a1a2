package util

import (
	"reflect"
	"testing"
)

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name  string
		value string
		set   bool
		want  int
	}{
		{"unset", "", false, 8},
		{"valid", "12", true, 12},
		{"float truncated", "3.7", true, 3},
		{"malformed", "many", true, 8},
		{"zero", "0", true, 8},
		{"negative", "-4", true, 8},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.set {
				t.Setenv("NEURIX_TEST_INT", tc.value)
			}
			if got := GetEnvInt("NEURIX_TEST_INT", 8); got != tc.want {
				t.Fatalf("GetEnvInt() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	t.Setenv("NEURIX_TEST_BOOL", "true")
	if !GetEnvBool("NEURIX_TEST_BOOL", false) {
		t.Fatalf("expected true")
	}
	t.Setenv("NEURIX_TEST_BOOL", "yes")
	if GetEnvBool("NEURIX_TEST_BOOL", false) {
		t.Fatalf("unrecognised values must fall back to the default")
	}
}

func TestGetEnvString(t *testing.T) {
	t.Setenv("NEURIX_TEST_STRING", "")
	if got := GetEnvString("NEURIX_TEST_STRING", "memory"); got != "memory" {
		t.Fatalf("blank value must fall back to the default, got %q", got)
	}
	t.Setenv("NEURIX_TEST_STRING", "postgres")
	if got := GetEnvString("NEURIX_TEST_STRING", "memory"); got != "postgres" {
		t.Fatalf("GetEnvString() = %q", got)
	}
}

func TestMissingEnv(t *testing.T) {
	t.Setenv("NEURIX_TEST_SET", "value")
	t.Setenv("NEURIX_TEST_BLANK", "  ")

	got := MissingEnv("NEURIX_TEST_SET", "NEURIX_TEST_BLANK", "NEURIX_TEST_UNSET_KEY")
	want := []string{"NEURIX_TEST_BLANK", "NEURIX_TEST_UNSET_KEY"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MissingEnv() = %#v, want %#v", got, want)
	}
	if MissingEnv("NEURIX_TEST_SET") != nil {
		t.Fatalf("expected no missing keys")
	}
}
