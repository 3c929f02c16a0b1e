package utils

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	writeError(&buf, "Signup failed", errors.New("connection refused"))

	out := buf.String()
	if !strings.Contains(out, "🚨 FACEID ERROR: Signup failed") {
		t.Errorf("missing context line in %q", out)
	}
	if !strings.Contains(out, "DETAILS: connection refused") {
		t.Errorf("missing details line in %q", out)
	}

	// A nil error prints only the context
	buf.Reset()
	writeError(&buf, "No frame", nil)
	if strings.Contains(buf.String(), "DETAILS") {
		t.Errorf("unexpected details for nil error: %q", buf.String())
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("FACEID_TEST_VAR", "")
	if got := EnvOr("FACEID_TEST_VAR", "fallback"); got != "fallback" {
		t.Errorf("EnvOr with empty var = %q, want fallback", got)
	}

	t.Setenv("FACEID_TEST_VAR", "set")
	if got := EnvOr("FACEID_TEST_VAR", "fallback"); got != "set" {
		t.Errorf("EnvOr with set var = %q, want set", got)
	}
}

func TestPostgresURLFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "No host",
			env:  map[string]string{"POSTGRES_HOST": ""},
			want: "",
		},
		{
			name: "Default port",
			env: map[string]string{
				"POSTGRES_HOST":     "db",
				"POSTGRES_USER":     "faceid",
				"POSTGRES_PASSWORD": "secret",
				"POSTGRES_DB":       "journal",
				"POSTGRES_PORT":     "",
			},
			want: "postgres://faceid:secret@db:5432/journal",
		},
		{
			name: "Explicit port",
			env: map[string]string{
				"POSTGRES_HOST":     "db",
				"POSTGRES_USER":     "u",
				"POSTGRES_PASSWORD": "p",
				"POSTGRES_DB":       "d",
				"POSTGRES_PORT":     "6543",
			},
			want: "postgres://u:p@db:6543/d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if got := PostgresURLFromEnv(); got != tt.want {
				t.Errorf("PostgresURLFromEnv() = %q, want %q", got, tt.want)
			}
		})
	}
}
