package utils

import (
	"fmt"
	"io"
	"os"
)

// ShowError prints a formatted error box to stderr without exiting.
func ShowError(context string, err error) {
	writeError(os.Stderr, context, err)
}

// Die is the unified exit strategy for faceid.
// It prints the same error box as ShowError and exits with status 1.
func Die(context string, err error) {
	writeError(os.Stderr, context, err)
	os.Exit(1)
}

func writeError(w io.Writer, context string, err error) {
	fmt.Fprintf(w, "\n---------------------------------------------------------\n")
	fmt.Fprintf(w, "🚨 FACEID ERROR: %s\n", context)
	if err != nil {
		fmt.Fprintf(w, "DETAILS: %v\n", err)
	}
	fmt.Fprintf(w, "---------------------------------------------------------\n")
}

// EnvOr returns the value of the environment variable key, or def when it is unset or empty.
func EnvOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// PostgresURLFromEnv builds a connection string from the POSTGRES_* variables.
// It returns "" when POSTGRES_HOST is not set.
func PostgresURLFromEnv() string {
	host := os.Getenv("POSTGRES_HOST")
	if host == "" {
		return ""
	}
	user := os.Getenv("POSTGRES_USER")
	pass := os.Getenv("POSTGRES_PASSWORD")
	name := os.Getenv("POSTGRES_DB")
	port := EnvOr("POSTGRES_PORT", "5432")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, pass, host, port, name)
}
