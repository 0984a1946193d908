// Package config loads engine settings from the process environment.
// Config structs declare their variables with env tags under the
// ANTARIA_GAMES_ prefix; FromEnv applies the tagged defaults first and
// then overrides from whatever is set.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
)

// FromEnv fills target, a pointer to a tagged config struct, from
// environment variables.
func FromEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("load config from environment: %w", err)
	}
	return nil
}

// Exitf writes a fatal startup error to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
