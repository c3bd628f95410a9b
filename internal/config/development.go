package config

import (
	"os"
	"strings"
)

// Development reports whether DEVELOPMENT is set to anything but an empty
// string, "0" or "false".
func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(development)) {
	case "", "0", "false":
		return false
	}
	return true
}
