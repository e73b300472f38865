package validation

import (
	"errors"
	"regexp"
	"strings"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ValidateUsername validates a login name: 3-20 characters, word characters only
func ValidateUsername(username string) error {
	trimmed := strings.TrimSpace(username)

	if len(trimmed) < 3 {
		return errors.New("username must be at least 3 characters")
	}

	if len(trimmed) > 20 {
		return errors.New("username is too long (max 20 characters)")
	}

	if !usernamePattern.MatchString(trimmed) {
		return errors.New("username may only contain letters, digits, '_', '.' and '-'")
	}

	return nil
}

// ValidateProjectName validates a project name: at least 3 characters after trimming
func ValidateProjectName(name string) error {
	trimmed := strings.TrimSpace(name)

	if len(trimmed) < 3 {
		return errors.New("project name must be at least 3 characters")
	}

	if len(trimmed) > 100 {
		return errors.New("project name is too long (max 100 characters)")
	}

	return nil
}
