package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{"bob", "alice_2", "a.b-c", strings.Repeat("x", 20)}
	for _, u := range valid {
		assert.NoError(t, ValidateUsername(u), u)
	}

	invalid := []string{"", "ab", strings.Repeat("x", 21), "has space", "semi;colon", "tilde~"}
	for _, u := range invalid {
		assert.Error(t, ValidateUsername(u), u)
	}
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("alice@example.com"))
	assert.NoError(t, ValidateEmail("a+tag@sub.example.org"))

	invalid := []string{"", "plainstring", "@example.com", "a@", strings.Repeat("x", 250) + "@e.co"}
	for _, e := range invalid {
		assert.Error(t, ValidateEmail(e), e)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("12345678"))
	assert.NoError(t, ValidatePassword(strings.Repeat("x", 72)))

	assert.Error(t, ValidatePassword("1234567"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", 73)))
}

func TestValidateProjectName(t *testing.T) {
	assert.NoError(t, ValidateProjectName("abc"))
	assert.NoError(t, ValidateProjectName("my project with spaces"))

	assert.Error(t, ValidateProjectName("ab"))
	assert.Error(t, ValidateProjectName("   "))
	assert.Error(t, ValidateProjectName(strings.Repeat("x", 101)))
}
