package validation

import (
	"strings"
	"testing"

	"medquest/internal/domain"

	"github.com/stretchr/testify/assert"
)

func codes(errs domain.ValidationErrors) map[string]domain.ErrorCode {
	out := make(map[string]domain.ErrorCode, len(errs))
	for _, e := range errs {
		out[e.Field] = e.Code
	}
	return out
}

func TestValidateRegisterRequest(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name     string
		email    string
		password string
		username string
		want     map[string]domain.ErrorCode
	}{
		{"valid", "house@ppth.org", "vicodin123", "ghouse", map[string]domain.ErrorCode{}},
		{"valid without username", "house@ppth.org", "vicodin123", "", map[string]domain.ErrorCode{}},
		{"missing email", "", "vicodin123", "", map[string]domain.ErrorCode{"email": domain.CodeMissingField}},
		{"bad email", "house-at-ppth", "vicodin123", "", map[string]domain.ErrorCode{"email": domain.CodeInvalidFormat}},
		{"email without domain dot", "house@localhost", "vicodin123", "", map[string]domain.ErrorCode{"email": domain.CodeInvalidFormat}},
		{"display name email", "Greg <house@ppth.org>", "vicodin123", "", map[string]domain.ErrorCode{"email": domain.CodeInvalidFormat}},
		{"short password", "house@ppth.org", "short", "", map[string]domain.ErrorCode{"password": domain.CodeOutOfRange}},
		{"missing password", "house@ppth.org", "", "", map[string]domain.ErrorCode{"password": domain.CodeMissingField}},
		{"long username", "house@ppth.org", "vicodin123", strings.Repeat("a", 41), map[string]domain.ErrorCode{"username": domain.CodeOutOfRange}},
		{"everything wrong", "", "", strings.Repeat("a", 41), map[string]domain.ErrorCode{
			"email": domain.CodeMissingField, "password": domain.CodeMissingField, "username": domain.CodeOutOfRange,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codes(v.ValidateRegisterRequest(tt.email, tt.password, tt.username)))
		})
	}
}

func TestValidateLoginRequest(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.ValidateLoginRequest("a@b.c", "x"))
	assert.Len(t, v.ValidateLoginRequest(" ", ""), 2)
}

func TestValidateChatID(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.ValidateChatID("01HZX3Q7ZK6T8E2M9V4N5R1BCD"))
	assert.Equal(t, domain.CodeMissingField, v.ValidateChatID("")[0].Code)
	assert.Equal(t, domain.CodeInvalidFormat, v.ValidateChatID("42")[0].Code)
	assert.Equal(t, domain.CodeInvalidFormat, v.ValidateChatID("01HZX3Q7ZK6T8E2M9V4N5R1BCU")[0].Code, "U is not crockford base32")
}

func TestValidateAnswerAndContent(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateAnswer("Influenza"))
	assert.Equal(t, domain.CodeMissingField, v.ValidateAnswer("   ")[0].Code)
	assert.Equal(t, domain.CodeOutOfRange, v.ValidateAnswer(strings.Repeat("x", MaxAnswerLength+1))[0].Code)
	assert.Empty(t, v.ValidateAnswer(strings.Repeat("é", MaxAnswerLength)), "length counts runes")

	assert.Empty(t, v.ValidateMessageContent("Where does it hurt?"))
	assert.Equal(t, domain.CodeMissingField, v.ValidateMessageContent("")[0].Code)
	assert.Equal(t, domain.CodeOutOfRange, v.ValidateMessageContent(strings.Repeat("x", MaxMessageLength+1))[0].Code)
}

func TestValidateLimit(t *testing.T) {
	v := NewValidator()
	assert.Empty(t, v.ValidateLimit(0, 100))
	assert.Empty(t, v.ValidateLimit(100, 100))
	assert.Len(t, v.ValidateLimit(101, 100), 1)
	assert.Len(t, v.ValidateLimit(-1, 100), 1)
}
