package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"medquest/internal/domain"
	"medquest/internal/util"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt ignores anything longer
	MaxUsernameLength = 40
	MaxMessageLength  = 2000
	MaxAnswerLength   = 100
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRegisterRequest validates a new account.
func (v *Validator) ValidateRegisterRequest(email, password, username string) domain.ValidationErrors {
	var errors domain.ValidationErrors

	errors = append(errors, v.validateEmail(email)...)

	if password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	} else if n := utf8.RuneCountInString(password); n < MinPasswordLength || len(password) > MaxPasswordLength {
		errors = append(errors, domain.NewOutOfRangeError("password", n, MinPasswordLength, MaxPasswordLength))
	}

	if n := utf8.RuneCountInString(username); n > MaxUsernameLength {
		errors = append(errors, domain.NewOutOfRangeError("username", n, 0, MaxUsernameLength))
	}

	return errors
}

// ValidateLoginRequest only checks presence; wrong credentials are an auth failure.
func (v *Validator) ValidateLoginRequest(email, password string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(email) == "" {
		errors = append(errors, domain.NewMissingFieldError("email"))
	}
	if password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	}
	return errors
}

// ValidateChatID validates a chat id path parameter
func (v *Validator) ValidateChatID(chatID string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(chatID) == "" {
		errors = append(errors, domain.NewMissingFieldError("chat_id"))
	} else if !isValidULID(chatID) {
		errors = append(errors, domain.NewInvalidFormatError("chat_id", chatID))
	}
	return errors
}

// ValidateMessageContent validates a doctor's question
func (v *Validator) ValidateMessageContent(content string) domain.ValidationErrors {
	return validateText("content", content, MaxMessageLength)
}

// ValidateAnswer validates the final diagnosis
func (v *Validator) ValidateAnswer(answer string) domain.ValidationErrors {
	return validateText("answer", answer, MaxAnswerLength)
}

// ValidateLimit checks an optional limit query parameter. Zero means unset.
func (v *Validator) ValidateLimit(limit, max int) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if limit < 0 || limit > max {
		errors = append(errors, domain.NewOutOfRangeError("limit", limit, 1, max))
	}
	return errors
}

func (v *Validator) validateEmail(email string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	email = strings.TrimSpace(email)
	if email == "" {
		return append(errors, domain.NewMissingFieldError("email"))
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		errors = append(errors, domain.NewInvalidFormatError("email", email))
	}
	return errors
}

func validateText(field, s string, max int) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(s) == "" {
		errors = append(errors, domain.NewMissingFieldError(field))
	} else if n := utf8.RuneCountInString(s); n > max {
		errors = append(errors, domain.NewOutOfRangeError(field, n, 1, max))
	}
	return errors
}

// isValidULID rejects anything that is not canonical 26-char upper-case Crockford.
func isValidULID(s string) bool {
	return len(s) == 26 && s == strings.ToUpper(s) && util.IsULID(s)
}
