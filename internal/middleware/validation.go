package middleware

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Validation limits.
const (
	// MaxQuestionLength is the maximum question length in characters.
	MaxQuestionLength = 2000

	// MaxFormTypeLength is the maximum length of a form type.
	MaxFormTypeLength = 32

	// MaxTokenLength bounds bearer and verification tokens.
	MaxTokenLength = 2048
)

// Validation errors.
var (
	ErrQuestionTooLong = errors.New("question exceeds maximum length")
	ErrQuestionInvalid = errors.New("question contains control characters")
	ErrLanguageInvalid = errors.New("language must be a two-letter code")
	ErrFormTypeInvalid = errors.New("form type contains invalid characters")
	ErrTokenTooLong    = errors.New("token exceeds maximum length")
	ErrTokenInvalid    = errors.New("token contains invalid characters")
	ErrInvalidUTF8     = errors.New("input is not valid UTF-8")
)

// languagePattern matches an ISO 639-1 style code.
var languagePattern = regexp.MustCompile(`^[a-zA-Z]{2}$`)

// formTypePattern matches form type identifiers such as FIR or RTI.
var formTypePattern = regexp.MustCompile(`^[a-zA-Z_]+$`)

// tokenPattern matches compact JWS serialization.
var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9_\-]+\.[A-Za-z0-9_\-]+\.[A-Za-z0-9_\-]+$`)

// ValidateQuestion rejects oversized input and control characters other
// than ordinary whitespace. Blank questions are allowed and answered with a
// clarification prompt.
func ValidateQuestion(q string) error {
	if !utf8.ValidString(q) {
		return ErrInvalidUTF8
	}
	if utf8.RuneCountInString(q) > MaxQuestionLength {
		return ErrQuestionTooLong
	}
	for _, r := range q {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			return ErrQuestionInvalid
		}
	}
	return nil
}

// ValidateLanguage accepts "" (detect from the question) or a two-letter code.
// Unsupported but well-formed codes are accepted and later mapped to English.
func ValidateLanguage(code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}
	if !languagePattern.MatchString(code) {
		return ErrLanguageInvalid
	}
	return nil
}

// ValidateFormType checks the shape of a form type; whether a template exists
// is decided by the form service.
func ValidateFormType(formType string) error {
	formType = strings.TrimSpace(formType)
	if formType == "" || len(formType) > MaxFormTypeLength || !formTypePattern.MatchString(formType) {
		return ErrFormTypeInvalid
	}
	return nil
}

// ValidateToken checks the shape of a token before it is parsed.
func ValidateToken(token string) error {
	if len(token) > MaxTokenLength {
		return ErrTokenTooLong
	}
	if !tokenPattern.MatchString(token) {
		return ErrTokenInvalid
	}
	return nil
}
