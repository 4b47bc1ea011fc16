package server

import (
	"errors"
	"fmt"
	"strings"
)

const (
	maxNameLength  = 20
	maxEmailLength = 254
	joinCodeLength = 6
)

func validateName(name string) (string, error) {
	trimmed := normalizeText(name)
	if trimmed == "" {
		return "", errors.New("name is required")
	}
	if len(trimmed) > maxNameLength {
		return "", fmt.Errorf("name must be %d characters or fewer", maxNameLength)
	}
	if !isSafeText(trimmed) {
		return "", errors.New("name contains unsupported characters")
	}
	return trimmed, nil
}

func validateEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) > maxEmailLength {
		return "", fmt.Errorf("email must be %d characters or fewer", maxEmailLength)
	}
	if !strings.Contains(trimmed, "@") {
		return "", errors.New("email is not valid")
	}
	return trimmed, nil
}

func validateJoinCode(code string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if len(normalized) != joinCodeLength {
		return "", fmt.Errorf("join code must be %d characters", joinCodeLength)
	}
	for _, r := range normalized {
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '2' && r <= '9' {
			continue
		}
		return "", errors.New("join code contains unsupported characters")
	}
	return normalized, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

func isSafeText(text string) bool {
	for _, r := range text {
		if r > 127 {
			return false
		}
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		switch r {
		case ' ', '-', '_', '\'', '.':
			continue
		default:
			return false
		}
	}
	return true
}
