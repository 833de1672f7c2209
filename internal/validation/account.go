package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"uniconnect/internal/models"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	digitRegex = regexp.MustCompile(`[0-9]`)
)

// ValidatePassword checks if a password meets the signup requirements
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	// Check maximum length (prevent unreasonable inputs)
	if len(password) > 72 {
		return fmt.Errorf("password must not exceed 72 characters")
	}

	hasLetter := false
	for _, r := range password {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return fmt.Errorf("password must contain at least one letter")
	}

	if !digitRegex.MatchString(password) {
		return fmt.Errorf("password must contain at least one digit")
	}

	return nil
}

// ValidateDisplayName checks the name shown on posts and comments.
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return fmt.Errorf("name must be at least 2 characters long")
	}
	if len(name) > 80 {
		return fmt.Errorf("name must not exceed 80 characters")
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateRole accepts only the selectable roles.
func ValidateRole(role string) (models.Role, error) {
	r := models.Role(strings.ToLower(strings.TrimSpace(role)))
	if !r.Valid() {
		return models.RoleNone, fmt.Errorf("role must be one of student, professor or investor")
	}
	return r, nil
}

// ValidateProfile checks the role-specific section of a profile update.
func ValidateProfile(role models.Role, p models.Profile) error {
	switch role {
	case models.RoleStudent:
		if p.Professor != nil || p.Investor != nil {
			return fmt.Errorf("students can only update student profile fields")
		}
		if s := p.Student; s != nil && s.GraduationYear != 0 && (s.GraduationYear < 1950 || s.GraduationYear > 2100) {
			return fmt.Errorf("graduation year %d is out of range", s.GraduationYear)
		}
	case models.RoleProfessor:
		if p.Student != nil || p.Investor != nil {
			return fmt.Errorf("professors can only update professor profile fields")
		}
	case models.RoleInvestor:
		if p.Student != nil || p.Professor != nil {
			return fmt.Errorf("investors can only update investor profile fields")
		}
		if inv := p.Investor; inv != nil {
			if inv.MinInvestment < 0 || inv.MaxInvestment < 0 {
				return fmt.Errorf("investment bounds must not be negative")
			}
			if inv.MaxInvestment != 0 && inv.MinInvestment > inv.MaxInvestment {
				return fmt.Errorf("minimum investment exceeds maximum investment")
			}
		}
	default:
		return fmt.Errorf("select a role before editing the profile")
	}
	return nil
}
