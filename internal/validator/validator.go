package validator

import (
	"errors"
	"regexp"

	"bizos/internal/models"
)

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidTenant      = errors.New("invalid tenant id")
	ErrInvalidQuestCode   = errors.New("invalid quest code")
	ErrInvalidQuestPeriod = errors.New("invalid quest period")
)

var (
	emailRegex     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernameRegex  = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
	tenantRegex    = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,62}$`)
	questCodeRegex = regexp.MustCompile(`^[A-Z0-9_]{2,64}$`)
)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

func ValidateTenantID(tenantID string) error {
	if !tenantRegex.MatchString(tenantID) {
		return ErrInvalidTenant
	}
	return nil
}

// Quest codes are upper-snake identifiers (e.g. DAILY_LOGIN); they end up
// verbatim in ledger reasons as "quest:<code>".
func ValidateQuestCode(code string) error {
	if !questCodeRegex.MatchString(code) {
		return ErrInvalidQuestCode
	}
	return nil
}

func ValidateQuestPeriod(period string) error {
	switch period {
	case models.QuestPeriodDaily, models.QuestPeriodWeekly, models.QuestPeriodOneoff:
		return nil
	}
	return ErrInvalidQuestPeriod
}
