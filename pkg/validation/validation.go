package validation

import (
	"regexp"
	"strings"
	"time"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
	clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && emailRegex.MatchString(email) && len(email) <= 200
}

func ValidatePhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	return phone != "" && phoneRegex.MatchString(phone) && len(phone) <= 50
}

func ValidateName(name string) bool {
	name = strings.TrimSpace(name)
	return len(name) >= 2 && len(name) <= 200
}

func ValidatePassword(password string) bool {
	return len(password) >= 6 && len(password) <= 100
}

// ValidateClock accepts wall-clock times in "HH:MM" form, the format
// ride meeting and departure times are stored in.
func ValidateClock(clock string) bool {
	return clockRegex.MatchString(clock)
}

// ValidateDate accepts calendar dates in "2006-01-02" form.
func ValidateDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}
