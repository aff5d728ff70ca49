package domain

import (
	"regexp"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var (
	phonePattern = regexp.MustCompile(`^\d{10}$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	slotPattern  = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	phoneNoise   = strings.NewReplacer(" ", "", "-", "")
)

// NormalizePhone strips spaces and dashes the way the booking form does before matching.
func NormalizePhone(phone string) string {
	return phoneNoise.Replace(phone)
}

func ValidPhone(phone string) bool {
	return phonePattern.MatchString(NormalizePhone(phone))
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

func ValidDate(date string) bool {
	_, err := time.Parse(DateLayout, date)
	return err == nil
}

func ValidSlot(slot string) bool {
	return slotPattern.MatchString(slot)
}
