package handler

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Syntactic validation for booking fields.  The rules here only reject
// malformed input; semantic checks (garage existence, bay capacity)
// belong to the service layer.
var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^[0-9+ ]+$`)
	slotPattern  = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

func validateName(name string) error {
	n := strings.TrimSpace(name)
	if n == "" || len(n) > 100 {
		return fmt.Errorf("name must be 1-100 characters")
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("email is not a valid address")
	}
	return nil
}

func validatePhone(phone string) error {
	if phone == "" || !phonePattern.MatchString(phone) {
		return fmt.Errorf("phone may only contain digits, spaces and +")
	}
	return nil
}

func validateVehicleReg(reg string) error {
	if len(reg) < 5 || len(reg) > 10 {
		return fmt.Errorf("vehicle_reg must be 5-10 characters")
	}
	return nil
}

// validateDate requires strict YYYY-MM-DD; time.Parse rejects
// impossible dates such as 2026-02-30.
func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("date must be a valid YYYY-MM-DD day")
	}
	return nil
}

func validateTimeSlot(slot string) error {
	if !slotPattern.MatchString(slot) {
		return fmt.Errorf("time_slot must be HH:MM")
	}
	return nil
}
