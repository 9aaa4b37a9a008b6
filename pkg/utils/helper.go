package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// ParseDate parses a YYYY-MM-DD query value with a fallback
func ParseDate(value string, defaultValue time.Time) time.Time {
	if value == "" {
		return defaultValue
	}

	result, err := time.Parse("2006-01-02", value)
	if err != nil {
		return defaultValue
	}

	return result
}

// GenerateReceiptNumber creates a unique receipt number with timestamp
func GenerateReceiptNumber() string {
	now := time.Now()

	// Format: RCPT-YYYYMMDD-HHMMSS-RANDOM
	datePart := now.Format("20060102")
	timePart := now.Format("150405")
	randomPart := fmt.Sprintf("%04d", rand.Intn(10000))

	return fmt.Sprintf("RCPT-%s-%s-%s", datePart, timePart, randomPart)
}
