package parser

import (
	"fmt"
	"strconv"
	"strings"
)

// The coercers are total: bad input is "no value" (nil), never an error.

// ParseDate converts the source's M/D/YYYY dates to ISO YYYY-MM-DD.
// Anything else, including already-ISO strings, yields nil.
func ParseDate(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return nil
	}
	month, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil
	}
	day, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil
	}
	year := parts[2]
	if len(year) != 4 || len(parts[0]) > 2 || len(parts[1]) > 2 {
		return nil
	}
	if _, err := strconv.Atoi(year); err != nil {
		return nil
	}
	iso := fmt.Sprintf("%s-%02d-%02d", year, month, day)
	return &iso
}

// ParseNumber parses a decimal float. Unlike the source system's lenient
// primitive, the whole field must be numeric; "123abc" is nil.
func ParseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ParseInt parses a base-10 integer; fractional strings truncate toward zero.
func ParseInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	// "3.7" style input still carries an integer value.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}
