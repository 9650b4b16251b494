package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	apperrors "claims-registry/internal/common/errors"
)

// Collector gathers every failing field of a form submission instead of
// stopping at the first.
type Collector struct {
	errs []apperrors.FieldError
}

// Add records a failure.
func (c *Collector) Add(field, code, message string) {
	c.errs = append(c.errs, apperrors.FieldError{Field: field, Message: message, Code: code})
}

// Text trims value and checks it is present and at least minLen runes long.
func (c *Collector) Text(field, value string, minLen int) string {
	v := strings.TrimSpace(value)
	switch {
	case v == "":
		c.Add(field, CodeRequiredFieldMissing, "is required")
	case len([]rune(v)) < minLen:
		c.Add(field, CodeMinLengthViolation, fmt.Sprintf("must be at least %d characters", minLen))
	}
	return v
}

// Amount parses a positive finite decimal.
func (c *Collector) Amount(field, raw string) float64 {
	v := strings.TrimSpace(raw)
	if v == "" {
		c.Add(field, CodeRequiredFieldMissing, "is required")
		return 0
	}
	amount, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		c.Add(field, CodeInvalidAmount, "must be a positive number")
		return 0
	}
	return amount
}

// Int parses a whole number within [min, max].
func (c *Collector) Int(field, raw string, min, max int) int {
	v := strings.TrimSpace(raw)
	if v == "" {
		c.Add(field, CodeRequiredFieldMissing, "is required")
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		c.Add(field, CodeInvalidNumber, "must be a whole number")
		return 0
	}
	if n < min {
		c.Add(field, CodeMinimumViolation, fmt.Sprintf("must be at least %d", min))
	} else if n > max {
		c.Add(field, CodeMaximumViolation, fmt.Sprintf("must be at most %d", max))
	}
	return n
}

// Float parses a finite number within [min, max].
func (c *Collector) Float(field, raw string, min, max float64) float64 {
	v := strings.TrimSpace(raw)
	if v == "" {
		c.Add(field, CodeRequiredFieldMissing, "is required")
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		c.Add(field, CodeInvalidNumber, "must be a number")
		return 0
	}
	if f < min {
		c.Add(field, CodeMinimumViolation, fmt.Sprintf("must be at least %g", min))
	} else if f > max {
		c.Add(field, CodeMaximumViolation, fmt.Sprintf("must be at most %g", max))
	}
	return f
}

// Date parses an optional calendar date. Blank returns ok=false without an error.
func (c *Collector) Date(field, raw, layout string) (time.Time, bool) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(layout, v)
	if err != nil {
		c.Add(field, CodeInvalidDate, fmt.Sprintf("must be a date in %s format", layout))
		return time.Time{}, false
	}
	return d, true
}

// OneOf checks value against allowed. Blank is accepted and left to the caller.
func (c *Collector) OneOf(field, value string, allowed ...string) {
	if value == "" {
		return
	}
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	c.Add(field, CodeInvalidEnumValue, fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")))
}

// Err returns a ValidationError for entity, or nil when nothing failed.
func (c *Collector) Err(entity string) error {
	if len(c.errs) == 0 {
		return nil
	}
	return &apperrors.ValidationError{Entity: entity, Fields: c.errs}
}
