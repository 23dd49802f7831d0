package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxPercent is the upper limit accepted by percentage dimensions.
const MaxPercent = 999.99

// RangeErrorKey is the Errors key used for a min greater than max.
const RangeErrorKey = "range"

const (
	msgNotNumber    = "Must be a number"
	msgNegative     = "Must be a positive number"
	msgInvertedPair = "Min must be less than or equal to Max"
)

var msgPercent = fmt.Sprintf("Must be between 0.00 and %.2f", MaxPercent)

// Errors maps a field name (or RangeErrorKey) to an inline message.
type Errors map[string]string

func (e Errors) Has(key string) bool {
	_, ok := e[key]
	return ok
}

// ParseBound reads a bound typed by the user. Empty text is an absent bound;
// NaN and infinities are not numbers here.
func ParseBound(text string) (*float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || !finite(v) {
		return nil, fmt.Errorf("%s: %q", msgNotNumber, text)
	}
	return Float(v), nil
}

// ValidateBound returns the message for an out-of-domain value, or "".
func ValidateBound(spec DimensionSpec, v *float64) string {
	if v == nil {
		return ""
	}
	if !finite(*v) {
		return msgNotNumber
	}
	if spec.Percent {
		if *v < 0 || *v > MaxPercent {
			return msgPercent
		}
		return ""
	}
	if *v < 0 && !spec.AllowNegative {
		return msgNegative
	}
	return ""
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateRange checks both bounds and their ordering.
func ValidateRange(spec DimensionSpec, minV, maxV *float64) Errors {
	errs := Errors{}
	if msg := ValidateBound(spec, minV); msg != "" {
		errs[string(spec.MinField)] = msg
	}
	if msg := ValidateBound(spec, maxV); msg != "" {
		errs[string(spec.MaxField)] = msg
	}
	if minV != nil && maxV != nil && *minV > *maxV {
		errs[RangeErrorKey] = msgInvertedPair
	}
	return errs
}

// ValidateText validates raw bound text, flagging non-numeric input in
// addition to the checks of ValidateRange.
func ValidateText(spec DimensionSpec, minText, maxText string) (Range, Errors) {
	var r Range
	errs := Errors{}
	if v, err := ParseBound(minText); err != nil {
		errs[string(spec.MinField)] = msgNotNumber
	} else {
		r.Min = v
	}
	if v, err := ParseBound(maxText); err != nil {
		errs[string(spec.MaxField)] = msgNotNumber
	} else {
		r.Max = v
	}
	for k, msg := range ValidateRange(spec, r.Min, r.Max) {
		if !errs.Has(k) {
			errs[k] = msg
		}
	}
	return r, errs
}
