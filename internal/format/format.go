// Package format renders optional market figures for display.
package format

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// NA is shown for absent values.
const NA = "N/A"

var printer = message.NewPrinter(language.AmericanEnglish)

// Currency formats a dollar amount with grouping and two decimals.
func Currency(v *float64) string {
	if v == nil {
		return NA
	}
	s := "$" + printer.Sprint(number.Decimal(math.Abs(*v),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
	if *v < 0 {
		return "-" + s
	}
	return s
}

// Number formats with a fixed number of decimals and no grouping.
func Number(v *float64, decimals int) string {
	if v == nil {
		return NA
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64)
}

func Percent(v *float64, decimals int) string {
	if v == nil {
		return NA
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64) + "%"
}

// Change formats a signed percentage with a direction arrow.
func Change(v *float64) string {
	if v == nil {
		return NA
	}
	switch {
	case *v > 0:
		return "▲ " + Percent(v, 2)
	case *v < 0:
		abs := math.Abs(*v)
		return "▼ " + Percent(&abs, 2)
	default:
		return Percent(v, 2)
	}
}

// MarketCap abbreviates to trillions, billions or millions.
func MarketCap(v *float64) string {
	if v == nil {
		return NA
	}
	switch x := *v; {
	case x >= 1e12:
		return "$" + strconv.FormatFloat(x/1e12, 'f', 2, 64) + "T"
	case x >= 1e9:
		return "$" + strconv.FormatFloat(x/1e9, 'f', 2, 64) + "B"
	case x >= 1e6:
		return "$" + strconv.FormatFloat(x/1e6, 'f', 2, 64) + "M"
	default:
		return Currency(v)
	}
}

// Count formats an integer with thousands separators.
func Count(n int64) string {
	return printer.Sprintf("%d", n)
}
