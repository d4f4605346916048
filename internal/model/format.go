package model

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var displayPrinter = message.NewPrinter(language.French)

// FormatNumber renders a value for display: French grouping and decimal
// comma, at most two fraction digits. Non-finite values render as "0".
// Thousands are grouped with U+00A0, the separator x/text carries for French.
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return displayPrinter.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// FormatFixed renders a value with exactly two decimals and a decimal point.
func FormatFixed(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatRaw renders a dimension the way it was entered, without trailing zeros.
func FormatRaw(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
