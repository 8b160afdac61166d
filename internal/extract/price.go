package extract

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoPrice is returned when a price string contains nothing parseable.
// Missing prices are surfaced, never fabricated.
var ErrNoPrice = errors.New("no parseable price")

// Ordered currency patterns. Peso-symbol and PHP prefixes are tried before
// the bare "P" prefix and a bare decimal amount, so "PHP 500" is not read as
// the P-prefix form.
var priceRes = []*regexp.Regexp{
	regexp.MustCompile(`₱\s*([0-9][0-9,]*(?:\.[0-9]+)?)`),
	regexp.MustCompile(`(?i)PHP\s*([0-9][0-9,]*(?:\.[0-9]+)?)`),
	regexp.MustCompile(`(?i)\bP\s*([0-9][0-9,]*(?:\.[0-9]+)?)`),
	regexp.MustCompile(`([0-9][0-9,]*\.[0-9]{2})\b`),
	regexp.MustCompile(`([0-9][0-9,]*(?:\.[0-9]+)?)`),
}

// ParsePrice extracts a positive amount from a price string such as
// "₱1,299.00" or "PHP 500". It fails explicitly instead of guessing.
func ParsePrice(s string) (float64, error) {
	for _, re := range priceRes {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
		if err != nil || v <= 0 {
			continue
		}
		return v, nil
	}
	return 0, ErrNoPrice
}

// findPriceText locates a currency-prefixed amount inside an HTML window for
// the regex strategy. Unlike ParsePrice it skips the bare-number patterns:
// raw markup is full of incidental numbers.
func findPriceText(window string) (string, bool) {
	for _, re := range priceRes[:3] {
		if m := re.FindString(window); m != "" {
			return m, true
		}
	}
	return "", false
}

var percentRe = regexp.MustCompile(`-?\s*([0-9]+(?:\.[0-9]+)?)\s*%`)

// ParsePercent reads a discount like "-20%" or "20% off" as 20.
func ParsePercent(s string) (float64, bool) {
	m := percentRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v <= 0 || v >= 100 {
		return 0, false
	}
	return v, true
}

var numberRe = regexp.MustCompile(`([0-9]+(?:\.[0-9]+)?)\s*([kK])?`)

// ParseCount reads a review/sale count like "(123)", "1.2k sold" or "4521".
func ParseCount(s string) (int, bool) {
	m := numberRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0, false
	}
	if m[2] != "" {
		v *= 1000
	}
	return int(v), v > 0
}

// ParseRating reads a star rating, rejecting values outside [0, 5].
func ParseRating(s string) (float64, bool) {
	m := numberRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v <= 0 || v > 5 {
		return 0, false
	}
	return v, true
}
