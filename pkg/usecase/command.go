package usecase

import (
	"math"
	"strconv"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// tokenize trims, lower-cases and splits a raw message body into tokens.
// Empty input yields an empty slice.
func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(text)))
}

// ParseQuantity parses a quantity token into a non-negative real number.
// Accepts integer and decimal literals, and simple a/b fractions evaluated
// as real division. Failures are reported, never coerced to a default.
func ParseQuantity(token string) (float64, error) {
	if token == "" {
		return 0, goerr.New("quantity is empty")
	}

	if num, den, ok := strings.Cut(token, "/"); ok {
		n, err := parseReal(num)
		if err != nil {
			return 0, goerr.Wrap(err, "invalid fraction numerator", goerr.V("token", token))
		}
		d, err := parseReal(den)
		if err != nil {
			return 0, goerr.Wrap(err, "invalid fraction denominator", goerr.V("token", token))
		}
		if d == 0 {
			return 0, goerr.New("fraction denominator is zero", goerr.V("token", token))
		}
		q := n / d
		if q < 0 {
			return 0, goerr.New("quantity must be non-negative", goerr.V("token", token))
		}
		return q, nil
	}

	q, err := parseReal(token)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid quantity", goerr.V("token", token))
	}
	if q < 0 {
		return 0, goerr.New("quantity must be non-negative", goerr.V("token", token))
	}
	return q, nil
}

func parseReal(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, goerr.Wrap(err, "not a number", goerr.V("value", s))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, goerr.New("not a finite number", goerr.V("value", s))
	}
	return v, nil
}
