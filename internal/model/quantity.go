package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidQuantity is returned when a string has no leading number
var ErrInvalidQuantity = errors.New("invalid quantity")

var quantityPattern = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?|\.[0-9]+)\s*(.*?)\s*$`)

// Quantity is a parsed amount such as "0.5 acres"
type Quantity struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// ParseQuantity extracts the leading number and the unit that follows it
func ParseQuantity(s string) (Quantity, error) {
	m := quantityPattern.FindStringSubmatch(s)
	if m == nil {
		return Quantity{}, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("%w: %q", ErrInvalidQuantity, s)
	}
	return Quantity{Value: v, Unit: strings.ToLower(m[2])}, nil
}

// String formats the quantity back into its stored form
func (q Quantity) String() string {
	v := strconv.FormatFloat(q.Value, 'f', -1, 64)
	if q.Unit == "" {
		return v
	}
	return v + " " + q.Unit
}
