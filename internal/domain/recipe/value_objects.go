package recipe

import (
	"bytes"
	"encoding/json"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Ingredient is a named, measured component of a recipe. Name and Unit are
// kept exactly as entered; aggregation normalizes them on its own.
type Ingredient struct {
	Name     string
	Quantity float64
	Unit     string
}

// Validate validates the ingredient for storage
func (i Ingredient) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrIngredientNameRequired
	}
	if math.IsNaN(i.Quantity) || math.IsInf(i.Quantity, 0) {
		return ErrInvalidQuantity
	}
	return nil
}

// Quantity is a numeric amount decoded leniently from JSON. Numbers are taken
// as they are, strings contribute their leading numeric prefix and anything
// else (or an unparseable string) becomes 0.
type Quantity float64

// Float64 returns the plain numeric value
func (q Quantity) Float64() float64 {
	return float64(q)
}

// UnmarshalJSON implements json.Unmarshaler
func (q *Quantity) UnmarshalJSON(data []byte) error {
	*q = Quantity(ParseQuantityJSON(data))
	return nil
}

// numericPrefix matches the longest leading decimal literal of a string.
var numericPrefix = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)`)

// ParseQuantity extracts the leading number of s. Leading whitespace is
// ignored, trailing text ("100g") is dropped and an unparseable string is 0.
func ParseQuantity(s string) float64 {
	match := numericPrefix.FindString(strings.TrimLeft(s, " \t\n\r\v\f"))
	if match == "" {
		return 0
	}

	switch match {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	// Out-of-range literals still yield ±Inf alongside the error.
	value, err := strconv.ParseFloat(match, 64)
	if err != nil && !isRangeError(err) {
		return 0
	}
	if math.IsNaN(value) {
		return 0
	}
	return value
}

// ParseQuantityJSON applies ParseQuantity semantics to a raw JSON value.
func ParseQuantityJSON(data []byte) float64 {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return 0
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return 0
		}
		return ParseQuantity(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return ParseQuantity(string(data))
	default:
		return 0
	}
}

var (
	decimalLiteral = regexp.MustCompile(`^[+-]?(Infinity|(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?)$`)
	radixLiteral   = regexp.MustCompile(`^0([xX][0-9a-fA-F]+|[oO][0-7]+|[bB][01]+)$`)
)

// CoerceNumber converts s as a whole to a number. Surrounding whitespace is
// ignored and a blank string is 0. Decimal, Infinity and 0x/0o/0b literals
// are accepted; anything else, such as "2x", is NaN.
func CoerceNumber(s string) float64 {
	s = strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\ufeff'
	})
	if s == "" {
		return 0
	}

	if radixLiteral.MatchString(s) {
		base := 2
		switch s[1] | 0x20 {
		case 'x':
			base = 16
		case 'o':
			base = 8
		}
		n, ok := new(big.Int).SetString(s[2:], base)
		if !ok {
			return math.NaN()
		}
		f, _ := new(big.Float).SetInt(n).Float64()
		return f
	}

	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}
	switch strings.TrimLeft(s, "+-") {
	case "Infinity":
		if s[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil && !isRangeError(err) {
		return math.NaN()
	}
	return value
}

// CoerceNumberJSON converts a raw JSON value to a number the way a loosely
// typed multiplier is read: null, false and absent are 0, true is 1, strings
// go through CoerceNumber, and objects or arrays of more than one element
// are NaN.
func CoerceNumberJSON(data []byte) float64 {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return 0
	}

	switch data[0] {
	case 'n', 'f':
		return 0
	case 't':
		return 1
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return math.NaN()
		}
		return CoerceNumber(s)
	case '[':
		var elements []json.RawMessage
		if err := json.Unmarshal(data, &elements); err != nil {
			return math.NaN()
		}
		switch len(elements) {
		case 0:
			return 0
		case 1:
			// a single element reads as its own text; true and false do not
			// spell a number
			element := bytes.TrimSpace(elements[0])
			if len(element) > 0 && (element[0] == 't' || element[0] == 'f') {
				return math.NaN()
			}
			return CoerceNumberJSON(element)
		default:
			return math.NaN()
		}
	case '{':
		return math.NaN()
	default:
		return CoerceNumber(string(data))
	}
}

func isRangeError(err error) bool {
	numErr, ok := err.(*strconv.NumError)
	return ok && numErr.Err == strconv.ErrRange
}
