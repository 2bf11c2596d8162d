package academics

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Kind int

const (
	KindText Kind = iota
	KindNumber
)

// Value is the content of a cell: either text or a number.
// The zero Value is the empty text.
type Value struct {
	kind Kind
	text string
	num  float64
}

func Text(s string) Value      { return Value{kind: KindText, text: s} }
func Number(f float64) Value   { return Value{kind: KindNumber, num: f} }
func (v Value) Kind() Kind     { return v.kind }
func (v Value) IsNumber() bool { return v.kind == KindNumber }

// ParseValue reads typed-in text: a finite number when it parses as one, text otherwise.
func ParseValue(s string) Value {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return Text(s)
	}
	return Number(f)
}

// Float returns the numeric content; ok is false for text values.
func (v Value) Float() (f float64, ok bool) {
	return v.num, v.kind == KindNumber
}

// String renders the value the way it is displayed in a cell.
func (v Value) String() string {
	if v.kind == KindNumber {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.text
}

// Interface returns a float64 for numbers, a string otherwise.
func (v Value) Interface() interface{} {
	if v.kind == KindNumber {
		return v.num
	}
	return v.text
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON accepts a JSON number, a string or null (empty text).
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Text("")
	case float64:
		*v = Number(x)
	case string:
		*v = Text(x)
	default:
		return errors.Errorf("cell value must be a string or a number, got %s", data)
	}
	return nil
}
