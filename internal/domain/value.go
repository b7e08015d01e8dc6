package domain

import (
	"fmt"
	"strconv"
	"time"
)

// CoerceValue resolves a raw decoded JSON value into the tagged shape declared
// for the field. Numeric strings are accepted for numeric fields because
// technician form inputs arrive as text.
func CoerceValue(kind ValueKind, raw interface{}) (Reading, error) {
	rd := Reading{Kind: kind}
	switch kind {
	case KindNumeric:
		switch v := raw.(type) {
		case float64:
			rd.NumericValue = v
		case int:
			rd.NumericValue = float64(v)
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return rd, fmt.Errorf("%w: %q is not numeric", ErrInvalidReading, v)
			}
			rd.NumericValue = f
		default:
			return rd, fmt.Errorf("%w: expected numeric value, got %T", ErrInvalidReading, raw)
		}
	case KindBoolean:
		v, ok := raw.(bool)
		if !ok {
			return rd, fmt.Errorf("%w: expected boolean value, got %T", ErrInvalidReading, raw)
		}
		rd.BoolValue = v
	case KindText:
		v, ok := raw.(string)
		if !ok {
			return rd, fmt.Errorf("%w: expected text value, got %T", ErrInvalidReading, raw)
		}
		rd.TextValue = v
	case KindDate:
		v, ok := raw.(string)
		if !ok {
			return rd, fmt.Errorf("%w: expected RFC3339 date, got %T", ErrInvalidReading, raw)
		}
		if _, err := time.Parse(time.RFC3339, v); err != nil {
			return rd, fmt.Errorf("%w: %q is not an RFC3339 date", ErrInvalidReading, v)
		}
		rd.TextValue = v
	default:
		return rd, fmt.Errorf("%w: unknown value kind %q", ErrInvalidReading, kind)
	}
	return rd, nil
}
