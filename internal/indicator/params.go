package indicator

import (
	"math"

	"github.com/mkhv12/stk-advisor/pkg/errors"
)

// intParam reads an integer parameter. Parameters decoded from YAML arrive as int or
// float64, so a float64 with no fractional part is accepted too.
func intParam(value any, name string) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int(v), nil
		}
	}

	return 0, errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s parameter, expected int, got %v", name, value)
}

// floatParam reads a float parameter, widening integers.
func floatParam(value any, name string) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	}

	return 0, errors.Newf(errors.ErrCodeInvalidType, "invalid type for %s parameter, expected float64, got %v", name, value)
}
