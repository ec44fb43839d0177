package indicator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkhv12/stk-advisor/pkg/errors"
)

func TestIntParam(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    int
		wantErr bool
	}{
		{"int", 14, 14, false},
		{"int64", int64(9), 9, false},
		{"whole float", 20.0, 20, false},
		{"fractional float", 20.5, 0, true},
		{"string", "14", 0, true},
		{"nil", nil, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := intParam(tc.value, "period")
			if tc.wantErr {
				assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidType))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFloatParam(t *testing.T) {
	got, err := floatParam(2, "stdDev")
	assert.NoError(t, err)
	assert.Equal(t, 2.0, got)

	got, err = floatParam(0.02, "step")
	assert.NoError(t, err)
	assert.Equal(t, 0.02, got)

	_, err = floatParam("2", "stdDev")
	assert.True(t, errors.HasCode(err, errors.ErrCodeInvalidType))
}
