package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToMinor(t *testing.T) {
	tests := []struct {
		name     string
		major    float64
		expected int64
	}{
		{
			name:     "Whole amount",
			major:    500,
			expected: 50000,
		},
		{
			name:     "Amount with kopecks",
			major:    499.90,
			expected: 49990,
		},
		{
			name:     "Rounds half up",
			major:    0.005,
			expected: 1,
		},
		{
			name:     "Float noise does not lose a kopeck",
			major:    19.99,
			expected: 1999,
		},
		{
			name:     "Zero",
			major:    0,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToMinor(tt.major))
		})
	}
}

func TestToMajor(t *testing.T) {
	tests := []struct {
		name     string
		minor    int64
		expected float64
	}{
		{
			name:     "Whole amount",
			minor:    50000,
			expected: 500,
		},
		{
			name:     "Amount with kopecks",
			minor:    49990,
			expected: 499.90,
		},
		{
			name:     "Zero",
			minor:    0,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToMajor(tt.minor))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, minor := range []int64{1, 99, 100, 49990, 1234567} {
		assert.Equal(t, minor, ToMinor(ToMajor(minor)))
	}
}
