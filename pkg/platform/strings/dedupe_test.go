package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "empty slice",
			input:    []string{},
			expected: []string{},
		},
		{
			name:     "removes duplicates preserving first-seen order",
			input:    []string{"07700 900123", "020 7946 0000", "07700 900123"},
			expected: []string{"07700 900123", "020 7946 0000"},
		},
		{
			name:     "is case sensitive",
			input:    []string{"Foo", "foo"},
			expected: []string{"Foo", "foo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Dedupe(tt.input))
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "blank input",
			input:    "   ",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "localhost:9092",
			expected: []string{"localhost:9092"},
		},
		{
			name:     "trims, drops empties and repeats",
			input:    " kafka-1:9092, kafka-2:9092,,kafka-1:9092 ",
			expected: []string{"kafka-1:9092", "kafka-2:9092"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitList(tt.input))
		})
	}
}
