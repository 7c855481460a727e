package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLabel(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  ParsedLabel
		expectErr bool
	}{
		{
			name:     "Canonical desk label",
			raw:      "North-12",
			expected: ParsedLabel{Zone: "North", Seq: 12},
		},
		{
			name:     "Space separated",
			raw:      "west 3",
			expected: ParsedLabel{Zone: "West", Seq: 3},
		},
		{
			name:     "Hash separator",
			raw:      "East#7",
			expected: ParsedLabel{Zone: "East", Seq: 7},
		},
		{
			name:     "Room name without number",
			raw:      "Aurora",
			expected: ParsedLabel{Zone: "Aurora", Seq: 0},
		},
		{
			name:     "Multi word zone",
			raw:      "  Open   Plan - 4 ",
			expected: ParsedLabel{Zone: "Open Plan", Seq: 4},
		},
		{
			name:     "Number inside zone is kept",
			raw:      "Floor2",
			expected: ParsedLabel{Zone: "Floor2", Seq: 0},
		},
		{
			name:      "Only a number",
			raw:       "-12",
			expectErr: true,
		},
		{
			name:      "Empty",
			raw:       "   ",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := ParseLabel(tc.raw)
			if tc.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, parsed)
			}
		})
	}
}

func TestParsedLabel_String(t *testing.T) {
	assert.Equal(t, "North-12", ParsedLabel{Zone: "North", Seq: 12}.String())
	assert.Equal(t, "Aurora", ParsedLabel{Zone: "Aurora"}.String())
}
