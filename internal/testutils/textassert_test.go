package testutils

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// recordingT captures failures instead of failing the enclosing test.
type recordingT struct {
	failures []string
}

func (r *recordingT) Helper() {}

func (r *recordingT) Errorf(format string, args ...interface{}) {
	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func TestTextAsserter_DefaultOptions(t *testing.T) {
	opts := NewTextAsserter(t).Options()

	assert.True(t, opts.StripANSI)
	assert.True(t, opts.IgnoreTrailingWhitespace)
	assert.False(t, opts.IgnoreEmptyLines)
	assert.False(t, opts.IgnoreTimestamps)
	assert.False(t, opts.EnableColors)
}

func TestTextAsserter_Assert(t *testing.T) {
	tests := []struct {
		name     string
		opts     []TextOption
		actual   string
		expected string
		match    bool
	}{
		{
			name:     "identical text",
			actual:   "line one\nline two\n",
			expected: "line one\nline two\n",
			match:    true,
		},
		{
			name:     "missing final newline is ignored",
			actual:   "line one",
			expected: "line one\n",
			match:    true,
		},
		{
			name:     "trailing whitespace ignored by default",
			actual:   "status   \n",
			expected: "status\n",
			match:    true,
		},
		{
			name:     "trailing whitespace significant when disabled",
			opts:     []TextOption{WithIgnoreTrailingWhitespace(false)},
			actual:   "status   \n",
			expected: "status\n",
			match:    false,
		},
		{
			name:     "ANSI colors stripped",
			actual:   "\x1b[38;2;255;165;0mReconnection request sent...\x1b[0m\n",
			expected: "Reconnection request sent...\n",
			match:    true,
		},
		{
			name:     "empty lines ignored when enabled",
			opts:     []TextOption{WithIgnoreEmptyLines(true)},
			actual:   "a\n\n\nb\n",
			expected: "a\nb\n",
			match:    true,
		},
		{
			name:     "timestamps masked when enabled",
			opts:     []TextOption{WithIgnoreTimestamps(true)},
			actual:   "time=\"2026-10-14T09:30:00+02:00\" level=info msg=hi\n",
			expected: "time=\"<timestamp>\" level=info msg=hi\n",
			match:    true,
		},
		{
			name:     "different content",
			actual:   "Connected to Wearable\n",
			expected: "Connected to Simulated Wearable\n",
			match:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recordingT{}
			ok := NewTextAsserter(rec, tt.opts...).Assert(tt.actual, tt.expected)

			assert.Equal(t, tt.match, ok)
			if tt.match {
				assert.Empty(t, rec.failures)
			} else {
				assert.Len(t, rec.failures, 1, "a mismatch MUST report exactly one failure")
			}
		})
	}
}

func TestTextAsserter_DiffIsUnified(t *testing.T) {
	diff := NewTextAsserter(t).Diff("a\nc\n", "a\nb\n")

	assert.Contains(t, diff, "--- expected")
	assert.Contains(t, diff, "+++ actual")
	assert.Contains(t, diff, "-b")
	assert.Contains(t, diff, "+c")
}

func TestTextAsserter_ColorizedDiff(t *testing.T) {
	diff := NewTextAsserter(t, WithEnableColors(true)).Diff("a b\n", "a\n")

	assert.Contains(t, diff, "\x1b[", "colored diff MUST contain escape sequences")
	assert.Contains(t, diff, "a·b", "added whitespace MUST be made visible")
}
