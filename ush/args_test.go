package ush

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"   ", nil},
		{"ls", []string{"ls"}},
		{"  cd   /dev/mem ", []string{"cd", "/dev/mem"}},
		{`help "my cmd"`, []string{"help", "my cmd"}},
		{`echo a\ b 'c d'`, []string{"echo", "a b", "c d"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := SplitArgs(tt.line)
			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitArgs_UnterminatedQuote(t *testing.T) {
	_, err := SplitArgs(`cd "/dev`)
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "error: directory not found\r\n", Message(ErrDirectoryNotFound))
	assert.Equal(t, "error: buffer too small\r\n",
		Message(fmt.Errorf("cd %q: %w", "/x", ErrBufferTooSmall)))
	assert.Equal(t, "error: boom\r\n", Message(fmt.Errorf("boom")))
}
