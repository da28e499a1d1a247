package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stamp(t *testing.T, version, commit, date string) {
	t.Helper()
	v, c, d := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = v, c, d })
	Version, Commit, Date = version, commit, date
}

func TestShort(t *testing.T) {
	tests := []struct {
		version, commit string
		want            string
	}{
		{"v1.2.0", "abc123", "v1.2.0"},
		{"dev", "abc123", "abc123"},
		{"", "unknown", "dev"},
		{"dev", "unknown", "dev"},
	}
	for _, tt := range tests {
		stamp(t, tt.version, tt.commit, "unknown")
		assert.Equal(t, tt.want, Short())
	}
}

func TestLine(t *testing.T) {
	stamp(t, "v1.2.0", "abc123", "2026-10-01")
	assert.Equal(t, "microshell v1.2.0 (abc123, 2026-10-01)", Line())
}
