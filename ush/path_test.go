package ush

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullPath(t *testing.T) {
	sh := newScenarioShell(t, Config{})
	buf := NewBuffer(sh.Config().PathMax)

	var got []string
	sh.Walk(func(id NodeID, n *Node) bool {
		if n.IsGlobal() {
			assert.ErrorIs(t, sh.FullPath(id, buf), ErrDirectoryNotFound)
			return true
		}
		require.NoError(t, sh.FullPath(id, buf))
		got = append(got, buf.String())
		return true
	})
	assert.Equal(t, []string{"/", "/dev", "/dev/mem", "/dev/mem/external"}, got)
}

func TestFullPath_BufferTooSmall(t *testing.T) {
	sh := newScenarioShell(t, Config{})
	id := NoNode
	sh.Walk(func(i NodeID, n *Node) bool {
		if n.Name() == "external" {
			id = i
			return false
		}
		return true
	})
	require.NotEqual(t, NoNode, id)

	// "/dev/mem/external" is 17 bytes and needs room for the terminator.
	exact := NewBuffer(18)
	require.NoError(t, sh.FullPath(id, exact))
	assert.Equal(t, "/dev/mem/external", exact.String())

	short := NewBuffer(17)
	assert.ErrorIs(t, sh.FullPath(id, short), ErrBufferTooSmall)
	assert.Zero(t, short.Len())
}

func TestAbsolutePath(t *testing.T) {
	sh := newScenarioShell(t, Config{})
	require.NoError(t, sh.SetCurrentDir("/dev"))
	buf := NewBuffer(sh.Config().PathMax)

	tests := []struct {
		token string
		want  string
	}{
		{"", "/dev"},
		{"mem", "/dev/mem"},
		{"mem/", "/dev/mem"},
		{"mem//external", "/dev/mem/external"},
		{"/", "/"},
		{"//", "/"},
		{"/dev/", "/dev"},
		{"..", "/dev/.."},
		{".", "/dev/."},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			require.NoError(t, sh.AbsolutePath(tt.token, buf))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestAbsolutePath_RootPrefixIsNotDoubled(t *testing.T) {
	sh := newScenarioShell(t, Config{})
	buf := NewBuffer(sh.Config().PathMax)

	require.NoError(t, sh.AbsolutePath("dev", buf))
	assert.Equal(t, "/dev", buf.String())
}

func TestAbsolutePath_Idempotent(t *testing.T) {
	sh := newScenarioShell(t, Config{})
	require.NoError(t, sh.SetCurrentDir("/dev/mem"))
	first := NewBuffer(sh.Config().PathMax)
	second := NewBuffer(sh.Config().PathMax)

	for _, token := range []string{"", "ram", "external/", "/", "//dev//mem", "/dev/mem/external/flash"} {
		require.NoError(t, sh.AbsolutePath(token, first))
		require.NoError(t, sh.AbsolutePath(first.String(), second))
		assert.Equal(t, first.String(), second.String(), "token %q", token)
	}
}

func TestAbsolutePath_Overflow(t *testing.T) {
	sh := newScenarioShell(t, Config{PathMax: 8})
	buf := NewBuffer(sh.Config().PathMax)

	assert.ErrorIs(t, sh.AbsolutePath("/dev/mem/external", buf), ErrBufferTooSmall)
	assert.Zero(t, buf.Len())

	require.NoError(t, sh.SetCurrentDir("/dev"))
	assert.ErrorIs(t, sh.AbsolutePath("memory", buf), ErrBufferTooSmall)
	assert.Zero(t, buf.Len())
}

func TestCurrentDir_BeforeAnyMount(t *testing.T) {
	sh := New(Config{})
	buf := NewBuffer(16)
	assert.ErrorIs(t, sh.CurrentDir(buf), ErrDirectoryNotFound)
	assert.ErrorIs(t, sh.SetCurrentDir("/"), ErrDirectoryNotFound)
}

func TestSetCurrentDir_RoundTrip(t *testing.T) {
	sh := newScenarioShell(t, Config{})
	path := NewBuffer(sh.Config().PathMax)

	sh.Walk(func(id NodeID, n *Node) bool {
		if n.IsGlobal() {
			return true
		}
		require.NoError(t, sh.FullPath(id, path))
		require.NoError(t, sh.SetCurrentDir(path.String()))
		assert.Equal(t, id, sh.Current())
		assert.Equal(t, path.String(), cwd(t, sh))
		return true
	})
}

func TestSetCurrentDir_Relative(t *testing.T) {
	sh := newScenarioShell(t, Config{})

	require.NoError(t, sh.SetCurrentDir("dev"))
	require.NoError(t, sh.SetCurrentDir("mem"))
	require.NoError(t, sh.SetCurrentDir("external/"))
	assert.Equal(t, "/dev/mem/external", cwd(t, sh))
}

func TestSetCurrentDir_Failures(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		target  string
		wantErr error
	}{
		{"missing", Config{}, "/does/not/exist", ErrDirectoryNotFound},
		{"dot dot", Config{}, "..", ErrDirectoryNotFound},
		{"file is not a directory", Config{}, "/dev/gpio_read", ErrDirectoryNotFound},
		{"prefix is not a directory", Config{}, "/de", ErrDirectoryNotFound},
		{"overflow", Config{PathMax: 16}, "/dev/mem/external", ErrBufferTooSmall},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh := newScenarioShell(t, tt.cfg)
			require.NoError(t, sh.SetCurrentDir("/dev"))
			before := sh.Current()

			assert.ErrorIs(t, sh.SetCurrentDir(tt.target), tt.wantErr)
			assert.Equal(t, before, sh.Current())
			assert.Equal(t, "/dev", cwd(t, sh))
		})
	}
}
