package ush

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func printName(sh *Shell, f *File, _ []string) ([]byte, error) {
	out := sh.Output()
	out.Reset()
	if err := writeAll(out, f.Name, "\r\n"); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func files(names ...string) []File {
	out := make([]File, 0, len(names))
	for _, n := range names {
		out = append(out, File{Name: n, Description: n + " desc", Exec: printName})
	}
	return out
}

// newScenarioShell mounts the reference tree:
//
//	global            help ls cd pwd
//	/                 start stop
//	/dev              gpio_write gpio_read
//	/dev/mem          ram
//	/dev/mem/external flash disk
func newScenarioShell(t *testing.T, cfg Config) *Shell {
	t.Helper()

	sh := New(cfg)
	_, err := sh.MountGlobal(BuiltinFiles())
	require.NoError(t, err)

	for _, m := range []struct {
		parent, name string
		files        []File
	}{
		{"/", "", files("start", "stop")},
		{"/", "dev", files("gpio_write", "gpio_read")},
		{"/dev", "mem", files("ram")},
		{"/dev/mem", "external", files("flash", "disk")},
	} {
		_, err := sh.Mount(m.parent, m.name, m.files)
		require.NoError(t, err, "mount %q %q", m.parent, m.name)
	}
	require.NoError(t, sh.SetCurrentDir("/"))
	return sh
}

func cwd(t *testing.T, sh *Shell) string {
	t.Helper()
	buf := NewBuffer(sh.Config().PathMax)
	require.NoError(t, sh.CurrentDir(buf))
	return buf.String()
}
