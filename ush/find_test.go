package ush

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByName_Scenario(t *testing.T) {
	sh := newScenarioShell(t, Config{})
	require.NoError(t, sh.SetCurrentDir("/dev/mem"))
	assert.Equal(t, "/dev/mem", cwd(t, sh))

	tests := []struct {
		token   string
		want    string
		wantErr error
	}{
		{token: "ram", want: "ram"},
		{token: "/dev/mem/ram", want: "ram"},
		{token: "/dev/mem/external/flash", want: "flash"},
		{token: "external/disk", want: "disk"},
		{token: "/dev/gpio_read", want: "gpio_read"},
		{token: "/start", want: "start"},
		{token: "help", want: "help"},
		{token: "pwd", want: "pwd"},
		{token: "gpio_read", wantErr: ErrCommandNotFound},
		{token: "ra", wantErr: ErrCommandNotFound},
		{token: "flash", wantErr: ErrCommandNotFound},
		{token: "/help", wantErr: ErrCommandNotFound},
		{token: "", wantErr: ErrCommandNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			f, err := sh.FindByName(tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, f)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Name)
		})
	}

	assert.ErrorIs(t, sh.SetCurrentDir("/nope"), ErrDirectoryNotFound)
	assert.Equal(t, "/dev/mem", cwd(t, sh))
}

func TestFindByName_GlobalFromEveryDirectory(t *testing.T) {
	sh := newScenarioShell(t, Config{})
	for _, dir := range []string{"/", "/dev", "/dev/mem", "/dev/mem/external"} {
		require.NoError(t, sh.SetCurrentDir(dir))
		for _, name := range []string{"help", "ls", "cd", "pwd"} {
			f, err := sh.FindByName(name)
			require.NoError(t, err, "%s from %s", name, dir)
			assert.Equal(t, name, f.Name)
		}
	}
}

func TestFindByName_RegistrationOrderWins(t *testing.T) {
	sh := New(Config{})
	root := []File{{Name: "help", Description: "root help"}}
	_, err := sh.Mount("/", "", root)
	require.NoError(t, err)
	_, err = sh.MountGlobal(BuiltinFiles())
	require.NoError(t, err)

	f, err := sh.FindByName("help")
	require.NoError(t, err)
	assert.Equal(t, "root help", f.Description)

	_, err = sh.Mount("/", "dev", nil)
	require.NoError(t, err)
	require.NoError(t, sh.SetCurrentDir("/dev"))
	f, err = sh.FindByName("help")
	require.NoError(t, err)
	assert.Equal(t, "print available commands", f.Description)
}

func TestFindByName_ReturnsFileInPlace(t *testing.T) {
	sh := newScenarioShell(t, Config{})
	f, err := sh.FindByName("start")
	require.NoError(t, err)

	root := sh.Node(sh.Current())
	assert.Same(t, root.File(0), f)
}

func TestFindByName_OverflowStillMatchesGlobal(t *testing.T) {
	sh := newScenarioShell(t, Config{PathMax: 8})
	require.NoError(t, sh.SetCurrentDir("/dev"))

	_, err := sh.FindByName("gpio_read")
	assert.ErrorIs(t, err, ErrCommandNotFound)

	f, err := sh.FindByName("help")
	require.NoError(t, err)
	assert.Equal(t, "help", f.Name)
}

func TestFindByName_DescriptorIsNotADirectory(t *testing.T) {
	sh := newScenarioShell(t, Config{})

	_, err := sh.FindByName("/dev/gpio_read/x")
	assert.ErrorIs(t, err, ErrCommandNotFound)
	assert.ErrorIs(t, sh.SetCurrentDir("/dev/gpio_read"), ErrDirectoryNotFound)
}

func TestFilePath(t *testing.T) {
	sh := newScenarioShell(t, Config{})
	buf := NewBuffer(sh.Config().PathMax)

	root := sh.Current()
	require.NoError(t, sh.FilePath(root, sh.Node(root).File(0), buf))
	assert.Equal(t, "/start", buf.String())

	require.NoError(t, sh.SetCurrentDir("/dev/mem/external"))
	cur := sh.Current()
	require.NoError(t, sh.FilePath(cur, sh.Node(cur).File(1), buf))
	assert.Equal(t, "/dev/mem/external/disk", buf.String())

	g := sh.Global()
	assert.ErrorIs(t, sh.FilePath(g, sh.Node(g).File(0), buf), ErrDirectoryNotFound)
}

func TestExec(t *testing.T) {
	sh := newScenarioShell(t, Config{})

	out, err := sh.Exec([]string{"/dev/mem/ram", "extra"})
	require.NoError(t, err)
	assert.Equal(t, "ram\r\n", string(out))

	_, err = sh.Exec(nil)
	assert.ErrorIs(t, err, ErrWrongArguments)

	_, err = sh.Exec([]string{"nope"})
	assert.ErrorIs(t, err, ErrCommandNotFound)
}

func TestExec_NilCallback(t *testing.T) {
	sh := New(Config{})
	_, err := sh.Mount("/", "", []File{{Name: "noop"}})
	require.NoError(t, err)

	out, err := sh.Exec([]string{"noop"})
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestExec_PassesArgv(t *testing.T) {
	sh := New(Config{})
	var got []string
	echo := func(_ *Shell, _ *File, argv []string) ([]byte, error) {
		got = argv
		return nil, nil
	}
	_, err := sh.Mount("/", "", []File{{Name: "echo", Exec: echo}})
	require.NoError(t, err)

	_, err = sh.Exec([]string{"/echo", "a", "b c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/echo", "a", "b c"}, got)
}
