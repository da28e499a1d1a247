package ush

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, sh *Shell, argv ...string) (string, error) {
	t.Helper()
	out, err := sh.Exec(argv)
	return string(out), err
}

func TestHelp_ListsGlobalThenCurrent(t *testing.T) {
	sh := newScenarioShell(t, Config{})
	require.NoError(t, sh.SetCurrentDir("/dev/mem"))

	out, err := run(t, sh, "help")
	require.NoError(t, err)
	assert.Equal(t,
		"help\tprint available commands\r\n"+
			"ls\tprint current directory content\r\n"+
			"cd\tchange current directory\r\n"+
			"pwd\tprint current directory\r\n"+
			"ram\tram desc\r\n",
		out)
}

func TestHelp_SingleFile(t *testing.T) {
	sh := newScenarioShell(t, Config{})
	require.NoError(t, sh.SetCurrentDir("/dev/mem"))

	out, err := run(t, sh, "help", "cd")
	require.NoError(t, err)
	assert.Equal(t, "cd: cd [path]\r\n\tChange current working directory.\r\n", out)

	_, err = run(t, sh, "help", "ram")
	assert.ErrorIs(t, err, ErrNoHelpAvailable)

	_, err = run(t, sh, "help", "nope")
	assert.ErrorIs(t, err, ErrCommandNotFound)

	_, err = run(t, sh, "help", "a", "b")
	assert.ErrorIs(t, err, ErrWrongArguments)
}

func TestLs(t *testing.T) {
	tests := []struct {
		dir  string
		want string
	}{
		{"/", colorGreen + "dev" + colorReset + "\r\n" + "start\tstart desc\r\nstop\tstop desc\r\n"},
		{"/dev", colorGreen + "mem" + colorReset + "\r\n" + "gpio_write\tgpio_write desc\r\ngpio_read\tgpio_read desc\r\n"},
		{"/dev/mem/external", "flash\tflash desc\r\ndisk\tdisk desc\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			sh := newScenarioShell(t, Config{})
			require.NoError(t, sh.SetCurrentDir(tt.dir))

			out, err := run(t, sh, "ls")
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestLs_WrongArguments(t *testing.T) {
	sh := newScenarioShell(t, Config{})
	_, err := run(t, sh, "ls", "/dev")
	assert.ErrorIs(t, err, ErrWrongArguments)
}

func TestLs_OutputOverflow(t *testing.T) {
	sh := newScenarioShell(t, Config{OutputBufferSize: 16})
	_, err := run(t, sh, "ls")
	assert.ErrorIs(t, err, ErrBufferTooSmall)
}

func TestCdPwd(t *testing.T) {
	sh := newScenarioShell(t, Config{})

	out, err := run(t, sh, "cd", "/dev/mem")
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = run(t, sh, "pwd")
	require.NoError(t, err)
	assert.Equal(t, "/dev/mem\r\n", out)

	_, err = run(t, sh, "cd", "/nope")
	assert.ErrorIs(t, err, ErrDirectoryNotFound)
	out, err = run(t, sh, "pwd")
	require.NoError(t, err)
	assert.Equal(t, "/dev/mem\r\n", out)

	_, err = run(t, sh, "cd")
	assert.ErrorIs(t, err, ErrWrongArguments)
	_, err = run(t, sh, "pwd", "x")
	assert.ErrorIs(t, err, ErrWrongArguments)
}

func TestCd_PathTooLongIsNotFound(t *testing.T) {
	sh := newScenarioShell(t, Config{PathMax: 16})
	require.NoError(t, sh.SetCurrentDir("/dev"))

	_, err := run(t, sh, "cd", "/dev/mem/external/much/too/long")
	assert.ErrorIs(t, err, ErrDirectoryNotFound)
	assert.NotErrorIs(t, err, ErrBufferTooSmall)
	assert.Equal(t, "/dev", cwd(t, sh))
}
