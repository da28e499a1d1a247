// Package device wires the example device tree: the builtins plus a few
// directories of commands that report their own name.
package device

import (
	"strconv"

	"github.com/synco/microshell/internal/buildinfo"
	"github.com/synco/microshell/ush"
)

// Pin is the output line behind /dev/gpio_write.
type Pin interface {
	High()
	Low()
}

// Option configures a device shell.
type Option func(*device)

// WithPin routes /dev/gpio_write to p.
func WithPin(p Pin) Option {
	return func(d *device) { d.pin = p }
}

type device struct {
	pin   Pin
	level int // -1 until gpio_write sets it
}

// New builds a shell with the device tree mounted and "/" as the current
// directory.
func New(cfg ush.Config, opts ...Option) (*ush.Shell, error) {
	d := &device{level: -1}
	for _, o := range opts {
		o(d)
	}

	sh := ush.New(cfg)
	if _, err := sh.MountGlobal(ush.BuiltinFiles()); err != nil {
		return nil, err
	}
	for _, m := range d.mounts() {
		if _, err := sh.Mount(m.parent, m.name, m.files); err != nil {
			return nil, err
		}
	}
	if err := sh.SetCurrentDir("/"); err != nil {
		return nil, err
	}
	return sh, nil
}

type mount struct {
	parent string
	name   string
	files  []ush.File
}

func (d *device) mounts() []mount {
	return []mount{
		{"/", "", []ush.File{
			{Name: "start", Description: "start device", Exec: printName},
			{Name: "stop", Description: "stop device", Exec: printName},
		}},
		{"/", "dev", []ush.File{
			{
				Name:        "gpio_write",
				Description: "write to gpio",
				Help:        "gpio_write: gpio_write [0|1]\r\n\tDrive the status pin.\r\n",
				Exec:        d.gpioWrite,
			},
			{Name: "gpio_read", Description: "read from gpio", Exec: d.gpioRead},
		}},
		{"/", "etc", []ush.File{
			{Name: "config", Description: "configuration", Exec: showConfig},
			{Name: "version", Description: "firmware version", Exec: showVersion},
		}},
		{"/dev", "bus", []ush.File{
			{Name: "spi", Description: "show spi", Exec: printName},
			{Name: "i2c", Description: "show i2c", Exec: printName},
		}},
		{"/dev", "mem", []ush.File{
			{Name: "ram", Description: "show ram memory", Exec: printName},
		}},
		{"/dev/mem", "external", []ush.File{
			{Name: "flash", Description: "show flash memory", Exec: printName},
			{Name: "disk", Description: "show disk memory", Exec: printName},
		}},
	}
}

func printName(sh *ush.Shell, f *ush.File, _ []string) ([]byte, error) {
	out := sh.Output()
	out.Reset()
	if err := writeLine(out, f.Name); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func (d *device) gpioWrite(sh *ush.Shell, f *ush.File, argv []string) ([]byte, error) {
	switch len(argv) {
	case 1:
	case 2:
		switch argv[1] {
		case "1", "high":
			d.level = 1
			if d.pin != nil {
				d.pin.High()
			}
		case "0", "low":
			d.level = 0
			if d.pin != nil {
				d.pin.Low()
			}
		default:
			return nil, ush.ErrWrongArguments
		}
	default:
		return nil, ush.ErrWrongArguments
	}
	return printName(sh, f, argv)
}

func (d *device) gpioRead(sh *ush.Shell, f *ush.File, argv []string) ([]byte, error) {
	if len(argv) != 1 {
		return nil, ush.ErrWrongArguments
	}
	out := sh.Output()
	out.Reset()
	if err := writeLine(out, f.Name); err != nil {
		return nil, err
	}
	if d.level >= 0 {
		if err := writeLine(out, "level\t"+strconv.Itoa(d.level)); err != nil {
			return nil, err
		}
	}
	return out.Bytes(), nil
}

func showConfig(sh *ush.Shell, _ *ush.File, _ []string) ([]byte, error) {
	cfg := sh.Config()
	out := sh.Output()
	out.Reset()
	for _, kv := range []struct {
		k string
		v string
	}{
		{"hostname", cfg.Hostname},
		{"input_buffer", strconv.Itoa(cfg.InputBufferSize)},
		{"output_buffer", strconv.Itoa(cfg.OutputBufferSize)},
		{"path_max", strconv.Itoa(cfg.PathMax)},
		{"max_nodes", strconv.Itoa(cfg.MaxNodes)},
		{"nodes", strconv.Itoa(sh.NodeCount())},
	} {
		if err := writeLine(out, kv.k+"\t"+kv.v); err != nil {
			return nil, err
		}
	}
	return out.Bytes(), nil
}

func showVersion(sh *ush.Shell, _ *ush.File, _ []string) ([]byte, error) {
	out := sh.Output()
	out.Reset()
	if err := writeLine(out, buildinfo.Line()); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writeLine(out *ush.Buffer, s string) error {
	if err := out.WriteString(s); err != nil {
		return err
	}
	return out.WriteString("\r\n")
}
