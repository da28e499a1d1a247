package ush

// Default sizes match a small microcontroller build.
const (
	DefaultInputBufferSize  = 256
	DefaultOutputBufferSize = 512
	DefaultPathMax          = 128
	DefaultMaxNodes         = 16
	DefaultHostname         = "host"
)

// Config sizes a Shell. Every buffer is allocated once by New.
type Config struct {
	Hostname         string
	InputBufferSize  int
	OutputBufferSize int
	PathMax          int
	MaxNodes         int

	// IO is the character transport used by Service. Optional for callers
	// that only use the namespace API.
	IO IO
}

func (c Config) withDefaults() Config {
	if c.Hostname == "" {
		c.Hostname = DefaultHostname
	}
	if c.InputBufferSize <= 0 {
		c.InputBufferSize = DefaultInputBufferSize
	}
	if c.OutputBufferSize <= 0 {
		c.OutputBufferSize = DefaultOutputBufferSize
	}
	if c.PathMax <= 0 {
		c.PathMax = DefaultPathMax
	}
	if c.MaxNodes <= 0 {
		c.MaxNodes = DefaultMaxNodes
	}
	return c
}

// Shell is one shell instance: the mount registry, the current directory
// and the fixed buffers every operation works in.
//
// A Shell is not safe for concurrent use.
type Shell struct {
	cfg Config

	nodes   []Node
	global  NodeID
	current NodeID
	sealed  bool

	output *Buffer

	// Scratch for path resolution: dirPath holds directory paths and
	// resolved tokens, cmdPath holds a directory path plus one segment.
	dirPath *Buffer
	absPath *Buffer
	cmdPath *Buffer

	svc service
}

// New allocates a Shell with an empty registry.
func New(cfg Config) *Shell {
	cfg = cfg.withDefaults()
	s := &Shell{
		cfg:     cfg,
		nodes:   make([]Node, 0, cfg.MaxNodes),
		global:  NoNode,
		current: NoNode,
		output:  NewBuffer(cfg.OutputBufferSize),
		dirPath: NewBuffer(cfg.PathMax),
		absPath: NewBuffer(cfg.PathMax),
		cmdPath: NewBuffer(2 * cfg.PathMax),
	}
	s.svc.init(cfg)
	return s
}

// Config returns the effective configuration.
func (s *Shell) Config() Config { return s.cfg }

func (s *Shell) Hostname() string { return s.cfg.Hostname }

// Output is the shared scratch buffer callbacks write their text into.
func (s *Shell) Output() *Buffer { return s.output }

// Current returns the current directory node, or NoNode before the first
// directory is mounted.
func (s *Shell) Current() NodeID { return s.current }

// Global returns the global node, or NoNode.
func (s *Shell) Global() NodeID { return s.global }
