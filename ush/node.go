package ush

// ExecFunc runs a file. argv[0] is the token the user typed.
//
// The returned bytes may alias sh.Output() and stay valid only until the
// next callback runs. A nil slice with a nil error means success without
// output.
type ExecFunc func(sh *Shell, f *File, argv []string) ([]byte, error)

// File is a statically declared command unit.
type File struct {
	Name        string
	Description string
	Help        string
	Exec        ExecFunc
}

// NodeID indexes a node in the shell's mount registry.
type NodeID int

// NoNode is the zero-registry sentinel.
const NoNode NodeID = -1

// Scope tells mounted nodes apart from the global node.
type Scope uint8

const (
	// ScopeMounted nodes live at a full path and are reachable via cd.
	ScopeMounted Scope = iota + 1
	// ScopeGlobal marks the single node whose files resolve by bare name
	// from every directory.
	ScopeGlobal
)

func (s Scope) String() string {
	switch s {
	case ScopeMounted:
		return "mounted"
	case ScopeGlobal:
		return "global"
	default:
		return "unknown"
	}
}

// Node is one registry entry: a directory mount or the global node.
type Node struct {
	scope      Scope
	name       string
	mountPoint string
	files      []File
}

func (n *Node) Scope() Scope       { return n.scope }
func (n *Node) IsGlobal() bool     { return n.scope == ScopeGlobal }
func (n *Node) Name() string       { return n.name }
func (n *Node) MountPoint() string { return n.mountPoint }

// Files returns the node's file table. Callers must not modify it.
func (n *Node) Files() []File { return n.files }

// File returns the i-th file of the node, addressed in place.
func (n *Node) File(i int) *File {
	if i < 0 || i >= len(n.files) {
		return nil
	}
	return &n.files[i]
}

func (n *Node) isRoot() bool {
	return n.scope == ScopeMounted && n.name == "" && n.mountPoint == "/"
}
