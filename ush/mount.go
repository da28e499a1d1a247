package ush

import (
	"fmt"
	"strings"
)

// Mount registers files as the directory name under parent.
//
// parent must be absolute. An empty name mounts parent "/" itself (the
// root directory). Nodes are appended, so registration order is lookup
// priority and listing order. The first mounted directory becomes the
// current directory.
func (s *Shell) Mount(parent, name string, files []File) (NodeID, error) {
	if s.sealed {
		return NoNode, fmt.Errorf("ush mount %q %q: %w", parent, name, ErrRegistrySealed)
	}
	mp, ok := normalizeMountPoint(parent)
	if !ok || strings.Contains(name, "/") || (name == "" && mp != "/") {
		return NoNode, fmt.Errorf("ush mount %q %q: %w", parent, name, ErrInvalidMount)
	}
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.scope == ScopeMounted && n.mountPoint == mp && n.name == name {
			return NoNode, fmt.Errorf("ush mount %q %q: %w", parent, name, ErrDuplicateMount)
		}
	}
	id, err := s.add(Node{scope: ScopeMounted, name: name, mountPoint: mp, files: files})
	if err != nil {
		return NoNode, fmt.Errorf("ush mount %q %q: %w", parent, name, err)
	}
	if s.current == NoNode {
		s.current = id
	}
	return id, nil
}

// MountGlobal registers the global node, whose files resolve by bare name
// from any directory. Only one global node may exist.
func (s *Shell) MountGlobal(files []File) (NodeID, error) {
	if s.sealed {
		return NoNode, fmt.Errorf("ush mount global: %w", ErrRegistrySealed)
	}
	if s.global != NoNode {
		return NoNode, fmt.Errorf("ush mount global: %w", ErrDuplicateGlobalMount)
	}
	id, err := s.add(Node{scope: ScopeGlobal, files: files})
	if err != nil {
		return NoNode, fmt.Errorf("ush mount global: %w", err)
	}
	s.global = id
	return id, nil
}

func (s *Shell) add(n Node) (NodeID, error) {
	if len(s.nodes) == cap(s.nodes) {
		return NoNode, ErrRegistryFull
	}
	s.nodes = append(s.nodes, n)
	return NodeID(len(s.nodes) - 1), nil
}

// Node returns the node for id, or nil.
func (s *Shell) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(s.nodes) {
		return nil
	}
	return &s.nodes[id]
}

func (s *Shell) NodeCount() int { return len(s.nodes) }

// Walk visits nodes in registration order until fn returns false.
func (s *Shell) Walk(fn func(id NodeID, n *Node) bool) {
	for i := range s.nodes {
		if !fn(NodeID(i), &s.nodes[i]) {
			return
		}
	}
}

// Seal freezes the registry. Service seals on its first call.
func (s *Shell) Seal() { s.sealed = true }

func (s *Shell) Sealed() bool { return s.sealed }

// normalizeMountPoint strips trailing separators and collapses repeated
// ones. It does not interpret "." or "..".
func normalizeMountPoint(p string) (string, bool) {
	if !strings.HasPrefix(p, "/") {
		return "", false
	}
	return normalizeAbs(p), true
}

func normalizeAbs(p string) string {
	if !strings.Contains(p, "//") && (len(p) == 1 || p[len(p)-1] != '/') {
		return p
	}
	var b strings.Builder
	b.Grow(len(p))
	prevSep := false
	for i := 0; i < len(p); i++ {
		c := p[i]
		if c == '/' {
			if prevSep {
				continue
			}
			prevSep = true
		} else {
			prevSep = false
		}
		b.WriteByte(c)
	}
	out := b.String()
	if len(out) > 1 && out[len(out)-1] == '/' {
		out = out[:len(out)-1]
	}
	return out
}
