package ush

import "fmt"

// FullPath writes the absolute path of a mounted node into out.
//
// On ErrBufferTooSmall out is left empty.
func (s *Shell) FullPath(id NodeID, out *Buffer) error {
	n := s.Node(id)
	if n == nil || n.scope != ScopeMounted {
		out.Reset()
		return fmt.Errorf("ush node %d: %w", id, ErrDirectoryNotFound)
	}
	out.Reset()
	if err := writeFullPath(out, n); err != nil {
		out.Reset()
		return err
	}
	return nil
}

func writeFullPath(out *Buffer, n *Node) error {
	if err := out.WriteString(n.mountPoint); err != nil {
		return err
	}
	if n.name == "" {
		return nil
	}
	if n.mountPoint != "/" {
		if err := out.WriteByte('/'); err != nil {
			return err
		}
	}
	return out.WriteString(n.name)
}

// appendSegment adds "/"+name to a directory path already in out,
// without doubling the separator after root.
func appendSegment(out *Buffer, name string) error {
	if !out.equal("/") {
		if err := out.WriteByte('/'); err != nil {
			return err
		}
	}
	return out.WriteString(name)
}

// AbsolutePath resolves token against the current directory into out.
//
// Absolute tokens are copied with repeated separators collapsed and a
// trailing separator dropped. "." and ".." get no special treatment. An
// empty token resolves to the current directory.
func (s *Shell) AbsolutePath(token string, out *Buffer) error {
	out.Reset()
	if len(token) > 0 && token[0] == '/' {
		if err := writeNormalized(out, token); err != nil {
			out.Reset()
			return err
		}
		return nil
	}
	if err := s.CurrentDir(out); err != nil {
		return err
	}
	if token == "" {
		return nil
	}
	if !out.equal("/") {
		if err := out.WriteByte('/'); err != nil {
			out.Reset()
			return err
		}
	}
	if err := writeNormalized(out, token); err != nil {
		out.Reset()
		return err
	}
	return nil
}

func writeNormalized(out *Buffer, p string) error {
	start := out.Len()
	prevSep := out.Len() > 0 && out.Bytes()[out.Len()-1] == '/'
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
		if err := out.WriteByte(c); err != nil {
			return err
		}
	}
	if n := out.Len(); n > 1 && n > start && out.Bytes()[n-1] == '/' {
		out.Truncate(n - 1)
	}
	return nil
}

// CurrentDir writes the current directory path into out.
func (s *Shell) CurrentDir(out *Buffer) error {
	if s.current == NoNode {
		out.Reset()
		return ErrDirectoryNotFound
	}
	return s.FullPath(s.current, out)
}

// SetCurrentDir changes the current directory to the mounted node whose
// full path equals the absolute form of target. The global node never
// matches. On failure the current directory is unchanged.
func (s *Shell) SetCurrentDir(target string) error {
	if err := s.AbsolutePath(target, s.absPath); err != nil {
		return fmt.Errorf("cd %q: %w", target, err)
	}
	want := s.absPath
	for i := range s.nodes {
		n := &s.nodes[i]
		if n.scope != ScopeMounted {
			continue
		}
		s.dirPath.Reset()
		if err := writeFullPath(s.dirPath, n); err != nil {
			continue
		}
		if string(s.dirPath.Bytes()) == string(want.Bytes()) {
			s.current = NodeID(i)
			return nil
		}
	}
	return fmt.Errorf("cd %q: %w", target, ErrDirectoryNotFound)
}
