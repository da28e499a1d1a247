package ush

// FilePath writes the command path of f, a file of the mounted node id:
// the node's full path plus f.Name as one more segment.
func (s *Shell) FilePath(id NodeID, f *File, out *Buffer) error {
	if err := s.FullPath(id, out); err != nil {
		return err
	}
	if err := appendSegment(out, f.Name); err != nil {
		out.Reset()
		return err
	}
	return nil
}

// FindByName resolves token to a file.
//
// Files of mounted nodes match when their command path equals the
// absolute form of token. Files of the global node match token by bare
// name, whatever the current directory. Nodes are searched in
// registration order and the first match wins; there is no prefix or
// fuzzy matching.
func (s *Shell) FindByName(token string) (*File, error) {
	if token == "" {
		return nil, ErrCommandNotFound
	}
	// A token too long to resolve can still name a global file.
	resolved := s.AbsolutePath(token, s.absPath) == nil

	for i := range s.nodes {
		n := &s.nodes[i]
		switch n.scope {
		case ScopeMounted:
			if !resolved {
				continue
			}
			for j := range n.files {
				f := &n.files[j]
				s.cmdPath.Reset()
				if writeFullPath(s.cmdPath, n) != nil || appendSegment(s.cmdPath, f.Name) != nil {
					continue
				}
				if string(s.cmdPath.Bytes()) == string(s.absPath.Bytes()) {
					return f, nil
				}
			}
		case ScopeGlobal:
			for j := range n.files {
				if n.files[j].Name == token {
					return &n.files[j], nil
				}
			}
		}
	}
	return nil, ErrCommandNotFound
}

// Exec resolves argv[0] and runs the file's callback.
func (s *Shell) Exec(argv []string) ([]byte, error) {
	if len(argv) == 0 {
		return nil, ErrWrongArguments
	}
	f, err := s.FindByName(argv[0])
	if err != nil {
		return nil, err
	}
	if f.Exec == nil {
		return nil, nil
	}
	return f.Exec(s, f, argv)
}
