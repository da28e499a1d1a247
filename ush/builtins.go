package ush

const (
	colorGreen = "\x1b[32m"
	colorReset = "\x1b[0m"
)

// BuiltinFiles returns the reference global file set: help, ls, cd, pwd.
func BuiltinFiles() []File {
	return []File{
		{
			Name:        "help",
			Description: "print available commands",
			Help:        "help: help [cmd]\r\n\tShow help information for file or command.\r\n",
			Exec:        cmdHelp,
		},
		{
			Name:        "ls",
			Description: "print current directory content",
			Help:        "ls: ls\r\n\tPrint current directory content.\r\n",
			Exec:        cmdLs,
		},
		{
			Name:        "cd",
			Description: "change current directory",
			Help:        "cd: cd [path]\r\n\tChange current working directory.\r\n",
			Exec:        cmdCd,
		},
		{
			Name:        "pwd",
			Description: "print current directory",
			Help:        "pwd: pwd\r\n\tPrint current working directory path.\r\n",
			Exec:        cmdPwd,
		},
	}
}

func cmdHelp(sh *Shell, _ *File, argv []string) ([]byte, error) {
	out := sh.Output()
	out.Reset()

	switch len(argv) {
	case 1:
		if g := sh.Node(sh.global); g != nil {
			if err := writeFileList(out, g.files); err != nil {
				return nil, err
			}
		}
		if cur := sh.Node(sh.current); cur != nil {
			if err := writeFileList(out, cur.files); err != nil {
				return nil, err
			}
		}
		return out.Bytes(), nil
	case 2:
		f, err := sh.FindByName(argv[1])
		if err != nil {
			return nil, err
		}
		if f.Help == "" {
			return nil, ErrNoHelpAvailable
		}
		if err := out.WriteString(f.Help); err != nil {
			return nil, err
		}
		return out.Bytes(), nil
	default:
		return nil, ErrWrongArguments
	}
}

func cmdLs(sh *Shell, _ *File, argv []string) ([]byte, error) {
	if len(argv) != 1 {
		return nil, ErrWrongArguments
	}
	out := sh.Output()
	out.Reset()

	cwd := sh.dirPath
	if err := sh.CurrentDir(cwd); err != nil {
		return nil, err
	}

	// Sub-directories first: nodes mounted right under the current one.
	for i := range sh.nodes {
		n := &sh.nodes[i]
		if NodeID(i) == sh.current || n.scope != ScopeMounted || !cwd.equal(n.mountPoint) {
			continue
		}
		if err := writeAll(out, colorGreen, n.name, colorReset, "\r\n"); err != nil {
			return nil, err
		}
	}

	if cur := sh.Node(sh.current); cur != nil {
		if err := writeFileList(out, cur.files); err != nil {
			return nil, err
		}
	}
	return out.Bytes(), nil
}

func cmdCd(sh *Shell, _ *File, argv []string) ([]byte, error) {
	if len(argv) != 2 {
		return nil, ErrWrongArguments
	}
	if sh.SetCurrentDir(argv[1]) != nil {
		return nil, ErrDirectoryNotFound
	}
	return nil, nil
}

func cmdPwd(sh *Shell, _ *File, argv []string) ([]byte, error) {
	if len(argv) != 1 {
		return nil, ErrWrongArguments
	}
	out := sh.Output()
	if err := sh.CurrentDir(out); err != nil {
		return nil, err
	}
	if err := out.WriteString("\r\n"); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func writeFileList(out *Buffer, files []File) error {
	for i := range files {
		f := &files[i]
		if err := writeAll(out, f.Name, "\t", f.Description, "\r\n"); err != nil {
			return err
		}
	}
	return nil
}

func writeAll(out *Buffer, parts ...string) error {
	for _, p := range parts {
		if err := out.WriteString(p); err != nil {
			return err
		}
	}
	return nil
}
