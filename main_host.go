//go:build !tinygo

package main

import "github.com/synco/microshell/internal/cli"

func main() {
	cli.Execute()
}
