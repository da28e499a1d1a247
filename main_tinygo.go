//go:build tinygo

package main

import (
	"github.com/synco/microshell/app"
	"github.com/synco/microshell/hal"
)

func main() {
	app.Run(hal.New())
}
