//
// Purua version 0.1
//
// A small Lua-flavoured scripting language: a scannerless parser, a
// tree-walking evaluator, and a register-stack calling convention
// shared by native and interpreted functions.
//

package main

import (
	"fmt"
	"os"

	"github.com/udzura/purua-old/evaluator"
	"github.com/udzura/purua-old/initializer"
	"github.com/udzura/purua-old/object"
	"github.com/udzura/purua-old/parser"
	"github.com/udzura/purua-old/repl"
	"github.com/udzura/purua-old/text"
)

func main() {
	config, err := initializer.LoadConfig(initializer.DefaultConfigFile)
	if err != nil {
		fail(err)
	}

	if len(os.Args) > 1 {
		runScript(os.Args[1], config)
		return
	}

	fmt.Print(text.Logo())
	repl.Start(config, os.Stdout)
}

func runScript(path string, config *initializer.Config) {
	contents, rerr := os.ReadFile(path)
	if rerr != nil {
		fail(object.CreateErr("init/file", path))
	}
	chunk, err := parser.Parse(string(contents))
	if err != nil {
		fail(err)
	}
	s := initializer.NewState(config, os.Stdout)
	if _, err := evaluator.Run(s, chunk); err != nil {
		fail(err)
	}
}

func fail(err *object.Error) {
	fmt.Fprintln(os.Stderr, text.ERROR+err.Message)
	os.Exit(1)
}
