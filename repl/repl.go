package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/lmorg/readline"

	"github.com/udzura/purua-old/evaluator"
	"github.com/udzura/purua-old/initializer"
	"github.com/udzura/purua-old/object"
	"github.com/udzura/purua-old/parser"
	"github.com/udzura/purua-old/text"
)

// Start runs the interactive loop. One state lives for the whole
// session, so globals and function declarations persist from line to
// line.
func Start(config *initializer.Config, out io.Writer) {
	s := initializer.NewState(config, out)
	rline := readline.NewInstance()
	rline.SetPrompt(config.Prompt)
	for {
		line, err := rline.Readline()
		if err != nil {
			fmt.Fprintln(out, text.ERROR, err)
			return
		}

		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}
		if line == "quit" {
			break
		}

		chunk, perr := parser.Parse(line)
		if perr != nil {
			fmt.Fprintln(out, text.ERROR+perr.Message)
			continue
		}
		value, rerr := evaluator.Run(s, chunk)
		if rerr != nil {
			fmt.Fprintln(out, text.ERROR+rerr.Message)
			continue
		}
		if value != object.NIL {
			fmt.Fprintln(out, value.Inspect(object.ViewLiteral))
		}
	}
}
