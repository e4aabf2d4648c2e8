// Command movevm is a small command-line front end over pkg/interpreter,
// in the spirit of the teacher's cli/vm interactive disassembler: it does
// not run a REPL, but offers a disasm subcommand over a pre-deserialized
// code unit and a run subcommand that drives a handful of in-process
// fixture scenarios through the interpreter.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/urfave/cli"
	"go.uber.org/zap"
)

var version = "dev"

func versionPrinter(c *cli.Context) {
	_, _ = fmt.Fprintf(c.App.Writer, "movevm\nVersion: %s\nGoVersion: %s\n", version, runtime.Version())
}

// newApp builds the cli.App the way the teacher's cli/app.New assembles
// neo-go's top-level command set.
func newApp() *cli.App {
	cli.VersionPrinter = versionPrinter
	app := cli.NewApp()
	app.Name = "movevm"
	app.Version = version
	app.Usage = "Move bytecode VM execution engine"
	app.ErrWriter = os.Stdout
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "verbose", Usage: "enable debug-level opcode tracing"},
	}
	app.Commands = []cli.Command{
		newDisasmCommand(),
		newRunCommand(),
	}
	return app
}

func newLogger(c *cli.Context) *zap.Logger {
	if !c.GlobalBool("verbose") {
		return zap.NewNop()
	}
	cfg := zap.NewDevelopmentConfig()
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
