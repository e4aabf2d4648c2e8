package main

import (
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/urfave/cli"

	"github.com/aptos-labs/aptos-core-sub004/pkg/interpreter"
	"github.com/aptos-labs/aptos-core-sub004/pkg/values"
)

func newRunCommand() cli.Command {
	return cli.Command{
		Name:      "run",
		Usage:     "execute a built-in fixture scenario and print its results",
		ArgsUsage: "<scenario>",
		Description: "Available scenarios: " + scenarioNames() + "\n" +
			"Each one is a tiny in-process function, standing in for a\n" +
			"deserialized module since this tool ships no bytecode loader.",
		Action: runScenario,
	}
}

func scenarioNames() string {
	var names []string
	for _, s := range builtinScenarios() {
		names = append(names, s.name)
	}
	return strings.Join(names, ", ")
}

func runScenario(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError(fmt.Sprintf("usage: movevm run <scenario>\navailable: %s", scenarioNames()), 1)
	}
	name := c.Args().First()

	for _, s := range builtinScenarios() {
		if s.name != name {
			continue
		}
		resolver := s.resolver
		if resolver == nil {
			resolver = &fixtureResolver{}
		}

		cfg := interpreter.DefaultConfig()
		gasMeter := &fixtureGasMeter{}
		vm := interpreter.New(cfg, resolver, fixtureDataStore{}, gasMeter, fixtureNatives{}, newLogger(c))
		vm.Trace = c.GlobalBool("verbose")

		results, err := vm.Entrypoint(s.fn, nil, s.args)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("movevm: scenario %q failed: %v", name, err), 1)
		}

		fmt.Fprintf(c.App.Writer, "scenario %q results:\n", name)
		for i, v := range results {
			fmt.Fprintf(c.App.Writer, "  [%d] %s\n", i, renderValue(v))
		}
		fmt.Fprintf(c.App.Writer, "gas consumed: %d\n", gasMeter.charged)
		return nil
	}
	return cli.NewExitError(fmt.Sprintf("movevm: unknown scenario %q (available: %s)", name, scenarioNames()), 1)
}

// renderValue prints a runtime value for the CLI; addresses render the way
// Move/Aptos tooling renders account addresses, through base58.
func renderValue(v values.Value) string {
	switch v.Kind() {
	case values.KindU8:
		return fmt.Sprintf("u8(%d)", v.U8())
	case values.KindU16:
		return fmt.Sprintf("u16(%d)", v.U16())
	case values.KindU32:
		return fmt.Sprintf("u32(%d)", v.U32())
	case values.KindU64:
		return fmt.Sprintf("u64(%d)", v.U64())
	case values.KindU128:
		return fmt.Sprintf("u128(%s)", v.U128().String())
	case values.KindU256:
		return fmt.Sprintf("u256(%s)", v.U256().String())
	case values.KindBool:
		return fmt.Sprintf("bool(%t)", v.Bool())
	case values.KindAddress, values.KindSigner:
		addr := v.Address()
		return fmt.Sprintf("%s(%s)", v.Kind(), base58.Encode(addr[:]))
	case values.KindVector:
		elems := v.Vector().Elems
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = renderValue(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return v.Kind().String()
	}
}
