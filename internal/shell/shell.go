// Package shell provides the interactive command shell for inspecting and
// editing a node graph: listing types, creating nodes, wiring pins,
// evaluating the graph, and emitting the JS registration bundle.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/vk/nodesmith/internal/config"
	"github.com/vk/nodesmith/internal/ctxlog"
	"github.com/vk/nodesmith/internal/registry"
)

// Shell is a line-oriented REPL over a loaded config model. Nodes and
// connections created in the shell mutate the model, so a later `evaluate`
// or `emit` sees them.
type Shell struct {
	w          io.Writer
	model      *config.Model
	registry   *registry.Registry
	converter  config.Converter
	emitBundle func() (string, error)
	workers    int
}

// New creates a shell over the given model and registry.
func New(w io.Writer, model *config.Model, r *registry.Registry, converter config.Converter, emitBundle func() (string, error), workers int) *Shell {
	return &Shell{
		w:          w,
		model:      model,
		registry:   r,
		converter:  converter,
		emitBundle: emitBundle,
		workers:    workers,
	}
}

// completer offers prefix completion for the command verbs.
var completer = readline.NewPrefixCompleter(
	readline.PcItem("types"),
	readline.PcItem("nodes"),
	readline.PcItem("create"),
	readline.PcItem("connect"),
	readline.PcItem("disconnect"),
	readline.PcItem("evaluate"),
	readline.PcItem("emit"),
	readline.PcItem("help"),
	readline.PcItem("exit"),
)

// Run reads and dispatches commands until EOF or `exit`. Command errors are
// printed and the loop continues; only readline failures abort the shell.
func (s *Shell) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer rl.Close()

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Shell started.")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil { // io.EOF
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]
		if cmd == "exit" {
			break
		}

		if err := s.dispatch(ctx, cmd, args); err != nil {
			fmt.Fprintf(s.w, "error: %v\n", err)
		}
	}

	logger.Debug("Shell finished.")
	return nil
}

func (s *Shell) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "types":
		return s.cmdTypes()
	case "nodes":
		return s.cmdNodes()
	case "create":
		return s.cmdCreate(args)
	case "connect":
		return s.cmdConnect(args)
	case "disconnect":
		return s.cmdDisconnect(args)
	case "evaluate":
		return s.cmdEvaluate(ctx)
	case "emit":
		return s.cmdEmit()
	case "help":
		return s.cmdHelp()
	default:
		return fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
}

func (s *Shell) cmdHelp() error {
	fmt.Fprint(s.w, `Commands:
  types                                 List the available node types
  nodes                                 List the defined nodes and wiring
  create <name> <type_key> [k=v ...]    Create a node instance
  connect <node>.<pin> <node>.<pin>     Wire an output pin to an input pin
  disconnect <node>.<pin> <node>.<pin>  Remove a connection
  evaluate                              Evaluate the current graph
  emit                                  Print the JS registration bundle
  exit                                  Leave the shell
`)
	return nil
}
