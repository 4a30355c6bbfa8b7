package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"bizdesk/internal/config"
	"bizdesk/internal/exitcode"
	"bizdesk/internal/service"
)

func init() {
	Register(&AddCmd{})
	Register(&CreateCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return nil }
func (c *AddCmd) Synopsis() string   { return "Create a record" }
func (c *AddCmd) Usage() string      { return "bizdesk add <entity> <key=value...>" }
func (c *AddCmd) NeedsBackend() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, svc, args, errOut)
}

// CreateCmd is an alias for AddCmd.
type CreateCmd struct{}

func (c *CreateCmd) Name() string       { return "create" }
func (c *CreateCmd) Aliases() []string  { return nil }
func (c *CreateCmd) Synopsis() string   { return "Create a record (alias for add)" }
func (c *CreateCmd) Usage() string      { return "bizdesk create <entity> <key=value...>" }
func (c *CreateCmd) NeedsBackend() bool { return true }

func (c *CreateCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CreateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, svc, args, errOut)
}

// runAdd is the shared implementation for add and create commands.
// The success notice is printed by the notifier.
func runAdd(ctx context.Context, svc service.Service, args []string, errOut io.Writer) int {
	section, code := resolveSection(svc, args, errOut)
	if code != exitcode.Success {
		return code
	}
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: values required (key=value)")
		return exitcode.UserError
	}

	values, err := parseAssignments(args[1:])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	return exitFor(section.Create(ctx, values))
}
