package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"bizdesk/internal/config"
	"bizdesk/internal/exitcode"
	"bizdesk/internal/output"
	"bizdesk/internal/service"
)

func init() {
	Register(&UpdateCmd{})
}

// UpdateCmd implements the update command. Values not given keep the
// record's current values.
type UpdateCmd struct {
	show bool
}

func (c *UpdateCmd) Name() string       { return "update" }
func (c *UpdateCmd) Aliases() []string  { return []string{"edit"} }
func (c *UpdateCmd) Synopsis() string   { return "Update a record" }
func (c *UpdateCmd) Usage() string      { return "bizdesk update [--show] <entity> <id> [key=value...]" }
func (c *UpdateCmd) NeedsBackend() bool { return true }

func (c *UpdateCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.show, "show", false, "")
}

func (c *UpdateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	section, code := resolveSection(svc, args, errOut)
	if code != exitcode.Success {
		return code
	}
	if len(args) < 2 {
		fmt.Fprintln(errOut, "error: id required")
		return exitcode.UserError
	}
	id, code := parseID(args[1], errOut)
	if code != exitcode.Success {
		return code
	}

	values, err := parseAssignments(args[2:])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := section.Load(ctx, ""); err != nil {
		return exitFor(err)
	}

	// --show prints the bound form without submitting.
	if c.show {
		form, err := section.Edit(id)
		if err != nil {
			return exitFor(err)
		}
		output.FormatForm(out, form, section.Fields())
		section.CancelEdit()
		return exitcode.Success
	}

	if len(values) == 0 {
		fmt.Fprintln(errOut, "error: values required (key=value)")
		return exitcode.UserError
	}
	return exitFor(section.Update(ctx, id, values))
}
