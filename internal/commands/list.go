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
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// The list renders as a table or as cards depending on the viewport width.
type ListCmd struct {
	search string
	width  int
}

// SetWidth sets the viewport width (for testing).
func (c *ListCmd) SetWidth(width int) {
	c.width = width
}

// SetSearch sets the name filter (for testing).
func (c *ListCmd) SetSearch(q string) {
	c.search = q
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List records" }
func (c *ListCmd) Usage() string      { return "bizdesk list [--search <name>] [--width <px>] <entity>" }
func (c *ListCmd) NeedsBackend() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.search, "search", "", "")
	fs.StringVar(&c.search, "s", "", "")
	fs.IntVar(&c.width, "width", 0, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.width < 0 {
		fmt.Fprintf(errOut, "error: invalid width: %d\n", c.width)
		return exitcode.UserError
	}
	if len(args) > 1 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[1])
		return exitcode.UserError
	}

	section, code := resolveSection(svc, args, errOut)
	if code != exitcode.Success {
		return code
	}

	styles := applyWidth(cfg, svc, c.width, out)
	if err := section.Load(ctx, c.search); err != nil {
		return exitFor(err)
	}

	output.FormatList(out, section.Render(svc.Class()), styles, cfg.Quiet)
	return exitcode.Success
}
