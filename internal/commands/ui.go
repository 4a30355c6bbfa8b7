package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"bizdesk/internal/config"
	"bizdesk/internal/exitcode"
	"bizdesk/internal/notify"
	"bizdesk/internal/service"
	"bizdesk/internal/tui"
)

func init() {
	Register(&UICmd{surface: notify.NewSurface()})
}

// UICmd opens the interactive tabbed UI.
type UICmd struct {
	surface *notify.Surface
}

func (c *UICmd) Name() string       { return "ui" }
func (c *UICmd) Aliases() []string  { return nil }
func (c *UICmd) Synopsis() string   { return "Open the interactive UI" }
func (c *UICmd) Usage() string      { return "bizdesk ui" }
func (c *UICmd) NeedsBackend() bool { return true }

// Surface implements Interactive.
func (c *UICmd) Surface() *notify.Surface {
	if c.surface == nil {
		c.surface = notify.NewSurface()
	}
	return c.surface
}

func (c *UICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *UICmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if err := tui.Run(ctx, svc, c.Surface(), cfg.CellWidth); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
