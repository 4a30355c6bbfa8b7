package commands

import (
	"context"
	"flag"
	"io"

	"bizdesk/internal/config"
	"bizdesk/internal/exitcode"
	"bizdesk/internal/output"
	"bizdesk/internal/service"
)

func init() {
	Register(&EntitiesCmd{})
}

// EntitiesCmd prints the sections in tab order.
type EntitiesCmd struct{}

func (c *EntitiesCmd) Name() string       { return "entities" }
func (c *EntitiesCmd) Aliases() []string  { return []string{"tabs"} }
func (c *EntitiesCmd) Synopsis() string   { return "List entity types" }
func (c *EntitiesCmd) Usage() string      { return "bizdesk entities" }
func (c *EntitiesCmd) NeedsBackend() bool { return true }

func (c *EntitiesCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EntitiesCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	output.FormatSections(out, svc.Sections())
	return exitcode.Success
}
