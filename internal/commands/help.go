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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "bizdesk help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  bizdesk                                             Open the interactive UI
  bizdesk ui [common flags]
  bizdesk entities [common flags]
  bizdesk list [common flags] [--search <name>] [--width <px>] <entity>
  bizdesk add [common flags] <entity> <key=value...>
  bizdesk create [common flags] <entity> <key=value...>
  bizdesk update [common flags] [--show] <entity> <id> [key=value...]
  bizdesk rm [common flags] [--yes] <entity> <id>
  bizdesk export [common flags] --out <file.xlsx> [--search <name>] <entity>
  bizdesk help
  bizdesk version [--verbose]

Entities:
  client, projet, salarie, absence, tache (plural forms accepted)

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs
`
