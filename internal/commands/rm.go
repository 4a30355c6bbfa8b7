package commands

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"bizdesk/internal/config"
	"bizdesk/internal/entity"
	"bizdesk/internal/exitcode"
	"bizdesk/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	yes bool
	in  io.Reader
}

// SetInput sets where the confirmation answer is read from (for testing).
func (c *RmCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a record" }
func (c *RmCmd) Usage() string      { return "bizdesk rm [--yes] <entity> <id>" }
func (c *RmCmd) NeedsBackend() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
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

	var confirm entity.Confirmer
	if !c.yes {
		confirm = c.prompt(errOut)
	}

	deleted, err := section.Delete(ctx, id, confirm)
	if err != nil {
		return exitFor(err)
	}
	if !deleted && !cfg.Quiet {
		fmt.Fprintln(out, "cancelled")
	}
	return exitcode.Success
}

// prompt asks on errOut and reads one answer line.
func (c *RmCmd) prompt(errOut io.Writer) entity.Confirmer {
	in := c.in
	if in == nil {
		in = os.Stdin
	}
	return func(question string) bool {
		fmt.Fprintf(errOut, "%s [o/N] ", question)
		line, _ := bufio.NewReader(in).ReadString('\n')
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "o", "oui", "y", "yes":
			return true
		default:
			return false
		}
	}
}
