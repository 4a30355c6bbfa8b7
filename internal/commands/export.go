package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"bizdesk/internal/config"
	"bizdesk/internal/exitcode"
	"bizdesk/internal/output"
	"bizdesk/internal/service"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd writes a list to an .xlsx workbook.
type ExportCmd struct {
	out    string
	search string
}

func (c *ExportCmd) Name() string       { return "export" }
func (c *ExportCmd) Aliases() []string  { return nil }
func (c *ExportCmd) Synopsis() string   { return "Export records to a spreadsheet" }
func (c *ExportCmd) Usage() string      { return "bizdesk export --out <file.xlsx> [--search <name>] <entity>" }
func (c *ExportCmd) NeedsBackend() bool { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.out, "out", "", "")
	fs.StringVar(&c.out, "o", "", "")
	fs.StringVar(&c.search, "search", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.out == "" {
		fmt.Fprintln(errOut, "error: --out required")
		return exitcode.UserError
	}
	if !strings.EqualFold(filepath.Ext(c.out), ".xlsx") {
		fmt.Fprintf(errOut, "error: output must be an .xlsx file: %s\n", c.out)
		return exitcode.UserError
	}

	section, code := resolveSection(svc, args, errOut)
	if code != exitcode.Success {
		return code
	}
	if err := section.Load(ctx, c.search); err != nil {
		return exitFor(err)
	}

	header, rows := section.Export()
	if err := output.WriteXLSX(c.out, section.Title(), header, rows); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "%d rows written to %s\n", len(rows), c.out)
	}
	return exitcode.Success
}
