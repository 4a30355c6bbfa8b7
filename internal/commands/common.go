package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"bizdesk/internal/config"
	"bizdesk/internal/entity"
	"bizdesk/internal/exitcode"
	"bizdesk/internal/service"
	"bizdesk/internal/view"
)

// resolveSection finds the section named by args[0].
func resolveSection(svc service.Service, args []string, errOut io.Writer) (entity.Section, int) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(errOut, "error: entity required")
		return nil, exitcode.UserError
	}
	s, ok := svc.Section(args[0])
	if !ok {
		fmt.Fprintf(errOut, "error: unknown entity: %s\n", args[0])
		return nil, exitcode.UserError
	}
	return s, exitcode.Success
}

// parseID parses a record ID argument.
func parseID(arg string, errOut io.Writer) (int, int) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 1 {
		fmt.Fprintf(errOut, "error: invalid id: %s\n", arg)
		return 0, exitcode.UserError
	}
	return id, exitcode.Success
}

// parseAssignments turns key=value arguments into form values.
func parseAssignments(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid assignment: %s (expected key=value)", arg)
		}
		values[key] = value
	}
	return values, nil
}

// exitFor maps an already-notified section error to an exit code.
func exitFor(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, entity.ErrValidation),
		errors.Is(err, entity.ErrUnknownRecord),
		errors.Is(err, entity.ErrUnknownField),
		errors.Is(err, entity.ErrNoSearch):
		return exitcode.UserError
	default:
		return exitcode.BackendError
	}
}

// terminal reports whether w is a terminal, and its width in columns.
func terminal(w io.Writer) (bool, int) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false, 0
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return true, 0
	}
	return true, cols
}

// applyWidth sets the viewport from --width, else from the terminal size.
// Returns the styles matching the output.
func applyWidth(cfg *config.Config, svc service.Service, width int, out io.Writer) view.Styles {
	isTTY, cols := terminal(out)
	switch {
	case width > 0:
		svc.SetWidth(width)
	case cols > 0:
		svc.SetWidth(cols * cfg.CellWidth)
	}
	if isTTY {
		return view.DefaultStyles()
	}
	return view.PlainStyles()
}
