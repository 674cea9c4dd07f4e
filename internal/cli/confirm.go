package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errNoTerminal is returned when a delete needs confirmation but stdin
// cannot answer
var errNoTerminal = errors.New("confirmation required but stdin is not a terminal; use --force")

// stdinIsTerminal is swapped out in tests
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// confirm asks a y/N question unless force is set or confirm_delete is off
func confirm(cmd *cobra.Command, prompt string, force bool) (bool, error) {
	if force || (cfg != nil && !cfg.ConfirmDelete) {
		return true, nil
	}
	if !stdinIsTerminal() {
		return false, errNoTerminal
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N]: ", prompt)
	var response string
	_, _ = fmt.Fscanln(cmd.InOrStdin(), &response)
	return strings.EqualFold(strings.TrimSpace(response), "y"), nil
}

func parsePlanID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid plan id: %s", s)
	}
	return id, nil
}
