package cli

import (
	"github.com/spf13/cobra"

	"github.com/sokomo/apctl/internal/ap"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove all access point profiles and restore client mode",
	Long: `Delete every access point profile and return all WiFi interfaces to
managed client mode. Profiles that fail to delete are reported as warnings;
the reset always runs to completion and is safe to repeat.`,
	Args: cobra.NoArgs,
	RunE: runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	if err := ensureRoot(); err != nil {
		return err
	}

	nm, mgr, err := newManager()
	if err != nil {
		return err
	}
	snap, err := ap.TakeSnapshot(nm)
	if err != nil {
		return err
	}

	if !mgr.Confirm("Remove all access point profiles and restore client mode?") {
		return ap.ErrAborted
	}
	return mgr.Reset(snap)
}
