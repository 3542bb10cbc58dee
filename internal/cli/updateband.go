package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/sokomo/apctl/internal/ap"
	"github.com/sokomo/apctl/internal/types"
)

var updateBandCmd = &cobra.Command{
	Use:   "update-band <NAME> <BAND> [CHANNEL|auto]",
	Short: "Change the band and channel of an existing profile",
	Long: `Modify only the band and channel of an access point profile, leaving
the SSID, password, and every other setting untouched. An active profile is
stopped first and restarted after the change.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runUpdateBand,
}

func runUpdateBand(cmd *cobra.Command, args []string) error {
	if err := ensureRoot(); err != nil {
		return err
	}

	name := args[0]
	band := types.Band(args[1])
	if !band.Valid() {
		return fmt.Errorf("invalid band %q (want 2.4 or 5)", args[1])
	}

	channel := 0
	auto := true
	if len(args) == 3 && args[2] != "auto" {
		n, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid channel %q", args[2])
		}
		channel = n
		auto = false
		if err := ap.ValidateChannel(band, channel); err != nil {
			return err
		}
	}

	nm, mgr, err := newManager()
	if err != nil {
		return err
	}
	snap, err := ap.TakeSnapshot(nm)
	if err != nil {
		return err
	}
	return mgr.UpdateBand(snap, name, band, channel, auto)
}
