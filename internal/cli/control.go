package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sokomo/apctl/internal/ap"
)

var startCmd = &cobra.Command{
	Use:   "start [NAME]",
	Short: "Start an access point profile",
	Long:  `Activate an access point profile. Without a name, the first profile in alphabetical order is started.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(args, func(mgr *ap.Manager, snap *ap.Snapshot, name string) error {
			return mgr.Start(snap, name)
		})
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop [NAME]",
	Short: "Stop an access point profile",
	Long:  `Deactivate an access point profile. Without a name, every active access point profile is stopped.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(args, func(mgr *ap.Manager, snap *ap.Snapshot, name string) error {
			return mgr.Stop(snap, name)
		})
	},
}

var restartCmd = &cobra.Command{
	Use:   "restart [NAME]",
	Short: "Restart an access point profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(args, func(mgr *ap.Manager, snap *ap.Snapshot, name string) error {
			return mgr.Restart(snap, name)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <NAME>",
	Short: "Delete an access point profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runControl(args, func(mgr *ap.Manager, snap *ap.Snapshot, name string) error {
			return mgr.Delete(snap, name)
		})
	},
}

// runControl performs the shared setup for the profile control commands:
// privilege check, nmcli client, and a fresh state snapshot.
func runControl(args []string, op func(*ap.Manager, *ap.Snapshot, string) error) error {
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

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	return op(mgr, snap, name)
}

var statusCmd = &cobra.Command{
	Use:   "status [NAME]",
	Short: "Show access point status",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	nm, mgr, err := newManager()
	if err != nil {
		return err
	}
	snap, err := ap.TakeSnapshot(nm)
	if err != nil {
		return err
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	st, err := mgr.Status(snap, name)
	if err != nil {
		return err
	}

	state := "inactive"
	if st.Active {
		state = "active"
	}
	fmt.Printf("Profile:   %s (%s)\n", st.Name, state)
	fmt.Printf("SSID:      %s\n", st.SSID)
	fmt.Printf("Interface: %s\n", st.Device)
	fmt.Printf("Band:      %s\n", st.Band)
	fmt.Printf("Channel:   %s\n", st.Channel)
	fmt.Printf("Gateway:   %s\n", st.IPv4)
	return nil
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List access point profiles",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	nm, _, err := newManager()
	if err != nil {
		return err
	}
	snap, err := ap.TakeSnapshot(nm)
	if err != nil {
		return err
	}

	aps := snap.APProfiles()
	if len(aps) == 0 {
		fmt.Println("No access point profiles found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDEVICE\tACTIVE")
	for _, p := range aps {
		active := "no"
		if p.Active {
			active = "yes"
		}
		device := p.Device
		if device == "" {
			device = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, device, active)
	}
	return w.Flush()
}
