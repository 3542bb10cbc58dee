package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sokomo/apctl/internal/ap"
)

var interfacesCmd = &cobra.Command{
	Use:   "interfaces",
	Short: "List WiFi interfaces and their supported bands",
	Args:  cobra.NoArgs,
	RunE:  runInterfaces,
}

func runInterfaces(cmd *cobra.Command, args []string) error {
	nm, _, err := newManager()
	if err != nil {
		return err
	}
	snap, err := ap.TakeSnapshot(nm)
	if err != nil {
		return err
	}

	if len(snap.Interfaces) == 0 {
		fmt.Println("No WiFi interfaces found")
		return nil
	}

	prober := newProber()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tSTATE\tMANAGED\tBANDS")
	for _, ifc := range snap.Interfaces {
		managed := "no"
		if ifc.Managed {
			managed = "yes"
		}

		bands := "-"
		if !ifc.P2P {
			var ghz []string
			for _, b := range prober.SupportedBands(ifc.Name) {
				ghz = append(ghz, string(b)+"GHz")
			}
			if len(ghz) > 0 {
				bands = strings.Join(ghz, ", ")
			}
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", ifc.Name, ifc.Type, ifc.State, managed, bands)
	}
	return w.Flush()
}
