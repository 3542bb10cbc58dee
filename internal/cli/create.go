package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sokomo/apctl/internal/ap"
	"github.com/sokomo/apctl/internal/types"
)

var (
	createReplace bool
	createKeep    bool
	createBand    string
)

var createCmd = &cobra.Command{
	Use:   "create <SSID> <PASSWORD> [INTERFACE] [CHANNEL|auto] [IP_CIDR] [BAND]",
	Short: "Create and start a WiFi access point",
	Long: `Create a NetworkManager access point profile and bring it up.
Optional arguments may be given in any order after SSID and PASSWORD:
an interface name, a channel number (or 'auto' to pick the least-congested
one), a gateway address in CIDR notation, and a band (2.4 or 5).
A bare '5' fills the channel slot first; request the 5GHz band with
--band=5, or positionally after a channel or 'auto'.
With no interface given, a running AP's interface is reused, or the single
managed WiFi interface is picked automatically.`,
	Args: cobra.RangeArgs(2, 6),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().BoolVar(&createReplace, "replace", false, "replace an existing profile without asking")
	createCmd.Flags().BoolVar(&createKeep, "keep", false, "restart an existing profile with its current settings")
	createCmd.Flags().StringVar(&createBand, "band", "", "frequency band (2.4 or 5)")
}

func runCreate(cmd *cobra.Command, args []string) error {
	if err := ensureRoot(); err != nil {
		return err
	}

	ssid := args[0]
	password := args[1]
	if err := ap.ValidateSSID(ssid); err != nil {
		return err
	}
	if err := ap.ValidatePassword(password); err != nil {
		return err
	}

	iface, channel, autoChannel, ipCIDR, band, err := classifyCreateArgs(args[2:])
	if err != nil {
		return err
	}
	if createBand != "" {
		band = types.Band(createBand)
		if !band.Valid() {
			return fmt.Errorf("invalid band %q (want 2.4 or 5)", createBand)
		}
	}

	// Infer the band from an explicit channel, falling back to the
	// configured default.
	if band == "" {
		if channel > 14 {
			band = types.Band5
		} else {
			band = cfg.DefaultBand
		}
	}
	if channel != 0 {
		if err := ap.ValidateChannel(band, channel); err != nil {
			return err
		}
	}
	if ipCIDR == "" {
		ipCIDR = cfg.GatewayCIDR
	}
	if err := ap.ValidateIPCIDR(ipCIDR); err != nil {
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

	if iface == "" {
		iface, err = ap.SelectInterface(snap)
		if err != nil {
			return err
		}
		fmt.Printf("Using interface %s\n", iface)
	} else {
		found := snap.FindInterface(iface)
		if found == nil {
			return fmt.Errorf("interface %q not found", iface)
		}
		if found.P2P {
			return fmt.Errorf("interface %q is a P2P interface, unsuitable for AP mode", iface)
		}
	}

	if !newProber().SupportsBand(iface, band) {
		return fmt.Errorf("interface %q does not support the %sGHz band", iface, band)
	}

	if channel == 0 || autoChannel {
		selector := ap.NewChannelSelector(nm, cfg.ScanSettle())
		channel, err = selector.Select(iface, band, ssid)
		if err != nil {
			return err
		}
		fmt.Printf("Auto-selected channel %d on the %sGHz band\n", channel, band)
	}

	apCfg := types.APConfig{
		SSID:      ssid,
		Password:  password,
		Interface: iface,
		Band:      band,
		Channel:   channel,
		IPCIDR:    ipCIDR,
	}
	if err := ap.Validate(apCfg); err != nil {
		return err
	}

	return mgr.Create(snap, apCfg, ap.CreateOptions{Replace: createReplace, Keep: createKeep})
}

// classifyCreateArgs sorts the optional positional arguments by shape:
// 'auto' or a number is a channel, a value with a slash is the gateway
// CIDR, 2.4/5 is a band, anything else is an interface name.
//
// A bare "5" is ambiguous between 2.4GHz channel 5 and the 5GHz band. The
// channel slot comes before the band slot in the argument grammar, so "5"
// fills the channel slot while it is empty and reads as the band once a
// channel (or 'auto') has been given; the 5GHz band alone is expressed as
// "auto 5" or via --band.
func classifyCreateArgs(extra []string) (iface string, channel int, autoChannel bool, ipCIDR string, band types.Band, err error) {
	for _, arg := range extra {
		switch {
		case arg == "auto":
			autoChannel = true
		case arg == string(types.Band24):
			band = types.Band24
		case arg == string(types.Band5):
			if channel == 0 && !autoChannel {
				channel = 5
				continue
			}
			band = types.Band5
		case strings.Contains(arg, "/"):
			ipCIDR = arg
		default:
			if n, convErr := strconv.Atoi(arg); convErr == nil {
				channel = n
				continue
			}
			if iface != "" {
				return "", 0, false, "", "", fmt.Errorf("unrecognized argument %q", arg)
			}
			iface = arg
		}
	}
	if autoChannel && channel != 0 {
		return "", 0, false, "", "", fmt.Errorf("channel %d and 'auto' are mutually exclusive", channel)
	}
	return iface, channel, autoChannel, ipCIDR, band, nil
}
