package ap

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/sokomo/apctl/internal/netman"
	"github.com/sokomo/apctl/internal/types"
)

// ErrAborted is returned when the operator declines a confirmation prompt.
// It is a benign cancel, not a failure.
var ErrAborted = errors.New("aborted by user")

// ErrNoAPProfile is returned when an operation needs an AP profile and none
// exists.
var ErrNoAPProfile = errors.New("no access point profile found")

// Manager brings NetworkManager connection profiles into the state implied
// by an APConfig.
type Manager struct {
	nm       *netman.Client
	selector *ChannelSelector

	// Confirm asks the operator a yes/no question. The CLI injects either
	// a stdin prompt or an auto-confirm when --force is set.
	Confirm func(prompt string) bool
}

// NewManager creates a Manager. The default Confirm declines everything so
// a missing injection never silently mutates state.
func NewManager(nm *netman.Client, selector *ChannelSelector) *Manager {
	return &Manager{
		nm:       nm,
		selector: selector,
		Confirm:  func(string) bool { return false },
	}
}

// CreateOptions control how Create treats an existing profile.
type CreateOptions struct {
	// Replace deletes and recreates an existing profile without asking.
	Replace bool
	// Keep restarts an existing profile with its current settings without
	// asking.
	Keep bool
}

// Create brings up an access point from a fully validated configuration.
// If a profile with the derived name already exists the operator chooses
// between replacing it and restarting it as-is, unless an option preempts
// the prompt.
func (m *Manager) Create(snap *Snapshot, cfg types.APConfig, opts CreateOptions) error {
	name := ProfileName(cfg.SSID)

	if existing := snap.FindProfile(name); existing != nil {
		state := "inactive"
		if existing.Active {
			state = "active"
		}
		fmt.Printf("Profile '%s' already exists (%s)\n", name, state)

		replace := opts.Replace
		if !replace && !opts.Keep {
			if !m.Confirm(fmt.Sprintf("Replace profile '%s' with the new settings?", name)) {
				return ErrAborted
			}
			replace = true
		}

		if !replace {
			fmt.Printf("Restarting '%s' with existing settings\n", name)
			return m.Restart(snap, name)
		}

		if existing.Active {
			if err := m.nm.DeactivateConnection(name); err != nil {
				logrus.Warnf("could not deactivate %s before replacing: %v", name, err)
			}
		}
		if err := m.nm.DeleteConnection(name); err != nil {
			return err
		}
	}

	fmt.Printf("Creating profile '%s' on %s (%sGHz, channel %d)\n", name, cfg.Interface, cfg.Band, cfg.Channel)
	if err := m.nm.AddConnection(
		"type", "wifi",
		"ifname", cfg.Interface,
		"con-name", name,
		"autoconnect", "no",
		"ssid", cfg.SSID,
		"802-11-wireless.mode", "ap",
		"802-11-wireless.band", cfg.Band.NMValue(),
		"802-11-wireless.channel", strconv.Itoa(cfg.Channel),
		"ipv4.method", "shared",
		"ipv4.addresses", cfg.IPCIDR,
		"ipv6.method", "disabled",
		"wifi-sec.key-mgmt", "wpa-psk",
		"wifi-sec.proto", "rsn",
		"wifi-sec.pairwise", "ccmp",
		"wifi-sec.group", "ccmp",
		"wifi-sec.psk", cfg.Password,
		"802-11-wireless-security.wps-method", "disabled",
	); err != nil {
		return err
	}

	if err := m.nm.ActivateConnection(name); err != nil {
		return err
	}
	fmt.Printf("Access point '%s' is up\n", cfg.SSID)
	return nil
}

// UpdateBand changes only the band and channel of an existing profile,
// preserving every other setting. An active profile is stopped first and
// restarted afterwards; a restart failure is reported distinctly from an
// update failure.
func (m *Manager) UpdateBand(snap *Snapshot, name string, band types.Band, channel int, auto bool) error {
	profile := snap.FindProfile(name)
	if profile == nil {
		return fmt.Errorf("profile %q not found", name)
	}

	fields, err := m.nm.ShowProfile(name)
	if err != nil {
		return err
	}
	iface := fields["connection.interface-name"]
	if iface == "" {
		iface = profile.Device
	}
	ssid := fields["802-11-wireless.ssid"]

	if auto {
		if iface == "" {
			return fmt.Errorf("profile %q has no interface, cannot auto-select a channel", name)
		}
		channel, err = m.selector.Select(iface, band, ssid)
		if err != nil {
			return err
		}
		fmt.Printf("Auto-selected channel %d on the %sGHz band\n", channel, band)
	}
	if err := ValidateChannel(band, channel); err != nil {
		return err
	}

	if profile.Active {
		if err := m.nm.DeactivateConnection(name); err != nil {
			logrus.Warnf("could not stop %s before updating: %v", name, err)
		}
	}

	if err := m.nm.ModifyConnection(name,
		"802-11-wireless.band", band.NMValue(),
		"802-11-wireless.channel", strconv.Itoa(channel),
	); err != nil {
		return fmt.Errorf("band update failed: %w", err)
	}
	fmt.Printf("Profile '%s' moved to %sGHz channel %d\n", name, band, channel)

	if profile.Active {
		if err := m.nm.ActivateConnection(name); err != nil {
			return fmt.Errorf("profile updated but restart failed: %w", err)
		}
		fmt.Printf("Profile '%s' restarted\n", name)
	}
	return nil
}

// Start activates an AP profile. With an empty name the lexicographically
// first AP profile is used, a deliberate documented order.
func (m *Manager) Start(snap *Snapshot, name string) error {
	name, err := m.resolveName(snap, name)
	if err != nil {
		return err
	}
	if err := m.nm.ActivateConnection(name); err != nil {
		return err
	}
	fmt.Printf("Started '%s'\n", name)
	return nil
}

// Stop deactivates an AP profile, or every active AP profile when no name
// is given. Individual failures are warnings.
func (m *Manager) Stop(snap *Snapshot, name string) error {
	if name != "" {
		if err := m.nm.DeactivateConnection(name); err != nil {
			return err
		}
		fmt.Printf("Stopped '%s'\n", name)
		return nil
	}

	stopped := 0
	for _, p := range m.sortedAPProfiles(snap) {
		if !p.Active {
			continue
		}
		if err := m.nm.DeactivateConnection(p.Name); err != nil {
			logrus.Warnf("could not stop %s: %v", p.Name, err)
			continue
		}
		fmt.Printf("Stopped '%s'\n", p.Name)
		stopped++
	}
	if stopped == 0 {
		fmt.Println("No active access point profiles")
	}
	return nil
}

// Restart stops and starts an AP profile. The stop is best-effort; an
// inactive profile restarts cleanly.
func (m *Manager) Restart(snap *Snapshot, name string) error {
	name, err := m.resolveName(snap, name)
	if err != nil {
		return err
	}
	if p := snap.FindProfile(name); p != nil && p.Active {
		if err := m.nm.DeactivateConnection(name); err != nil {
			logrus.Warnf("could not stop %s before restart: %v", name, err)
		}
	}
	if err := m.nm.ActivateConnection(name); err != nil {
		return err
	}
	fmt.Printf("Restarted '%s'\n", name)
	return nil
}

// Delete deactivates and removes an AP profile.
func (m *Manager) Delete(snap *Snapshot, name string) error {
	profile := snap.FindProfile(name)
	if profile == nil {
		return fmt.Errorf("profile %q not found", name)
	}
	if profile.Active {
		if err := m.nm.DeactivateConnection(name); err != nil {
			logrus.Warnf("could not deactivate %s before deleting: %v", name, err)
		}
	}
	if err := m.nm.DeleteConnection(name); err != nil {
		return err
	}
	fmt.Printf("Deleted '%s'\n", name)
	return nil
}

// ProfileStatus describes one profile for status reporting.
type ProfileStatus struct {
	Name    string
	SSID    string
	Band    string
	Channel string
	Device  string
	IPv4    string
	Active  bool
}

// Status reads the interesting fields of an AP profile. With an empty name
// the lexicographically first AP profile is used.
func (m *Manager) Status(snap *Snapshot, name string) (*ProfileStatus, error) {
	name, err := m.resolveName(snap, name)
	if err != nil {
		return nil, err
	}
	profile := snap.FindProfile(name)
	if profile == nil {
		return nil, fmt.Errorf("profile %q not found", name)
	}

	fields, err := m.nm.ShowProfile(name)
	if err != nil {
		return nil, err
	}
	return &ProfileStatus{
		Name:    name,
		SSID:    fields["802-11-wireless.ssid"],
		Band:    fields["802-11-wireless.band"],
		Channel: fields["802-11-wireless.channel"],
		Device:  fields["connection.interface-name"],
		IPv4:    fields["ipv4.addresses"],
		Active:  profile.Active,
	}, nil
}

// resolveName substitutes the lexicographically first AP profile for an
// empty name.
func (m *Manager) resolveName(snap *Snapshot, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	aps := m.sortedAPProfiles(snap)
	if len(aps) == 0 {
		return "", ErrNoAPProfile
	}
	return aps[0].Name, nil
}

func (m *Manager) sortedAPProfiles(snap *Snapshot) []types.Profile {
	aps := snap.APProfiles()
	sort.Slice(aps, func(i, j int) bool { return aps[i].Name < aps[j].Name })
	return aps
}
