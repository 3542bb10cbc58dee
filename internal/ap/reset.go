package ap

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Reset removes every AP-pattern profile and returns all WiFi interfaces to
// managed client mode. Every step is best-effort: a profile that refuses to
// die or an interface that refuses to switch is a warning, never an abort,
// so running reset twice in a row succeeds trivially.
func (m *Manager) Reset(snap *Snapshot) error {
	aps := m.sortedAPProfiles(snap)
	if len(aps) == 0 {
		fmt.Println("No access point profiles to remove")
	}

	for _, p := range aps {
		if p.Active {
			if err := m.nm.DeactivateConnection(p.Name); err != nil {
				logrus.Warnf("could not deactivate %s: %v", p.Name, err)
			}
		}
		if err := m.nm.DeleteConnection(p.Name); err != nil {
			logrus.Warnf("could not delete %s: %v", p.Name, err)
			continue
		}
		fmt.Printf("Removed '%s'\n", p.Name)
	}

	if err := m.nm.EnableRadio(); err != nil {
		logrus.Warnf("could not enable wifi radio: %v", err)
	}

	for _, ifc := range snap.Interfaces {
		if ifc.P2P {
			continue
		}
		if err := m.nm.SetManaged(ifc.Name, true); err != nil {
			logrus.Warnf("could not set %s managed: %v", ifc.Name, err)
		}
		m.nm.Rescan(ifc.Name)
	}

	fmt.Println("Reset complete, interfaces restored to client mode")
	return nil
}
