package ap

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoInterface is returned when no WiFi interface qualifies for AP mode.
var ErrNoInterface = errors.New("no suitable WiFi interface found")

// SelectInterface chooses the target interface when the user did not name
// one. Policy, evaluated in order:
//
//  1. an interface currently running an AP-pattern profile wins, so an
//     existing AP is updated rather than a second one created;
//  2. a single managed non-P2P WiFi interface is selected silently;
//  3. multiple candidates require an explicit choice;
//  4. zero candidates is an error.
//
// P2P interfaces are never candidates.
func SelectInterface(snap *Snapshot) (string, error) {
	for _, p := range snap.APProfiles() {
		if p.Active && p.Device != "" {
			return p.Device, nil
		}
	}

	var candidates []string
	for _, ifc := range snap.Interfaces {
		if ifc.P2P || !ifc.Managed {
			continue
		}
		candidates = append(candidates, ifc.Name)
	}

	switch len(candidates) {
	case 0:
		return "", ErrNoInterface
	case 1:
		return candidates[0], nil
	default:
		return "", fmt.Errorf("multiple WiFi interfaces found (%s), specify one explicitly",
			strings.Join(candidates, ", "))
	}
}
