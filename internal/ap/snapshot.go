package ap

import (
	"github.com/sokomo/apctl/internal/netman"
	"github.com/sokomo/apctl/internal/types"
)

// Snapshot is a one-shot view of the system's wireless state, taken once per
// invocation and passed through the decision functions so no logic re-queries
// the system mid-operation.
type Snapshot struct {
	Interfaces []types.Interface
	Profiles   []types.Profile
}

// TakeSnapshot queries NetworkManager for the current device and profile
// state.
func TakeSnapshot(nm *netman.Client) (*Snapshot, error) {
	ifaces, err := nm.WifiInterfaces()
	if err != nil {
		return nil, err
	}
	profiles, err := nm.Profiles()
	if err != nil {
		return nil, err
	}
	return &Snapshot{Interfaces: ifaces, Profiles: profiles}, nil
}

// APProfiles returns the profiles matching the AP naming pattern.
func (s *Snapshot) APProfiles() []types.Profile {
	var aps []types.Profile
	for _, p := range s.Profiles {
		if IsAPProfile(p) {
			aps = append(aps, p)
		}
	}
	return aps
}

// FindProfile returns the profile with the given name, or nil.
func (s *Snapshot) FindProfile(name string) *types.Profile {
	for i, p := range s.Profiles {
		if p.Name == name {
			return &s.Profiles[i]
		}
	}
	return nil
}

// FindInterface returns the interface with the given name, or nil.
func (s *Snapshot) FindInterface(name string) *types.Interface {
	for i, ifc := range s.Interfaces {
		if ifc.Name == name {
			return &s.Interfaces[i]
		}
	}
	return nil
}
