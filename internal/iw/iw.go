// Package iw probes wireless radio capabilities through the iw utility.
package iw

import (
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sokomo/apctl/internal/types"
)

// CommandExecutor runs an external command and returns its stdout.
type CommandExecutor interface {
	Execute(name string, args ...string) ([]byte, error)
}

type realExecutor struct{}

func (e *realExecutor) Execute(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// Prober answers band-support questions about WiFi interfaces.
type Prober struct {
	exec CommandExecutor
}

// New creates a Prober backed by the real iw binary.
func New() *Prober {
	return &Prober{exec: &realExecutor{}}
}

// NewWithExecutor creates a Prober with a custom executor (for testing).
func NewWithExecutor(executor CommandExecutor) *Prober {
	return &Prober{exec: executor}
}

// SupportsBand reports whether an interface's radio advertises the given
// band. Introspection failures fail open: an interface is never rejected
// solely because its radio could not be inspected.
func (p *Prober) SupportsBand(iface string, band types.Band) bool {
	phy, err := p.resolvePhy(iface)
	if err != nil {
		logrus.Warnf("could not resolve radio for %s, assuming %sGHz support: %v", iface, band, err)
		return true
	}

	output, err := p.exec.Execute("iw", "phy", phy, "info")
	if err != nil {
		logrus.Warnf("could not inspect radio %s, assuming %sGHz support: %v", phy, band, err)
		return true
	}

	return bandAdvertised(string(output), band)
}

// SupportedBands returns the set of bands an interface's radio advertises.
// Unresolvable radios report both bands, matching SupportsBand.
func (p *Prober) SupportedBands(iface string) []types.Band {
	var bands []types.Band
	for _, band := range []types.Band{types.Band24, types.Band5} {
		if p.SupportsBand(iface, band) {
			bands = append(bands, band)
		}
	}
	return bands
}

// resolvePhy maps an interface name to its physical radio identifier.
func (p *Prober) resolvePhy(iface string) (string, error) {
	output, err := p.exec.Execute("iw", "dev", iface, "info")
	if err != nil {
		return "", fmt.Errorf("iw dev %s info: %w", iface, err)
	}

	for _, line := range strings.Split(string(output), "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[0] == "wiphy" {
			return "phy" + fields[1], nil
		}
	}
	return "", errors.New("no wiphy index in iw output")
}

// bandAdvertised scans iw phy output for either an explicit band marker or
// any advertised frequency inside the band's MHz range.
func bandAdvertised(output string, band types.Band) bool {
	marker := "Band 1:"
	low, high := 2000, 2999
	if band == types.Band5 {
		marker = "Band 2:"
		low, high = 5000, 5999
	}

	for _, line := range strings.Split(output, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, marker) {
			return true
		}
		fields := strings.Fields(trimmed)
		for i, f := range fields {
			if f != "MHz" || i == 0 {
				continue
			}
			mhz, err := strconv.Atoi(fields[i-1])
			if err != nil {
				continue
			}
			if mhz >= low && mhz <= high {
				return true
			}
		}
	}
	return false
}
