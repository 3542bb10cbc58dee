package ap

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sokomo/apctl/internal/netman"
	"github.com/sokomo/apctl/internal/types"
)

// ChannelSelector picks the least-congested standard channel on a band by
// counting neighboring access points per channel.
type ChannelSelector struct {
	nm     *netman.Client
	settle time.Duration
}

// NewChannelSelector creates a selector. The settle duration is how long to
// wait after triggering a rescan before reading results; scan results may
// still be incomplete after it elapses.
func NewChannelSelector(nm *netman.Client, settle time.Duration) *ChannelSelector {
	return &ChannelSelector{nm: nm, settle: settle}
}

// Select scans on iface and returns the candidate channel with the lowest
// occupancy. Networks broadcasting ownSSID are excluded so a live AP does
// not count against itself. With no observed occupancy the band default
// wins (6 on 2.4GHz, 36 on 5GHz); a candidate only displaces it with a
// strictly lower count, scanning order 1,6,11 and 36,40,44,48,149..165.
func (s *ChannelSelector) Select(iface string, band types.Band, ownSSID string) (int, error) {
	if !band.Valid() {
		return 0, fmt.Errorf("invalid band %q", band)
	}

	s.nm.Rescan(iface)
	time.Sleep(s.settle)

	entries, err := s.nm.ScanResults(iface)
	if err != nil {
		return 0, fmt.Errorf("channel scan failed: %w", err)
	}

	counts := make(map[int]int)
	for _, e := range entries {
		if ownSSID != "" && e.SSID == ownSSID {
			continue
		}
		counts[e.Channel]++
	}

	for _, u := range Usage(band, counts) {
		logrus.Debugf("channel %d: %d neighboring APs", u.Channel, u.Count)
	}

	return pickChannel(band, counts), nil
}

// pickChannel applies the occupancy heuristic to a finished tally. Channels
// absent from the tally count as zero.
func pickChannel(band types.Band, counts map[int]int) int {
	candidates := types.Candidates24
	best := types.DefaultChannel24
	if band == types.Band5 {
		candidates = types.Candidates5
		best = types.DefaultChannel5
	}

	min := counts[best]
	for _, c := range candidates {
		if counts[c] < min {
			best = c
			min = counts[c]
		}
	}
	return best
}

// Usage returns the raw per-candidate occupancy for reporting.
func Usage(band types.Band, counts map[int]int) []types.ChannelUsage {
	candidates := types.Candidates24
	if band == types.Band5 {
		candidates = types.Candidates5
	}
	usage := make([]types.ChannelUsage, 0, len(candidates))
	for _, c := range candidates {
		usage = append(usage, types.ChannelUsage{Channel: c, Count: counts[c]})
	}
	return usage
}
