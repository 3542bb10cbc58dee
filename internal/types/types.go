// Package types defines the core domain types for apctl
package types

// Band identifies a WiFi frequency band.
type Band string

const (
	Band24 Band = "2.4"
	Band5  Band = "5"
)

// Valid returns true for a recognized band value.
func (b Band) Valid() bool {
	return b == Band24 || b == Band5
}

// NMValue returns the band in NetworkManager's notation ("bg" or "a").
func (b Band) NMValue() string {
	if b == Band5 {
		return "a"
	}
	return "bg"
}

// Channels5 is the set of channels accepted on the 5GHz band.
var Channels5 = []int{36, 40, 44, 48, 52, 56, 60, 64, 100, 104, 108, 112, 116, 120, 124, 128, 132, 136, 140, 144, 149, 153, 157, 161, 165}

// Candidates24 and Candidates5 are the channels considered during automatic
// selection, in scanning order. Selection starts from the band default
// (6 on 2.4GHz, 36 on 5GHz) and a candidate only wins with a strictly
// lower occupancy count, so an empty scan yields the default.
var (
	Candidates24 = []int{1, 6, 11}
	Candidates5  = []int{36, 40, 44, 48, 149, 153, 157, 161, 165}
)

// DefaultChannel24 and DefaultChannel5 are the channels used when every
// candidate looks equally quiet.
const (
	DefaultChannel24 = 6
	DefaultChannel5  = 36
)

// ChannelValid reports whether a channel is legal on the given band.
func ChannelValid(band Band, channel int) bool {
	switch band {
	case Band24:
		return channel >= 1 && channel <= 14
	case Band5:
		for _, c := range Channels5 {
			if c == channel {
				return true
			}
		}
	}
	return false
}

// APConfig holds the parameters for one access point.
type APConfig struct {
	SSID      string
	Password  string
	Interface string
	Band      Band
	Channel   int
	IPCIDR    string
}

// ChannelUsage is the per-channel occupancy tally produced by a scan.
type ChannelUsage struct {
	Channel int
	Count   int
}

// Profile is a NetworkManager connection profile as seen by apctl.
type Profile struct {
	Name   string
	Type   string
	Device string
	Active bool
}

// Interface describes a WiFi interface at snapshot time.
type Interface struct {
	Name    string
	Type    string
	State   string
	Managed bool
	P2P     bool
}

// ScanEntry is one visible network from a WiFi scan.
type ScanEntry struct {
	SSID    string
	Channel int
	Signal  int
}
