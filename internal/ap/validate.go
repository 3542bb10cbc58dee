package ap

import (
	"fmt"
	"net"

	"github.com/sokomo/apctl/internal/types"
)

// ValidateSSID checks the 802.11 SSID length limits (1-32 bytes).
func ValidateSSID(ssid string) error {
	if len(ssid) < 1 || len(ssid) > 32 {
		return fmt.Errorf("SSID must be 1-32 bytes, got %d", len(ssid))
	}
	return nil
}

// ValidatePassword checks the WPA2 passphrase length limits (8-63 bytes).
func ValidatePassword(password string) error {
	if len(password) < 8 || len(password) > 63 {
		return fmt.Errorf("password must be 8-63 bytes, got %d", len(password))
	}
	return nil
}

// ValidateChannel checks that a channel is legal on the given band.
func ValidateChannel(band types.Band, channel int) error {
	if !band.Valid() {
		return fmt.Errorf("invalid band %q (want 2.4 or 5)", band)
	}
	if !types.ChannelValid(band, channel) {
		return fmt.Errorf("channel %d is not valid on the %sGHz band", channel, band)
	}
	return nil
}

// ValidateIPCIDR checks that the gateway address parses as CIDR notation.
func ValidateIPCIDR(cidr string) error {
	if _, _, err := net.ParseCIDR(cidr); err != nil {
		return fmt.Errorf("invalid IP address %q: %w", cidr, err)
	}
	return nil
}

// Validate runs all parameter checks on a fully resolved AP configuration.
// It must pass before any external command is issued.
func Validate(cfg types.APConfig) error {
	if err := ValidateSSID(cfg.SSID); err != nil {
		return err
	}
	if err := ValidatePassword(cfg.Password); err != nil {
		return err
	}
	if cfg.Interface == "" {
		return fmt.Errorf("no interface selected")
	}
	if err := ValidateChannel(cfg.Band, cfg.Channel); err != nil {
		return err
	}
	return ValidateIPCIDR(cfg.IPCIDR)
}
