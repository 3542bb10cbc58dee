// Package netman wraps the NetworkManager command-line interface. All nmcli
// invocations and all parsing of nmcli's terse output live behind the Client
// so the decision logic elsewhere can run against a mock executor.
package netman

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
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return out, fmt.Errorf("%s: %s", name, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Client issues nmcli commands.
type Client struct {
	exec CommandExecutor
}

// New creates a Client backed by the real nmcli binary.
func New() *Client {
	return &Client{exec: &realExecutor{}}
}

// NewWithExecutor creates a Client with a custom executor (for testing).
func NewWithExecutor(executor CommandExecutor) *Client {
	return &Client{exec: executor}
}

// Available reports whether nmcli is installed.
func (c *Client) Available() bool {
	_, err := exec.LookPath("nmcli")
	return err == nil
}

// Profiles lists all connection profiles with their active device.
func (c *Client) Profiles() ([]types.Profile, error) {
	output, err := c.exec.Execute("nmcli", "-t", "-f", "NAME,TYPE,DEVICE,ACTIVE", "connection", "show")
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}

	var profiles []types.Profile
	for _, line := range strings.Split(string(output), "\n") {
		if line == "" {
			continue
		}
		fields := splitTerse(line)
		if len(fields) < 4 {
			continue
		}
		profiles = append(profiles, types.Profile{
			Name:   fields[0],
			Type:   fields[1],
			Device: fields[2],
			Active: fields[3] == "yes",
		})
	}
	return profiles, nil
}

// ShowProfile returns every field of a profile as a key/value map, secrets
// included so update paths can verify what they preserve.
func (c *Client) ShowProfile(name string) (map[string]string, error) {
	output, err := c.exec.Execute("nmcli", "-t", "--show-secrets", "connection", "show", name)
	if err != nil {
		return nil, fmt.Errorf("failed to show connection %q: %w", name, err)
	}

	fields := make(map[string]string)
	for _, line := range strings.Split(string(output), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		fields[parts[0]] = unescapeTerse(parts[1])
	}
	return fields, nil
}

// AddConnection creates a new profile from nmcli setting arguments.
func (c *Client) AddConnection(settings ...string) error {
	args := append([]string{"connection", "add"}, settings...)
	if _, err := c.exec.Execute("nmcli", args...); err != nil {
		return fmt.Errorf("failed to add connection: %w", err)
	}
	return nil
}

// ModifyConnection changes settings on an existing profile.
func (c *Client) ModifyConnection(name string, settings ...string) error {
	args := append([]string{"connection", "modify", name}, settings...)
	if _, err := c.exec.Execute("nmcli", args...); err != nil {
		return fmt.Errorf("failed to modify connection %q: %w", name, err)
	}
	return nil
}

// DeleteConnection removes a profile.
func (c *Client) DeleteConnection(name string) error {
	if _, err := c.exec.Execute("nmcli", "connection", "delete", name); err != nil {
		return fmt.Errorf("failed to delete connection %q: %w", name, err)
	}
	return nil
}

// ActivateConnection brings a profile up.
func (c *Client) ActivateConnection(name string) error {
	if _, err := c.exec.Execute("nmcli", "connection", "up", name); err != nil {
		return fmt.Errorf("failed to activate connection %q: %w", name, err)
	}
	return nil
}

// DeactivateConnection takes a profile down.
func (c *Client) DeactivateConnection(name string) error {
	if _, err := c.exec.Execute("nmcli", "connection", "down", name); err != nil {
		return fmt.Errorf("failed to deactivate connection %q: %w", name, err)
	}
	return nil
}

// WifiInterfaces lists WiFi-class devices, including unmanaged and P2P ones.
func (c *Client) WifiInterfaces() ([]types.Interface, error) {
	output, err := c.exec.Execute("nmcli", "-t", "-f", "DEVICE,TYPE,STATE", "device", "status")
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	var ifaces []types.Interface
	for _, line := range strings.Split(string(output), "\n") {
		if line == "" {
			continue
		}
		fields := splitTerse(line)
		if len(fields) < 3 {
			continue
		}
		devType := fields[1]
		if devType != "wifi" && devType != "wifi-p2p" {
			continue
		}
		ifaces = append(ifaces, types.Interface{
			Name:    fields[0],
			Type:    devType,
			State:   fields[2],
			Managed: fields[2] != "unmanaged",
			P2P:     devType == "wifi-p2p" || strings.HasPrefix(fields[0], "p2p-"),
		})
	}
	return ifaces, nil
}

// SetManaged switches a device between managed and unmanaged.
func (c *Client) SetManaged(device string, managed bool) error {
	value := "no"
	if managed {
		value = "yes"
	}
	if _, err := c.exec.Execute("nmcli", "device", "set", device, "managed", value); err != nil {
		return fmt.Errorf("failed to set %s managed=%s: %w", device, value, err)
	}
	return nil
}

// EnableRadio turns the WiFi radio on.
func (c *Client) EnableRadio() error {
	if _, err := c.exec.Execute("nmcli", "radio", "wifi", "on"); err != nil {
		return fmt.Errorf("failed to enable wifi radio: %w", err)
	}
	return nil
}

// Rescan asks NetworkManager to refresh scan results on an interface.
// Rescan requests are rate-limited by NetworkManager, so a failure here is
// logged and swallowed; cached results are still usable.
func (c *Client) Rescan(iface string) {
	if _, err := c.exec.Execute("nmcli", "device", "wifi", "rescan", "ifname", iface); err != nil {
		logrus.Debugf("wifi rescan on %s failed (may be rate-limited): %v", iface, err)
	}
}

// ScanResults returns the visible networks on an interface.
func (c *Client) ScanResults(iface string) ([]types.ScanEntry, error) {
	output, err := c.exec.Execute("nmcli", "-t", "-f", "SSID,CHAN,SIGNAL", "device", "wifi", "list", "ifname", iface)
	if err != nil {
		return nil, fmt.Errorf("failed to list wifi networks: %w", err)
	}

	var entries []types.ScanEntry
	for _, line := range strings.Split(string(output), "\n") {
		if line == "" {
			continue
		}
		fields := splitTerse(line)
		if len(fields) < 3 {
			continue
		}
		channel, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		signal, _ := strconv.Atoi(fields[2])
		entries = append(entries, types.ScanEntry{
			SSID:    fields[0],
			Channel: channel,
			Signal:  signal,
		})
	}
	return entries, nil
}
