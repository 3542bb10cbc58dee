// Package cli implements the command-line interface
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sokomo/apctl/internal/ap"
	"github.com/sokomo/apctl/internal/config"
	"github.com/sokomo/apctl/internal/iw"
	"github.com/sokomo/apctl/internal/netman"
)

var (
	cfgFile string
	verbose bool
	force   bool
	cfg     *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "apctl",
	Short: "apctl - WiFi Access Point Manager",
	Long: `apctl configures and manages WiFi access points through NetworkManager.
It validates parameters, picks the least-congested channel, and drives
nmcli to create, update, and tear down access point profiles.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands and runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, ap.ErrAborted) {
			fmt.Println("Aborted")
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&force, "force", false, "skip confirmation prompts")

	// Add subcommands
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(updateBandCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(restartCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(interfacesCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logrus.SetLevel(logrus.InfoLevel)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
}

// ensureRoot re-executes the current invocation under sudo when not running
// as root, forwarding stdio and the child's exit code.
func ensureRoot() error {
	if os.Geteuid() == 0 {
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("root privileges required and executable path unknown: %w", err)
	}

	fmt.Println("Root privileges required, re-executing with sudo...")
	cmd := exec.Command(cfg.SudoPath, append([]string{exe}, os.Args[1:]...)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.ExitCode())
		}
		return fmt.Errorf("failed to re-execute with sudo: %w", err)
	}
	os.Exit(0)
	return nil
}

// newManager wires up the nmcli client, channel selector, and connection
// manager for one invocation. The confirmation prompt honors --force.
func newManager() (*netman.Client, *ap.Manager, error) {
	nm := netman.New()
	if !nm.Available() {
		return nil, nil, fmt.Errorf("nmcli not found, is NetworkManager installed?")
	}

	selector := ap.NewChannelSelector(nm, cfg.ScanSettle())
	mgr := ap.NewManager(nm, selector)
	if force {
		mgr.Confirm = func(string) bool { return true }
	} else {
		mgr.Confirm = promptConfirm
	}
	return nm, mgr, nil
}

func newProber() *iw.Prober {
	return iw.New()
}

// promptConfirm asks a yes/no question on stdin; anything but y/yes declines.
func promptConfirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
