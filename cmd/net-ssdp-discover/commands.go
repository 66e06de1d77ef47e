package main

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ShadowStrikeHQ/net-ssdp-discover/internal/config"
	"github.com/ShadowStrikeHQ/net-ssdp-discover/internal/logging"
	"github.com/ShadowStrikeHQ/net-ssdp-discover/internal/render"
	"github.com/ShadowStrikeHQ/net-ssdp-discover/internal/ssdp"
	"github.com/ShadowStrikeHQ/net-ssdp-discover/internal/tui"
)

// Scan flags
var (
	searchTarget string
	maxWait      int
	timeoutSecs  int
	retries      int
	verbose      bool
	useIPv6      bool
	outputFormat string
)

func init() {
	// Scan flags are persistent so they apply to both the default scan
	// and the watch command.
	rootCmd.PersistentFlags().StringVar(&searchTarget, "st", ssdp.DefaultSearchTarget, "Search target (ST header value, or a saved alias name)")
	rootCmd.PersistentFlags().IntVar(&maxWait, "mx", ssdp.DefaultMaxWait, "MX response-wait window in seconds (1-5)")
	rootCmd.PersistentFlags().IntVarP(&timeoutSecs, "timeout", "t", 0, "Listen window per round in seconds (default MX+1)")
	rootCmd.PersistentFlags().IntVarP(&retries, "retries", "r", ssdp.DefaultRetries, "Additional probe rounds after the first")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log dropped datagrams and parse diagnostics")
	rootCmd.PersistentFlags().BoolVarP(&useIPv6, "ipv6", "6", false, "Probe the IPv6 link-local group (FF02::C)")
	rootCmd.Flags().StringVar(&outputFormat, "format", render.FormatTable, "Output format (table, plain, json)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(targetsCmd)
}

// scanCmd performs a single discovery flow and prints the results
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for SSDP services on the network",
	Long: `Send an M-SEARCH multicast probe and collect unicast replies.

Each reply is parsed into a service record (location, service type, USN,
server, cache lifetime). Services answering in more than one retry round
are reported once, in the order they were first seen.`,
	Example: `  # Scan for everything (default)
  net-ssdp-discover scan

  # Look for media servers only
  net-ssdp-discover scan --st urn:schemas-upnp-org:device:MediaServer:1

  # Patient scan for a congested network
  net-ssdp-discover scan --mx 5 --timeout 8 --retries 5

  # Machine-readable output
  net-ssdp-discover scan --format json`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&outputFormat, "format", render.FormatTable, "Output format (table, plain, json)")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	if !render.IsValidFormat(outputFormat) {
		return fmt.Errorf("unknown output format %q", outputFormat)
	}

	result, err := ssdp.Discover(cfg)
	if err != nil {
		return err
	}

	return render.Records(os.Stdout, result, outputFormat)
}

// watchCmd launches the interactive live scan screen
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch for SSDP services interactively",
	Long: `Launch a full-screen view that scans the network and lists services
as their replies arrive.

Results can be filtered and rescanned without leaving the screen. All
scan flags (--st, --mx, --timeout, --retries, --ipv6) apply.`,
	Example: `  # Watch with defaults
  net-ssdp-discover watch

  # Watch for root devices over IPv6
  net-ssdp-discover watch --st upnp:rootdevice -6`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// Validate up front so a bad flag fails fast instead of inside the
	// alternate screen.
	if err := cfg.Validate(); err != nil {
		return err
	}

	return tui.Run(cfg)
}

// targetsCmd manages saved search-target aliases
var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Manage saved search-target aliases",
	Long: `Manage named aliases for SSDP search targets.

An alias maps a short name to a full ST value, so frequently used URNs
don't have to be typed out. Pass an alias name to --st and it expands
automatically.`,
}

var targetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved aliases",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if len(registry.Targets) == 0 {
			fmt.Println("No saved aliases.")
			fmt.Println("\nUse 'net-ssdp-discover targets add <name> <st>' to create one.")
			return nil
		}

		names := make([]string, 0, len(registry.Targets))
		for name := range registry.Targets {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			target := registry.Targets[name]
			fmt.Printf("%s\t%s", name, target.ST)
			if target.Comment != "" {
				fmt.Printf("\t# %s", target.Comment)
			}
			fmt.Println()
		}
		return nil
	},
}

var targetComment string

var targetsAddCmd = &cobra.Command{
	Use:   "add <name> <st>",
	Short: "Save a search-target alias",
	Example: `  # Save a media server alias
  net-ssdp-discover targets add media urn:schemas-upnp-org:device:MediaServer:1

  # With a note
  net-ssdp-discover targets add roots upnp:rootdevice --comment "root devices only"

  # Use it
  net-ssdp-discover scan --st media`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		registry.SetTarget(args[0], args[1], targetComment)
		if err := registry.Save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		fmt.Printf("Saved alias %q -> %q\n", args[0], args[1])
		return nil
	},
}

var targetsRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a search-target alias",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		if !registry.RemoveTarget(args[0]) {
			return fmt.Errorf("no alias named %q", args[0])
		}
		if err := registry.Save(); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}

		fmt.Printf("Removed alias %q\n", args[0])
		return nil
	},
}

func init() {
	targetsAddCmd.Flags().StringVar(&targetComment, "comment", "", "Free-form note stored with the alias")

	targetsCmd.AddCommand(targetsListCmd)
	targetsCmd.AddCommand(targetsAddCmd)
	targetsCmd.AddCommand(targetsRemoveCmd)
}

// resolveConfig merges flags, saved preferences, and alias expansion into
// a discovery config. Precedence: explicit flag > saved preference >
// built-in default. Also initializes logging (-v forces debug, otherwise
// the environment variable decides).
func resolveConfig(cmd *cobra.Command) (ssdp.Config, error) {
	if verbose {
		if err := logging.Initialize("debug"); err != nil {
			return ssdp.Config{}, fmt.Errorf("failed to initialize logging: %w", err)
		}
	} else if err := logging.InitializeFromEnv(); err != nil {
		return ssdp.Config{}, fmt.Errorf("failed to initialize logging: %w", err)
	}

	cfg := ssdp.Config{
		SearchTarget: searchTarget,
		MaxWait:      maxWait,
		Retries:      retries,
		Verbose:      verbose,
		IPv6:         useIPv6,
	}

	// A broken config file should not block scanning with explicit flags.
	registry, err := config.LoadRegistry()
	if err != nil {
		logging.Warn("ignoring unreadable configuration file", zap.Error(err))
		registry = config.NewRegistry()
	}

	if prefs := registry.Preferences; prefs != nil {
		flags := cmd.Flags()
		if !flags.Changed("st") && prefs.SearchTarget != "" {
			cfg.SearchTarget = prefs.SearchTarget
		}
		if !flags.Changed("mx") && prefs.MaxWait > 0 {
			cfg.MaxWait = prefs.MaxWait
		}
		if !flags.Changed("retries") {
			cfg.Retries = prefs.Retries
		}
		if !flags.Changed("ipv6") && prefs.IPv6 {
			cfg.IPv6 = true
		}
		if !flags.Changed("timeout") && prefs.Timeout > 0 {
			timeoutSecs = prefs.Timeout
		}
		if !flags.Changed("format") && prefs.Format != "" {
			outputFormat = prefs.Format
		}
	}

	// Expand a saved alias passed via --st.
	if target := registry.GetTarget(cfg.SearchTarget); target != nil {
		alias := cfg.SearchTarget
		cfg.SearchTarget = target.ST
		registry.TouchTarget(alias)
		if err := registry.Save(); err != nil {
			logging.Warn("failed to record alias usage", zap.Error(err))
		}
	}

	// Timeout defaults to the MX window plus a second of grace.
	if timeoutSecs > 0 {
		cfg.Timeout = time.Duration(timeoutSecs) * time.Second
	} else {
		cfg.Timeout = time.Duration(cfg.MaxWait+1) * time.Second
	}

	return cfg, nil
}
