// Package config provides user configuration management for the SSDP
// discovery tool.
//
// This package manages a YAML-based configuration file that stores scan
// defaults (search target, MX window, timeout, retries) and user-defined
// aliases for frequently used search-target URNs. The configuration
// follows OS-specific conventions for storage location.
//
// The discovery core never reads this file: the CLI layer resolves the
// registry into flag defaults before building a discovery session, and
// explicit flags always win.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/net-ssdp-discover/config.yaml or $HOME/.config/net-ssdp-discover/config.yaml
//   - macOS: $HOME/.config/net-ssdp-discover/config.yaml
//   - Windows: %LOCALAPPDATA%\net-ssdp-discover\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.SetTarget("renderers",
//	    "urn:schemas-upnp-org:device:MediaRenderer:1",
//	    "living room AV gear")
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across
// goroutines. File operations are protected by a mutex and writes are
// atomic (temp file + rename).
package config
