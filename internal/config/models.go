package config

import "time"

// Registry represents the entire user configuration file.
// It stores scan preferences and named search-target aliases; discovery
// itself never reads this file, the CLI resolves it into flag defaults.
type Registry struct {
	Version     int                `yaml:"version"`
	Targets     map[string]*Target `yaml:"targets,omitempty"` // Keyed by alias name
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Target is a user-defined alias for an SSDP search target, so frequent
// URNs don't have to be typed out on every scan.
type Target struct {
	ST       string    `yaml:"st"`                  // The SSDP search target value
	Comment  string    `yaml:"comment,omitempty"`   // Free-form note
	LastUsed time.Time `yaml:"last_used,omitempty"` // Last time this alias was scanned
}

// Preferences represents application-wide scan defaults. Flags always
// override these values.
type Preferences struct {
	SearchTarget string `yaml:"search_target"`     // Default ST for scans
	MaxWait      int    `yaml:"max_wait"`          // Default MX window in seconds
	Timeout      int    `yaml:"timeout,omitempty"` // Default listen window in seconds (0 = MX+1)
	Retries      int    `yaml:"retries"`           // Default extra probe rounds
	IPv6         bool   `yaml:"ipv6,omitempty"`    // Probe the IPv6 group by default
	Format       string `yaml:"format,omitempty"`  // Default output format (table, plain, json)
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version: 1,
		Targets: make(map[string]*Target),
		Preferences: &Preferences{
			SearchTarget: "ssdp:all",
			MaxWait:      3,
			Retries:      3,
		},
	}
}

// GetTarget retrieves a search-target alias by name.
// Returns nil if the alias doesn't exist.
func (r *Registry) GetTarget(name string) *Target {
	return r.Targets[name]
}

// SetTarget creates or replaces a search-target alias.
func (r *Registry) SetTarget(name, st, comment string) {
	if r.Targets == nil {
		r.Targets = make(map[string]*Target)
	}
	r.Targets[name] = &Target{
		ST:      st,
		Comment: comment,
	}
}

// RemoveTarget deletes a search-target alias. Returns true if it existed.
func (r *Registry) RemoveTarget(name string) bool {
	if _, ok := r.Targets[name]; !ok {
		return false
	}
	delete(r.Targets, name)
	return true
}

// TouchTarget updates the last-used timestamp for an alias, if present.
func (r *Registry) TouchTarget(name string) {
	if target, ok := r.Targets[name]; ok {
		target.LastUsed = time.Now()
	}
}
