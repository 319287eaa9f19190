package tiles

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kernel families a hardware profile can dispatch to.
const (
	ArchSm90 = "sm90" // warpgroup MMA kernels, budgeted by Policy
	ArchSm8x = "sm8x" // Ampere/Ada kernels, fixed table
)

// HardwareProfile describes one GPU class.
type HardwareProfile struct {
	Name           string `yaml:"-" json:"name"`
	Arch           string `yaml:"arch" json:"arch"`
	SmemLimitBytes int    `yaml:"smem_limit_bytes" json:"smem_limit_bytes"`
	SM86or89       bool   `yaml:"sm86_or_89" json:"sm86_or_89"`
	Description    string `yaml:"description" json:"description"`
}

// HardwareCatalog is the parsed form of a hardware profile file.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type HardwareCatalog struct {
	Version  string                     `yaml:"version" json:"version"`
	Default  string                     `yaml:"default" json:"default"`
	Profiles map[string]HardwareProfile `yaml:"profiles" json:"profiles"`
}

// ValidArchs is the set of recognized profile architectures.
var ValidArchs = map[string]bool{ArchSm90: true, ArchSm8x: true}

// DefaultHardwareCatalog returns the built-in profiles. sm120 is the default.
func DefaultHardwareCatalog() *HardwareCatalog {
	c := &HardwareCatalog{
		Version: "1",
		Default: "sm120",
		Profiles: map[string]HardwareProfile{
			"sm120": {Arch: ArchSm90, SmemLimitBytes: SmemLimitBytes, Description: "consumer Blackwell (RTX 50xx)"},
			"sm90":  {Arch: ArchSm90, SmemLimitBytes: 232448, Description: "Hopper (H100/H200)"},
			"sm80":  {Arch: ArchSm8x, SmemLimitBytes: 166912, Description: "Ampere datacenter (A100)"},
			"sm86":  {Arch: ArchSm8x, SmemLimitBytes: 101376, SM86or89: true, Description: "Ampere consumer (RTX 30xx)"},
			"sm89":  {Arch: ArchSm8x, SmemLimitBytes: 101376, SM86or89: true, Description: "Ada (RTX 40xx, L4)"},
		},
	}
	c.fillNames()
	return c
}

// LoadHardwareProfiles reads a YAML profile file. Unknown fields are errors.
func LoadHardwareProfiles(path string) (*HardwareCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hardware profiles: %w", err)
	}
	var c HardwareCatalog
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		return nil, fmt.Errorf("parsing hardware profiles %q: %w", path, err)
	}
	c.fillNames()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *HardwareCatalog) fillNames() {
	for name, p := range c.Profiles {
		p.Name = name
		c.Profiles[name] = p
	}
}

// Names returns the profile names in sorted order.
func (c *HardwareCatalog) Names() []string {
	names := make([]string, 0, len(c.Profiles))
	for k := range c.Profiles {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Get returns the named profile; an empty name selects the catalog default.
func (c *HardwareCatalog) Get(name string) (HardwareProfile, error) {
	if name == "" {
		name = c.Default
	}
	p, ok := c.Profiles[name]
	if !ok {
		return HardwareProfile{}, fmt.Errorf("GPU %q not found in hardware profiles (available: %v)", name, c.Names())
	}
	return p, nil
}

// Validate checks every profile and the default reference.
func (c *HardwareCatalog) Validate() error {
	var problems []string
	if len(c.Profiles) == 0 {
		problems = append(problems, "no profiles defined")
	}
	if c.Default != "" {
		if _, ok := c.Profiles[c.Default]; !ok {
			problems = append(problems, fmt.Sprintf("default profile %q is not defined", c.Default))
		}
	}
	for _, name := range c.Names() {
		if err := c.Profiles[name].Validate(); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid hardware profiles: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Validate checks the profile's architecture and ceiling.
func (p HardwareProfile) Validate() error {
	var problems []string
	if !ValidArchs[p.Arch] {
		problems = append(problems, fmt.Sprintf("unknown arch %q", p.Arch))
	}
	if p.SmemLimitBytes <= 0 {
		problems = append(problems, fmt.Sprintf("smem_limit_bytes must be > 0, got %d", p.SmemLimitBytes))
	}
	if p.SM86or89 && p.Arch != ArchSm8x {
		problems = append(problems, "sm86_or_89 only applies to arch sm8x")
	}
	if len(problems) > 0 {
		return fmt.Errorf("profile %q: %s", p.Name, strings.Join(problems, ", "))
	}
	return nil
}

// Policy returns the sm90 policy sized to this profile's ceiling.
func (p HardwareProfile) Policy() Policy {
	return NewPolicy(p.SmemLimitBytes)
}

// Sm8xOptions returns the sm8x switches implied by the profile; the per-call
// switches are taken from opts.
func (p HardwareProfile) Sm8xOptions(opts Sm8xOptions) Sm8xOptions {
	opts.SM86or89 = p.SM86or89
	return opts
}
