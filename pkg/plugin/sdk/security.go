package sdk

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SecurityValidator validates plugin security and integrity
type SecurityValidator struct {
	trustedSources []string
	checksums      map[string]string // plugin path -> checksum
	signatures     map[string]string // plugin path -> signature
}

// NewSecurityValidator creates a new security validator
func NewSecurityValidator(trustedSources []string) *SecurityValidator {
	return &SecurityValidator{
		trustedSources: trustedSources,
		checksums:      make(map[string]string),
		signatures:     make(map[string]string),
	}
}

// AddTrustedSource adds a trusted source to the validator
func (sv *SecurityValidator) AddTrustedSource(source string) {
	sv.trustedSources = append(sv.trustedSources, source)
}

// SetTrustedSources replaces all trusted sources
func (sv *SecurityValidator) SetTrustedSources(sources []string) {
	sv.trustedSources = sources
}

// ValidatePlugin performs comprehensive plugin validation
func (sv *SecurityValidator) ValidatePlugin(pluginPath string, manifest *PluginManifest) error {
	// 1. File system security checks
	if err := sv.validateFileSystem(pluginPath); err != nil {
		return fmt.Errorf("filesystem validation failed: %w", err)
	}

	// 2. Checksum verification
	if err := sv.validateChecksum(pluginPath, manifest); err != nil {
		return fmt.Errorf("checksum validation failed: %w", err)
	}

	// 3. Source validation (if manifest available)
	if manifest != nil {
		if err := sv.validateSource(manifest); err != nil {
			return fmt.Errorf("source validation failed: %w", err)
		}
	}

	// 4. Binary analysis (basic)
	if err := sv.validateBinary(pluginPath); err != nil {
		return fmt.Errorf("binary validation failed: %w", err)
	}

	return nil
}

// validateFileSystem checks file system security
func (sv *SecurityValidator) validateFileSystem(pluginPath string) error {
	info, err := os.Stat(pluginPath)
	if err != nil {
		return fmt.Errorf("cannot stat plugin file: %w", err)
	}

	// Plugin must be executable
	if info.Mode()&0111 == 0 {
		return fmt.Errorf("plugin file is not executable")
	}

	// Plugin should not be writable by group or others (security risk)
	if info.Mode()&0022 != 0 {
		return fmt.Errorf("plugin file is writable by group or others (security risk)")
	}

	// Plugin should be owned by current user or root (Unix-specific)
	if err := sv.validateOwnership(info); err != nil {
		return err
	}

	// Plugin should not be in world-writable directories
	dir := filepath.Dir(pluginPath)
	dirInfo, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot stat plugin directory: %w", err)
	}

	if dirInfo.Mode()&0002 != 0 {
		return fmt.Errorf("plugin is in world-writable directory (security risk)")
	}

	return nil
}

// validateOwnership checks file ownership (platform-specific implementation in security_*.go)

// validateChecksum verifies plugin integrity via checksum
func (sv *SecurityValidator) validateChecksum(pluginPath string, manifest *PluginManifest) error {
	// Calculate actual checksum
	actualChecksum, err := sv.calculateChecksum(pluginPath)
	if err != nil {
		return fmt.Errorf("failed to calculate checksum: %w", err)
	}

	// Check against manifest
	if manifest != nil && manifest.Spec.Executable.Checksum != "" {
		expectedChecksum := strings.TrimPrefix(manifest.Spec.Executable.Checksum, "sha256:")
		if actualChecksum != expectedChecksum {
			return fmt.Errorf("checksum mismatch: expected %s, got %s", expectedChecksum, actualChecksum)
		}
	}

	// Store checksum for future reference
	sv.checksums[pluginPath] = actualChecksum

	return nil
}

// validateSource checks if plugin comes from trusted source. Only a
// missing homepage is an error; an untrusted homepage is accepted and
// is not reported anywhere, since SecurityValidator has no logger of
// its own to report through.
func (sv *SecurityValidator) validateSource(manifest *PluginManifest) error {
	homepage := manifest.Metadata.Homepage
	if homepage == "" {
		return fmt.Errorf("plugin manifest missing homepage")
	}

	// If no trusted sources are configured, skip validation
	if len(sv.trustedSources) == 0 {
		return nil
	}

	// Check against trusted sources
	for _, trusted := range sv.trustedSources {
		if strings.Contains(homepage, trusted) {
			return nil // Found trusted source
		}
	}

	return nil
}

// validateBinary performs basic binary analysis
func (sv *SecurityValidator) validateBinary(pluginPath string) error {
	file, err := os.Open(pluginPath)
	if err != nil {
		return fmt.Errorf("cannot open plugin file: %w", err)
	}
	defer file.Close()

	// Read first few bytes to check file type
	header := make([]byte, 16)
	_, err = file.Read(header)
	if err != nil {
		return fmt.Errorf("cannot read plugin header: %w", err)
	}

	// Check for ELF magic number (Linux) or Mach-O (macOS)
	if len(header) >= 4 {
		if header[0] == 0x7f && header[1] == 'E' && header[2] == 'L' && header[3] == 'F' {
			// ELF binary (Linux)
			return nil
		}
		if header[0] == 0xcf && header[1] == 0xfa && header[2] == 0xed && header[3] == 0xfe {
			// Mach-O binary (macOS, 64-bit)
			return nil
		}
		if header[0] == 0xce && header[1] == 0xfa && header[2] == 0xed && header[3] == 0xfe {
			// Mach-O binary (macOS, 32-bit)
			return nil
		}
		if header[0] == 'M' && header[1] == 'Z' {
			// PE binary (Windows)
			return nil
		}
	}

	return fmt.Errorf("unrecognized binary format")
}

// calculateChecksum calculates SHA256 checksum of a file
func (sv *SecurityValidator) calculateChecksum(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hash.Sum(nil)), nil
}

// CapabilityValidator checks a plugin's declared capability requests
// against the set the host environment has granted its command.Context
// (Context.Grant/HasCapability) - "net", "read", "write", and any other
// names a host chooses to recognize.
type CapabilityValidator struct{}

// NewCapabilityValidator creates a new capability validator
func NewCapabilityValidator() *CapabilityValidator {
	return &CapabilityValidator{}
}

// ValidateCapabilities reports an error naming the first capability in
// requested that granted refuses.
func (cv *CapabilityValidator) ValidateCapabilities(requested []string, granted func(string) bool) error {
	for _, capability := range requested {
		if !granted(capability) {
			return fmt.Errorf("capability %q not granted to this plugin", capability)
		}
	}
	return nil
}

// Capabilities lists the capability names (matching command.Context's
// Grant vocabulary) a plugin manifest declares it needs.
type Capabilities struct {
	Requested []string `json:"requested" yaml:"requested"`
}

// PluginManifest represents a plugin manifest file
type PluginManifest struct {
	APIVersion string       `yaml:"apiVersion"`
	Kind       string       `yaml:"kind"`
	Metadata   ManifestMeta `yaml:"metadata"`
	Spec       ManifestSpec `yaml:"spec"`
}

// ManifestMeta contains plugin metadata
type ManifestMeta struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Author      string `yaml:"author"`
	Description string `yaml:"description"`
	Homepage    string `yaml:"homepage"`
	License     string `yaml:"license"`
}

// ManifestSpec contains plugin specification
type ManifestSpec struct {
	Executable   ExecutableSpec     `yaml:"executable"`
	Commands     []CommandSpec      `yaml:"commands"`
	Capabilities Capabilities       `yaml:"capabilities"`
	Config       ConfigSpec         `yaml:"config"`
	Dependencies []PluginDependency `yaml:"dependencies"`
}

// ExecutableSpec contains executable information
type ExecutableSpec struct {
	Name     string `yaml:"name"`
	Checksum string `yaml:"checksum"`
}

// CommandSpec contains command specification
type CommandSpec struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Description string `yaml:"description"`
	Interactive bool   `yaml:"interactive"`
}

// ConfigSpec contains configuration specification
type ConfigSpec map[string]interface{}

// ManifestPath returns the sidecar manifest path Load checks for
// alongside a plugin binary: <binary>.yaml.
func ManifestPath(pluginPath string) string {
	return pluginPath + ".yaml"
}

// ParseManifest reads and decodes the plugin manifest at path. The
// manifest is optional - Load only calls this when ManifestPath(source)
// exists - and lets a host declare a plugin's required capabilities and
// expected checksum before the binary is ever executed, which the
// Metadata RPC call (only reachable after the process is already
// running) cannot do.
func ParseManifest(path string) (*PluginManifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plugin manifest: %w", err)
	}

	var manifest PluginManifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("parse plugin manifest %s: %w", path, err)
	}
	return &manifest, nil
}
