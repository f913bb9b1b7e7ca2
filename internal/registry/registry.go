// Package registry holds the static table of containers the bot is allowed
// to manage. The table is loaded once at startup from a YAML file and is
// read-only for the process lifetime.
package registry

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/T-One/krang/internal/errors"
)

// ContainerSpec maps a short human-chosen name to the container's display
// metadata. Credential is whatever the channel needs to join the service
// (e.g. a game server password); it renders as "N/A" when empty.
type ContainerSpec struct {
	Name       string `yaml:"name"`
	Address    string `yaml:"address"`
	Port       string `yaml:"port"`
	Credential string `yaml:"credential"`
}

// DisplayCredential returns the credential for display purposes.
func (s *ContainerSpec) DisplayCredential() string {
	if s.Credential == "" {
		return "N/A"
	}
	return s.Credential
}

// Registry is an immutable, ordered lookup table of container specs. Lookups
// are case-insensitive; declaration order from the file is preserved for
// status rendering.
type Registry struct {
	specs  []*ContainerSpec
	byName map[string]*ContainerSpec
}

type registryFile struct {
	Containers []*ContainerSpec `yaml:"containers"`
}

// New builds a registry from the given specs.
func New(specs []*ContainerSpec) (*Registry, error) {
	r := &Registry{
		specs:  make([]*ContainerSpec, 0, len(specs)),
		byName: make(map[string]*ContainerSpec, len(specs)),
	}

	for _, spec := range specs {
		if spec.Name == "" {
			return nil, errors.New(errors.ErrRegistryParse, "container entry is missing a name")
		}
		key := strings.ToLower(spec.Name)
		if _, exists := r.byName[key]; exists {
			return nil, errors.NewWithDetails(errors.ErrRegistryDuplicate, "duplicate container name", spec.Name)
		}
		r.specs = append(r.specs, spec)
		r.byName[key] = spec
	}

	return r, nil
}

// LoadFile parses a containers.yaml registry file.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewWithDetails(errors.ErrRegistryNotFound, "registry file not found", path)
		}
		return nil, errors.Wrap(errors.ErrRegistryParse, "failed to read registry file", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrRegistryParse, fmt.Sprintf("failed to parse %s", path), err)
	}

	if len(file.Containers) == 0 {
		return nil, errors.NewWithDetails(errors.ErrRegistryParse, "registry file declares no containers", path)
	}

	return New(file.Containers)
}

// Resolve looks up a container spec by short name, case-insensitively.
func (r *Registry) Resolve(name string) (*ContainerSpec, bool) {
	spec, ok := r.byName[strings.ToLower(name)]
	return spec, ok
}

// All returns the specs in declaration order. The returned slice must not be
// mutated.
func (r *Registry) All() []*ContainerSpec {
	return r.specs
}

// Names returns the short names in declaration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.specs))
	for i, spec := range r.specs {
		names[i] = spec.Name
	}
	return names
}

// Len returns the number of registered containers.
func (r *Registry) Len() int {
	return len(r.specs)
}
