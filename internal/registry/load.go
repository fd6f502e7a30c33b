package registry

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/gatekeeper/internal/domain"
	"github.com/mrz1836/gatekeeper/internal/errors"
)

// document is the on-disk shape of a hooks.yaml registry file.
type document struct {
	Hooks []entry `yaml:"hooks"`
}

// entry mirrors domain.HookDefinition with a string TTL so operators can
// write "5m" instead of nanosecond counts.
type entry struct {
	ID            string         `yaml:"id"`
	Agent         string         `yaml:"agent"`
	Category      string         `yaml:"category"`
	TriggerEvents []string       `yaml:"trigger_events"`
	PathPatterns  []string       `yaml:"path_patterns"`
	CacheTTL      string         `yaml:"cache_ttl"`
	AllowBlock    bool           `yaml:"allow_block"`
	Config        map[string]any `yaml:"config"`
}

// LoadDefinitions parses a declarative hook registry document.
// Each definition is validated; the first invalid entry aborts the load
// so a typo never silently drops a check.
func LoadDefinitions(r io.Reader) ([]domain.HookDefinition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read registry document")
	}

	var doc document
	if err = yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse registry document")
	}

	defs := make([]domain.HookDefinition, 0, len(doc.Hooks))
	for _, e := range doc.Hooks {
		def, convErr := e.toDefinition()
		if convErr != nil {
			return nil, convErr
		}
		if valErr := def.Validate(); valErr != nil {
			return nil, valErr
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// LoadDefinitionsFile loads a registry document from a file path.
func LoadDefinitionsFile(path string) ([]domain.HookDefinition, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from validated config
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open registry document %s", path)
	}
	defer func() {
		_ = f.Close()
	}()
	return LoadDefinitions(f)
}

// toDefinition converts a YAML entry to a domain definition, parsing the
// TTL string. An empty TTL means caching disabled.
func (e entry) toDefinition() (domain.HookDefinition, error) {
	var ttl time.Duration
	if e.CacheTTL != "" {
		parsed, err := time.ParseDuration(e.CacheTTL)
		if err != nil {
			return domain.HookDefinition{}, fmt.Errorf("%w: hook %q has invalid cache_ttl %q", errors.ErrInvalidDefinition, e.ID, e.CacheTTL)
		}
		ttl = parsed
	}

	return domain.HookDefinition{
		ID:            e.ID,
		Agent:         e.Agent,
		Category:      domain.Category(e.Category),
		TriggerEvents: e.TriggerEvents,
		PathPatterns:  e.PathPatterns,
		CacheTTL:      ttl,
		AllowBlock:    e.AllowBlock,
		Config:        e.Config,
	}, nil
}
