package mapdata

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/andrescamacho/railbot-go/internal/domain/loads"
)

// LoadRegistry reads load_cities.json and builds the load supply registry.
// Each LoadConfiguration entry is an object with one dynamic key (the load
// name mapping to its producing cities) plus a "count" key for the number of
// chips in play.
func LoadRegistry(path string) (*loads.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read load file: %w", err)
	}

	var file struct {
		LoadConfiguration []map[string]json.RawMessage `json:"LoadConfiguration"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse load file: %w", err)
	}

	configs := make([]loads.Config, 0, len(file.LoadConfiguration))
	for i, entry := range file.LoadConfiguration {
		var cfg loads.Config
		var haveLoad bool

		for key, raw := range entry {
			if key == "count" {
				if err := json.Unmarshal(raw, &cfg.Total); err != nil {
					return nil, fmt.Errorf("load entry %d: bad count: %w", i, err)
				}
				continue
			}
			if haveLoad {
				return nil, fmt.Errorf("load entry %d: more than one load key", i)
			}
			loadType, err := loads.ParseLoadType(key)
			if err != nil {
				return nil, fmt.Errorf("load entry %d: %w", i, err)
			}
			if err := json.Unmarshal(raw, &cfg.Cities); err != nil {
				return nil, fmt.Errorf("load entry %d: bad city list: %w", i, err)
			}
			cfg.Type = loadType
			haveLoad = true
		}

		if !haveLoad {
			return nil, fmt.Errorf("load entry %d: no load key", i)
		}
		configs = append(configs, cfg)
	}

	registry, err := loads.NewRegistry(configs)
	if err != nil {
		return nil, fmt.Errorf("invalid load file: %w", err)
	}
	return registry, nil
}
