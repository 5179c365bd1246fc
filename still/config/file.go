/*
DESCRIPTION
  file.go provides loading of configuration variables from a TOML file.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LoadFile reads the TOML file at path and returns its top level keys and
// values in the string form accepted by Config.Update, e.g.
//
//	still-change-time = 800
//	use-stale-frame = true
//	output-prefix = "/var/lib/still/still-"
func LoadFile(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}
	return parseTOML(b)
}

func parseTOML(b []byte) (map[string]string, error) {
	var raw map[string]interface{}
	err := toml.Unmarshal(b, &raw)
	if err != nil {
		return nil, fmt.Errorf("could not parse config file: %w", err)
	}

	vars := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v := v.(type) {
		case string:
			vars[k] = v
		case int64, float64, bool:
			vars[k] = fmt.Sprint(v)
		default:
			return nil, fmt.Errorf("unsupported value for %s: %T", k, v)
		}
	}
	return vars, nil
}
