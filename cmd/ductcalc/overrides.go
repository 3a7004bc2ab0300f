package main

import (
	"fmt"
	"os"
	"strings"

	"Ductcalc/internal/calc/duct"

	"gopkg.in/yaml.v3"
)

// overrideFile is the YAML layout accepted by --overrides:
//
//	cfm_per_ton: 350
//	overrides:
//	  return_5_Flex: 30
//	  supply_20_Sheet: xx
type overrideFile struct {
	CFMPerTon string            `yaml:"cfm_per_ton"`
	Overrides map[string]string `yaml:"overrides"`
}

func loadOverrideFile(path string) (overrideFile, error) {
	var out overrideFile
	data, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	if err := yaml.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("parse %s: %w", path, err)
	}
	for key := range out.Overrides {
		if _, ok := duct.ParseOverrideKey(key); !ok {
			return out, fmt.Errorf("%s: unknown table cell %q", path, key)
		}
	}
	return out, nil
}

// parseDuctFlag splits "diameter:type:qty"; the type may be omitted
// ("8::3" or "8:3") and then defaults to Flex in the engine.
func parseDuctFlag(s string) (diameter, typ, qty string, err error) {
	parts := strings.Split(s, ":")
	switch len(parts) {
	case 2:
		return parts[0], "", parts[1], nil
	case 3:
		return parts[0], parts[1], parts[2], nil
	default:
		return "", "", "", fmt.Errorf("duct %q: want diameter:type:qty", s)
	}
}

func entriesFromFlags(values []string) (duct.Entries, error) {
	var e duct.Entries
	for _, v := range values {
		d, t, q, err := parseDuctFlag(v)
		if err != nil {
			return duct.Entries{}, err
		}
		e.Add(d, t, q)
	}
	return e, nil
}
