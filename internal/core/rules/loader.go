package rules

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadRuleset reads a YAML ruleset. The document is overlaid on the built-in
// ruleset named by its "extends" key (canonical when absent), so a file only
// needs to list what it changes. Lists replace, they do not merge.
func LoadRuleset(r io.Reader) (Ruleset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Ruleset{}, fmt.Errorf("read ruleset: %w", err)
	}

	var header struct {
		Extends string `yaml:"extends"`
	}
	if err := yaml.Unmarshal(raw, &header); err != nil {
		return Ruleset{}, fmt.Errorf("parse ruleset header: %w", err)
	}
	base, err := Lookup(header.Extends)
	if err != nil {
		return Ruleset{}, fmt.Errorf("resolve ruleset base: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(false)
	if err := dec.Decode(&base); err != nil && err != io.EOF {
		return Ruleset{}, fmt.Errorf("parse ruleset: %w", err)
	}
	if err := base.validate(); err != nil {
		return Ruleset{}, fmt.Errorf("invalid ruleset: %w", err)
	}
	return base, nil
}

func LoadRulesetFile(path string) (Ruleset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Ruleset{}, fmt.Errorf("open ruleset file: %w", err)
	}
	defer f.Close()
	return LoadRuleset(f)
}

// Resolve picks the ruleset from a file when path is set, otherwise the
// built-in version.
func Resolve(version, path string) (Ruleset, error) {
	if path != "" {
		return LoadRulesetFile(path)
	}
	return Lookup(version)
}
