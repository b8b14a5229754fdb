// Package yamlconfig loads a tdb.yaml file into tdb rules, so a build can
// be declared data-first instead of (or alongside) Go code. It is wired as
// the Rule Registry's generated-rules hook: entries declared here win on
// name collision against statically Go-declared rules, per the engine's
// pinned precedence.
package yamlconfig

import (
	"context"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/tdbtool/tdb"
	"go.trai.ch/zerr"
)

// Document is the top-level shape of a tdb.yaml file.
type Document struct {
	Rules map[string]RuleDTO `yaml:"rules"`
}

// RuleDTO is a single rule as declared in tdb.yaml.
type RuleDTO struct {
	Description   string   `yaml:"description"`
	Prereqs       []string `yaml:"prereqs"`
	Command       []string `yaml:"command"`
	Type          string   `yaml:"type"`
	KeepOnFailure *bool    `yaml:"keepOnFailure"`
}

// Load parses path into an ordered rule list. Ordering is alphabetical by
// target name, since a YAML mapping carries no reliable declaration order
// once decoded into a Go map.
func Load(path string) ([]tdb.NamedRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to read tdb.yaml")
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse tdb.yaml"), "path", path)
	}

	names := make([]string, 0, len(doc.Rules))
	for name := range doc.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]tdb.NamedRule, 0, len(names))
	for _, name := range names {
		dto := doc.Rules[name]
		out = append(out, tdb.NamedRule{
			Name: name,
			Rule: tdb.Rule{
				Description:   dto.Description,
				Prereqs:       tdb.StaticPrereqs(dto.Prereqs...),
				Command:       dto.Command,
				Type:          tdb.Type(dto.Type),
				KeepOnFailure: dto.KeepOnFailure,
			},
		})
	}
	return out, nil
}

// Hook returns a tdb.GeneratedRulesFunc that loads path on first use, for
// use as Config.GeneratedRules. A missing file is treated as "no
// generated rules" rather than an error, so tdb.yaml stays optional.
func Hook(path string) tdb.GeneratedRulesFunc {
	return func(ctx context.Context) ([]tdb.NamedRule, error) {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, nil
		}
		return Load(path)
	}
}
