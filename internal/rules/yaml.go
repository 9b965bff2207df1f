package rules

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/selam-analytics/fidata/internal/model"
)

// yamlFile is the on-disk shape of a rules override file.
type yamlFile struct {
	Pillars map[string]struct {
		Indicators  []string `yaml:"indicators"`
		ValueTypes  []string `yaml:"value_types"`
		Description string   `yaml:"description"`
	} `yaml:"pillars"`
	EventCategories []string `yaml:"event_categories"`
}

// LoadFile builds a rule set from a YAML file. The file replaces the
// built-in table wholesale; sections it omits fall back to the defaults.
func LoadFile(path string) (*Set, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "rules: read %s", path)
	}

	var f yamlFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, eris.Wrapf(err, "rules: parse %s", path)
	}

	set := Default()

	if len(f.Pillars) > 0 {
		set.rules = make(map[model.Pillar]PillarRule, len(f.Pillars))
		for name, pr := range f.Pillars {
			vts := make([]model.ValueType, 0, len(pr.ValueTypes))
			for _, vt := range pr.ValueTypes {
				vts = append(vts, model.ValueType(vt))
			}
			set.rules[model.Pillar(name)] = PillarRule{
				Indicators:  pr.Indicators,
				ValueTypes:  vts,
				Description: pr.Description,
			}
		}
	}

	if len(f.EventCategories) > 0 {
		set.eventCategories = make(map[string]bool, len(f.EventCategories))
		for _, c := range f.EventCategories {
			set.eventCategories[c] = true
		}
	}

	return set, nil
}
