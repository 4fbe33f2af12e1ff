// Package preset defines the fixed table of locales the tool can switch to.
package preset

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Preset struct {
	Code        string `yaml:"code"`
	DisplayName string `yaml:"name"`
}

// The built-in table. Order is what the menu shows.
var builtin = []Preset{
	{"en_US.UTF-8", "English (US)"},
	{"zh_CN.UTF-8", "Chinese (Simplified)"},
	{"zh_TW.UTF-8", "Chinese (Traditional)"},
	{"ja_JP.UTF-8", "Japanese"},
	{"ko_KR.UTF-8", "Korean"},
	{"de_DE.UTF-8", "German"},
	{"fr_FR.UTF-8", "French"},
	{"ru_RU.UTF-8", "Russian"},
	{"es_ES.UTF-8", "Spanish"},
	{"pt_BR.UTF-8", "Portuguese (Brazil)"},
}

func Builtin() []Preset {
	out := make([]Preset, len(builtin))
	copy(out, builtin)
	return out
}

// Load returns the preset list: the built-in table, or the contents of the
// optional YAML override file when one is configured.
func Load(overridePath string) ([]Preset, error) {
	if overridePath == "" {
		return Builtin(), nil
	}
	return LoadFile(overridePath)
}

func LoadFile(path string) ([]Preset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read preset file %s", path)
	}

	var presets []Preset
	if err = yaml.UnmarshalStrict(content, &presets); err != nil {
		return nil, errors.Wrapf(err, "cannot parse preset file %s", path)
	}
	if err = validate(presets); err != nil {
		return nil, errors.Wrapf(err, "invalid preset file %s", path)
	}
	return presets, nil
}

func validate(presets []Preset) error {
	if len(presets) == 0 {
		return fmt.Errorf("preset list is empty")
	}
	seen := map[string]bool{}
	for i, p := range presets {
		if p.Code == "" || p.DisplayName == "" {
			return fmt.Errorf("preset %d has an empty code or name", i+1)
		}
		if seen[p.Code] {
			return fmt.Errorf("duplicate preset code %s", p.Code)
		}
		seen[p.Code] = true
	}
	return nil
}
