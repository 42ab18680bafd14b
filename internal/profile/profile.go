// Package profile loads conversion profiles: the tag set, root label and
// output layout to use for a family of mind maps.
package profile

import (
	"fmt"
	"os"

	"github.com/dgallion1/mapcase/internal/topic"
	"gopkg.in/yaml.v3"
)

const (
	PresetFull = "full"
	PresetFlat = "flat"

	DefaultTemplateSheet = "模板"
	DefaultCasesSheet    = "测试用例"
	DefaultCaseType      = "功能测试"
)

// Profile describes how one mind map becomes a workbook.
type Profile struct {
	Preset        string   `yaml:"preset,omitempty"`
	Tags          []string `yaml:"tags,omitempty"`
	Root          string   `yaml:"root,omitempty"`
	Classify      bool     `yaml:"classify,omitempty"`
	Sheet         string   `yaml:"sheet,omitempty"`
	Template      string   `yaml:"template,omitempty"`
	TemplateSheet string   `yaml:"template_sheet,omitempty"`
	CasesSheet    string   `yaml:"cases_sheet,omitempty"` // Workbook sheet holding every record
	CaseType      string   `yaml:"case_type,omitempty"`

	tagSet topic.TagSet
}

// Default returns the seven-tag profile without classification.
func Default() *Profile {
	p := &Profile{tagSet: topic.FullTags}
	p.fillDefaults()
	return p
}

// LoadFile loads and parses a YAML profile from the given path.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML data into a Profile.
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile YAML: %w", err)
	}
	if err := p.normalize(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Marshal serializes a Profile to YAML.
func Marshal(p *Profile) ([]byte, error) {
	return yaml.Marshal(p)
}

// Validate fills defaults and resolves the tag set of a profile built
// in code rather than parsed from YAML.
func (p *Profile) Validate() error {
	return p.normalize()
}

// normalize fills defaults and resolves the tag set. Explicit tags win
// over the preset.
func (p *Profile) normalize() error {
	p.fillDefaults()
	if len(p.Tags) > 0 {
		set, err := topic.NewTagSet(p.Tags...)
		if err != nil {
			return fmt.Errorf("profile tags: %w", err)
		}
		if !set.Has(topic.TagTitle) {
			return fmt.Errorf("profile tags: %q is required", topic.TagTitle)
		}
		p.tagSet = set
		return nil
	}

	set, err := PresetTags(p.Preset)
	if err != nil {
		return err
	}
	p.tagSet = set
	return nil
}

func (p *Profile) fillDefaults() {
	if p.Preset == "" {
		p.Preset = PresetFull
	}
	if p.TemplateSheet == "" {
		p.TemplateSheet = DefaultTemplateSheet
	}
	if p.CasesSheet == "" {
		p.CasesSheet = DefaultCasesSheet
	}
	if p.CaseType == "" {
		p.CaseType = DefaultCaseType
	}
}

// SetPreset switches to a named preset, discarding explicit tags.
func (p *Profile) SetPreset(name string) error {
	set, err := PresetTags(name)
	if err != nil {
		return err
	}
	p.Preset = name
	p.Tags = nil
	p.tagSet = set
	return nil
}

// PresetTags maps a preset name to its tag set.
func PresetTags(name string) (topic.TagSet, error) {
	switch name {
	case PresetFull:
		return topic.FullTags, nil
	case PresetFlat:
		return topic.FlatTags, nil
	default:
		return 0, fmt.Errorf("unknown preset %q (want %q or %q)", name, PresetFull, PresetFlat)
	}
}

// TagSet returns the resolved tag set.
func (p *Profile) TagSet() topic.TagSet {
	return p.tagSet
}

// Options returns the aggregation options described by the profile.
func (p *Profile) Options() topic.Options {
	return topic.Options{
		Tags:      p.tagSet,
		RootLabel: p.Root,
		Classify:  p.Classify,
	}
}
