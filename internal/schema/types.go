// Package schema models one immutable, versioned snapshot of the names that
// are valid in a Logstash pipeline configuration: plugins per section, codecs,
// and per-plugin options, plus optional human-readable documentation.
package schema

// SectionType identifies one of the three top-level pipeline sections.
type SectionType int

const (
	// SectionNone means no section applies (document top level).
	SectionNone SectionType = iota
	// SectionInput is the input section.
	SectionInput
	// SectionFilter is the filter section.
	SectionFilter
	// SectionOutput is the output section.
	SectionOutput
)

// String returns the section keyword, or "" for SectionNone.
func (s SectionType) String() string {
	switch s {
	case SectionInput:
		return "input"
	case SectionFilter:
		return "filter"
	case SectionOutput:
		return "output"
	default:
		return ""
	}
}

// ParseSectionType maps a section keyword to its SectionType.
// Unrecognized keywords map to SectionNone.
func ParseSectionType(s string) SectionType {
	switch s {
	case "input":
		return SectionInput
	case "filter":
		return SectionFilter
	case "output":
		return SectionOutput
	default:
		return SectionNone
	}
}

// SectionTypes lists the three real sections in declaration order.
func SectionTypes() []SectionType {
	return []SectionType{SectionInput, SectionFilter, SectionOutput}
}

// OptionDoc is optional documentation for a single plugin option.
type OptionDoc struct {
	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Required    bool   `json:"required,omitempty" yaml:"required,omitempty"`
	Default     string `json:"default,omitempty" yaml:"default,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// PluginDoc is optional documentation for a plugin or codec.
type PluginDoc struct {
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Options     map[string]*OptionDoc `json:"options,omitempty" yaml:"options,omitempty"`
}

// Data mirrors the raw snapshot file format produced by the schema scraper.
// Plugin option keys are section-qualified, e.g. "filter/grok".
type Data struct {
	Version          string                           `json:"version" yaml:"version"`
	Plugins          map[string][]string              `json:"plugins" yaml:"plugins"`
	Codecs           []string                         `json:"codecs" yaml:"codecs"`
	CommonOptions    map[string][]string              `json:"commonOptions" yaml:"commonOptions"`
	PluginOptions    map[string][]string              `json:"pluginOptions" yaml:"pluginOptions"`
	PluginDocs       map[string]*PluginDoc            `json:"pluginDocs,omitempty" yaml:"pluginDocs,omitempty"`
	CodecDocs        map[string]*PluginDoc            `json:"codecDocs,omitempty" yaml:"codecDocs,omitempty"`
	CommonOptionDocs map[string]map[string]*OptionDoc `json:"commonOptionDocs,omitempty" yaml:"commonOptionDocs,omitempty"`
}
