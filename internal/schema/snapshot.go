package schema

import "sort"

// Snapshot is one immutable set of valid names for a single schema version.
// All lookups go through accessors; the internal maps are never handed out,
// so a snapshot can be shared across concurrent readers and swapped atomically
// by the registry.
type Snapshot struct {
	version          string
	plugins          map[SectionType]map[string]bool
	codecs           map[string]bool
	commonOptions    map[SectionType]map[string]bool
	pluginOptions    map[string]map[string]bool // key: "filter/grok"
	pluginDocs       map[string]*PluginDoc      // key: "filter/grok"
	codecDocs        map[string]*PluginDoc      // key: "json"
	commonOptionDocs map[string]map[string]*OptionDoc
}

// NewSnapshot builds an immutable snapshot from raw snapshot data.
// Section names that are not input/filter/output are ignored.
func NewSnapshot(data Data) *Snapshot {
	s := &Snapshot{
		version:          data.Version,
		plugins:          make(map[SectionType]map[string]bool, 3),
		codecs:           make(map[string]bool, len(data.Codecs)),
		commonOptions:    make(map[SectionType]map[string]bool, 3),
		pluginOptions:    make(map[string]map[string]bool, len(data.PluginOptions)),
		pluginDocs:       make(map[string]*PluginDoc, len(data.PluginDocs)),
		codecDocs:        make(map[string]*PluginDoc, len(data.CodecDocs)),
		commonOptionDocs: make(map[string]map[string]*OptionDoc, len(data.CommonOptionDocs)),
	}

	for sectionName, names := range data.Plugins {
		st := ParseSectionType(sectionName)
		if st == SectionNone {
			continue
		}
		s.plugins[st] = toSet(names)
	}

	for _, c := range data.Codecs {
		s.codecs[c] = true
	}

	for sectionName, opts := range data.CommonOptions {
		st := ParseSectionType(sectionName)
		if st == SectionNone {
			continue
		}
		s.commonOptions[st] = toSet(opts)
	}

	for key, opts := range data.PluginOptions {
		s.pluginOptions[key] = toSet(opts)
	}

	for k, v := range data.PluginDocs {
		s.pluginDocs[k] = v
	}
	for k, v := range data.CodecDocs {
		s.codecDocs[k] = v
	}
	for k, v := range data.CommonOptionDocs {
		s.commonOptionDocs[k] = v
	}

	return s
}

// Empty returns a snapshot that knows no names at all.
func Empty() *Snapshot {
	return NewSnapshot(Data{})
}

// Version returns the snapshot's version string.
func (s *Snapshot) Version() string { return s.version }

// IsKnownPlugin reports whether name is a known plugin for the section type.
func (s *Snapshot) IsKnownPlugin(st SectionType, name string) bool {
	return s.plugins[st][name]
}

// HasSection reports whether the snapshot carries any plugin list for the
// section type. An absent list disables plugin-name checking for that
// section, which is how an empty registry stays silent.
func (s *Snapshot) HasSection(st SectionType) bool {
	_, ok := s.plugins[st]
	return ok
}

// KnownCodec reports whether name is a known codec.
func (s *Snapshot) KnownCodec(name string) bool {
	return s.codecs[name]
}

// PluginNames returns the sorted plugin names for a section type.
func (s *Snapshot) PluginNames(st SectionType) []string {
	return sortedKeys(s.plugins[st])
}

// CodecNames returns all known codec names, sorted.
func (s *Snapshot) CodecNames() []string {
	return sortedKeys(s.codecs)
}

// OptionsFor returns the merged set of valid option names for a plugin:
// the section's common options plus the plugin's specific options.
// It returns nil when the plugin itself is unknown; callers must treat nil
// as "skip option checking", not as "no options are valid".
func (s *Snapshot) OptionsFor(st SectionType, pluginName string) map[string]bool {
	if plugins, ok := s.plugins[st]; ok {
		if !plugins[pluginName] {
			return nil
		}
	}

	common := s.commonOptions[st]
	specific := s.pluginOptions[st.String()+"/"+pluginName]

	// No plugin-specific schema: fall back to common options alone. A nil
	// common set stays nil so callers skip option checking entirely.
	if specific == nil {
		if common == nil {
			return nil
		}
		return copySet(common)
	}

	merged := make(map[string]bool, len(common)+len(specific))
	for k := range common {
		merged[k] = true
	}
	for k := range specific {
		merged[k] = true
	}
	return merged
}

// PluginDocFor returns documentation for a plugin, or for a codec when
// sectionName is "codec". Returns nil when no documentation exists.
func (s *Snapshot) PluginDocFor(sectionName, pluginName string) *PluginDoc {
	if sectionName == "codec" {
		return s.codecDocs[pluginName]
	}
	return s.pluginDocs[sectionName+"/"+pluginName]
}

// OptionDocFor returns documentation for one option of a plugin.
// Plugin-specific docs shadow the section's common option docs.
func (s *Snapshot) OptionDocFor(sectionName, pluginName, optionName string) *OptionDoc {
	if pd, ok := s.pluginDocs[sectionName+"/"+pluginName]; ok && pd != nil && pd.Options != nil {
		if od, ok := pd.Options[optionName]; ok {
			return od
		}
	}
	if commonDocs, ok := s.commonOptionDocs[sectionName]; ok {
		if od, ok := commonDocs[optionName]; ok {
			return od
		}
	}
	return nil
}

func toSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func copySet(src map[string]bool) map[string]bool {
	if src == nil {
		return map[string]bool{}
	}
	dst := make(map[string]bool, len(src))
	for k := range src {
		dst[k] = true
	}
	return dst
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
