// Package contextinfo builds the documentation payload for the help
// sidebar: given a best-effort cursor classification it lists the plugins,
// options or codecs that apply there, enriched with whatever documentation
// the active snapshot carries.
package contextinfo

import (
	"sort"

	"github.com/stashlight/stashlight/internal/scan"
	"github.com/stashlight/stashlight/internal/schema"
)

// Info is the sidebar payload, a tagged union discriminated by Kind:
// "top-level", "section", "plugin", "codec" or "none". Absent documentation
// fields stay empty; they affect richness, never correctness.
type Info struct {
	Kind        string            `json:"kind"`
	SectionType string            `json:"sectionType,omitempty"`
	PluginName  string            `json:"pluginName,omitempty"`
	PluginDoc   *schema.PluginDoc `json:"pluginDoc,omitempty"`
	OptionName  string            `json:"optionName,omitempty"`
	OptionDoc   *schema.OptionDoc `json:"optionDoc,omitempty"`
	Plugins     []PluginInfo      `json:"plugins,omitempty"`
	Options     []OptionInfo      `json:"options,omitempty"`
}

// PluginInfo is one plugin or codec entry in a listing.
type PluginInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// OptionInfo is one option entry, with documentation when available.
type OptionInfo struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description,omitempty"`
}

// At builds the sidebar payload for a cursor position using the tolerant
// enclosing-context scan.
func At(snap *schema.Snapshot, source string, pos int) Info {
	return ForContext(snap, scan.Enclosing(source, pos), source, pos)
}

// ForContext builds the payload for an already-classified context.
func ForContext(snap *schema.Snapshot, ctx scan.Context, source string, pos int) Info {
	switch ctx.Kind {
	case scan.KindSection:
		if ctx.SectionType == schema.SectionNone {
			return Info{Kind: "top-level"}
		}
		return sectionInfo(snap, ctx.SectionType)

	case scan.KindPlugin:
		return sectionInfo(snap, ctx.SectionType)

	case scan.KindOption:
		sectionName := ctx.SectionType.String()
		word := scan.WordAt(source, pos)
		info := Info{
			Kind:        "plugin",
			SectionType: sectionName,
			PluginName:  ctx.PluginName,
			PluginDoc:   snap.PluginDocFor(sectionName, ctx.PluginName),
			OptionName:  word,
			Options:     optionList(snap, ctx.SectionType, ctx.PluginName),
		}
		if word != "" {
			info.OptionDoc = snap.OptionDocFor(sectionName, ctx.PluginName, word)
		}
		return info

	case scan.KindCodec:
		return Info{Kind: "codec", Plugins: codecList(snap)}
	}

	return Info{Kind: "none"}
}

func sectionInfo(snap *schema.Snapshot, st schema.SectionType) Info {
	return Info{
		Kind:        "section",
		SectionType: st.String(),
		Plugins:     pluginList(snap, st),
	}
}

// pluginList returns the section's plugins with one-line descriptions.
func pluginList(snap *schema.Snapshot, st schema.SectionType) []PluginInfo {
	names := snap.PluginNames(st)
	if names == nil {
		return nil
	}

	sectionName := st.String()
	list := make([]PluginInfo, 0, len(names))
	for _, name := range names {
		info := PluginInfo{Name: name}
		if doc := snap.PluginDocFor(sectionName, name); doc != nil {
			info.Description = doc.Description
		}
		list = append(list, info)
	}
	return list
}

func codecList(snap *schema.Snapshot) []PluginInfo {
	names := snap.CodecNames()
	if names == nil {
		return nil
	}

	list := make([]PluginInfo, 0, len(names))
	for _, name := range names {
		info := PluginInfo{Name: name}
		if doc := snap.PluginDocFor("codec", name); doc != nil {
			info.Description = doc.Description
		}
		list = append(list, info)
	}
	return list
}

// optionList returns a plugin's merged options, required ones first, then
// alphabetical.
func optionList(snap *schema.Snapshot, st schema.SectionType, pluginName string) []OptionInfo {
	known := snap.OptionsFor(st, pluginName)
	if known == nil {
		return nil
	}

	sectionName := st.String()
	list := make([]OptionInfo, 0, len(known))
	for name := range known {
		info := OptionInfo{Name: name}
		if doc := snap.OptionDocFor(sectionName, pluginName, name); doc != nil {
			info.Type = doc.Type
			info.Required = doc.Required
			info.Default = doc.Default
			info.Description = doc.Description
		}
		list = append(list, info)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Required != list[j].Required {
			return list[i].Required
		}
		return list[i].Name < list[j].Name
	})
	return list
}
