// Package complete turns a scanned cursor context into a ranked list of
// name suggestions drawn from the active schema snapshot.
package complete

import (
	"sort"

	"github.com/stashlight/stashlight/internal/scan"
	"github.com/stashlight/stashlight/internal/schema"
)

// Option is one completion candidate.
type Option struct {
	Label  string `json:"label"`
	Kind   string `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

// Result is a completion response. From is the offset where replacement
// starts: the beginning of the identifier under the cursor.
type Result struct {
	From    int      `json:"from"`
	Options []Option `json:"options"`
}

// At computes completions for the cursor position. The result is never nil
// and Options is never nil; an unclassifiable position yields an empty list.
func At(snap *schema.Snapshot, source string, pos int) Result {
	ctx := scan.Completion(source, pos)

	options := ForContext(snap, ctx)
	if options == nil {
		options = []Option{}
	}

	return Result{
		From:    scan.WordStart(source, pos),
		Options: options,
	}
}

// ForContext builds the candidate list for an already-classified context.
func ForContext(snap *schema.Snapshot, ctx scan.Context) []Option {
	switch ctx.Kind {
	case scan.KindSection:
		return []Option{
			{Label: "input", Kind: "keyword", Detail: "section"},
			{Label: "filter", Kind: "keyword", Detail: "section"},
			{Label: "output", Kind: "keyword", Detail: "section"},
		}

	case scan.KindPlugin:
		names := snap.PluginNames(ctx.SectionType)
		if names == nil {
			return nil
		}
		detail := ctx.SectionType.String() + " plugin"
		options := make([]Option, 0, len(names))
		for _, name := range names {
			options = append(options, Option{Label: name, Kind: "type", Detail: detail})
		}
		return options

	case scan.KindOption:
		known := snap.OptionsFor(ctx.SectionType, ctx.PluginName)
		if known == nil {
			return nil
		}
		options := make([]Option, 0, len(known))
		for _, name := range sortedNames(known) {
			options = append(options, Option{Label: name, Kind: "property", Detail: "option"})
		}
		return options

	case scan.KindCodec:
		names := snap.CodecNames()
		if names == nil {
			return nil
		}
		options := make([]Option, 0, len(names))
		for _, name := range names {
			options = append(options, Option{Label: name, Kind: "enum", Detail: "codec"})
		}
		return options
	}

	return nil
}

func sortedNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
