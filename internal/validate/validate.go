// Package validate cross-checks a successfully parsed pipeline configuration
// against a schema snapshot and reports unknown plugin, option and codec
// names as warnings.
package validate

import (
	"fmt"
	"strings"

	"github.com/breml/logstash-config/ast"

	"github.com/stashlight/stashlight/internal/diag"
	"github.com/stashlight/stashlight/internal/schema"
)

// Validator walks parsed configuration trees against one schema snapshot.
// It holds no mutable state: Validate is a pure function of the tree, the
// source text and the snapshot, and is safe to call concurrently.
type Validator struct {
	snap *schema.Snapshot
}

// New creates a validator over the given snapshot.
func New(snap *schema.Snapshot) *Validator {
	return &Validator{snap: snap}
}

// Validate walks every section of the tree and returns warning diagnostics
// for names the snapshot does not know. Offsets are clamped into the source.
func (v *Validator) Validate(cfg ast.Config, source string) []diag.Diagnostic {
	var diags []diag.Diagnostic

	for _, section := range cfg.Input {
		diags = v.walkSection(section, source, diags)
	}
	for _, section := range cfg.Filter {
		diags = v.walkSection(section, source, diags)
	}
	for _, section := range cfg.Output {
		diags = v.walkSection(section, source, diags)
	}

	return diags
}

func (v *Validator) walkSection(section ast.PluginSection, source string, diags []diag.Diagnostic) []diag.Diagnostic {
	st := sectionTypeOf(section.PluginType)
	for _, bop := range section.BranchOrPlugins {
		diags = v.walkBranchOrPlugin(bop, st, source, diags)
	}
	return diags
}

// walkBranchOrPlugin dispatches one block, threading the enclosing section
// type through conditional branches unchanged.
func (v *Validator) walkBranchOrPlugin(bop ast.BranchOrPlugin, st schema.SectionType, source string, diags []diag.Diagnostic) []diag.Diagnostic {
	switch node := bop.(type) {
	case ast.Plugin:
		diags = v.checkPlugin(node, st, source, diags)
	case ast.Branch:
		diags = v.walkBranch(node, st, source, diags)
	}
	return diags
}

func (v *Validator) walkBranch(branch ast.Branch, st schema.SectionType, source string, diags []diag.Diagnostic) []diag.Diagnostic {
	for _, bop := range branch.IfBlock.Block {
		diags = v.walkBranchOrPlugin(bop, st, source, diags)
	}
	for _, elseIf := range branch.ElseIfBlock {
		for _, bop := range elseIf.Block {
			diags = v.walkBranchOrPlugin(bop, st, source, diags)
		}
	}
	for _, bop := range branch.ElseBlock.Block {
		diags = v.walkBranchOrPlugin(bop, st, source, diags)
	}
	return diags
}

// checkPlugin validates one plugin node. An unknown plugin yields exactly
// one warning; its attributes are then skipped entirely so a typo in the
// plugin name does not cascade into per-option noise.
func (v *Validator) checkPlugin(plugin ast.Plugin, st schema.SectionType, source string, diags []diag.Diagnostic) []diag.Diagnostic {
	name := plugin.Name()

	if v.snap.HasSection(st) && !v.snap.IsKnownPlugin(st, name) {
		from := diag.ClampFrom(plugin.Pos().Offset, source)
		diags = append(diags, diag.Diagnostic{
			From:     from,
			To:       diag.ClampTo(from+len(name), source),
			Severity: diag.SeverityWarning,
			Message:  fmt.Sprintf("unknown %s plugin %q", st, name),
		})
		return diags
	}

	knownOpts := v.snap.OptionsFor(st, name)
	for _, attr := range plugin.Attributes {
		diags = v.checkAttribute(attr, knownOpts, source, diags)
	}

	return diags
}

func (v *Validator) checkAttribute(attr ast.Attribute, knownOpts map[string]bool, source string, diags []diag.Diagnostic) []diag.Diagnostic {
	attrName := attr.Name()

	if attrName == "codec" {
		return v.checkCodec(attr, source, diags)
	}

	// A nil option set means the snapshot has no option schema here; skip
	// rather than flagging everything.
	if knownOpts == nil {
		return diags
	}

	if !knownOpts[attrName] {
		from := diag.ClampFrom(attr.Pos().Offset, source)
		diags = append(diags, diag.Diagnostic{
			From:     from,
			To:       diag.ClampTo(from+len(attrName), source),
			Severity: diag.SeverityWarning,
			Message:  fmt.Sprintf("unknown option %q", attrName),
		})
	}

	return diags
}

// checkCodec validates a codec attribute's value, whether written as a
// bare or quoted string or as a nested plugin-style block. The span is an
// approximation of the codec token's location after "codec => ".
func (v *Validator) checkCodec(attr ast.Attribute, source string, diags []diag.Diagnostic) []diag.Diagnostic {
	codecName := extractCodecName(attr.ValueString())
	if codecName == "" || v.snap.KnownCodec(codecName) {
		return diags
	}

	from := diag.ClampFrom(attr.Pos().Offset, source)
	to := diag.ClampTo(from+len("codec => ")+len(codecName), source)
	return append(diags, diag.Diagnostic{
		From:     from,
		To:       to,
		Severity: diag.SeverityWarning,
		Message:  fmt.Sprintf("unknown codec %q", codecName),
	})
}

// extractCodecName pulls the codec name out of an attribute value
// representation: surrounding quotes are stripped, then the leading token up
// to the first space, tab, newline or brace is taken. Handles both
// `codec => "json"` and `codec => json { ... }` forms.
func extractCodecName(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') {
		s = s[1 : len(s)-1]
	}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '{', '\n':
			return s[:i]
		}
	}
	return s
}

func sectionTypeOf(pt ast.PluginType) schema.SectionType {
	switch pt {
	case ast.Input:
		return schema.SectionInput
	case ast.Filter:
		return schema.SectionFilter
	case ast.Output:
		return schema.SectionOutput
	default:
		return schema.SectionNone
	}
}
