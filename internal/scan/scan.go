// Package scan classifies a cursor position in a pipeline configuration
// without building a parse tree. A forward scan over the text maintains a
// stack of brace-delimited frames (section, plugin, conditional, hash value)
// and the top of that stack at the cursor decides what kind of name belongs
// there.
//
// Two variants exist on purpose. Completion refuses to classify a cursor
// that sits inside a string or comment, so no suggestions pop up mid-literal.
// Enclosing scans through unterminated literals and reports the best-effort
// surrounding construct, which is what a help sidebar wants while the user is
// mid-typing a quoted value.
package scan

import "github.com/stashlight/stashlight/internal/schema"

// Kind is the grammatical position of the cursor.
type Kind int

const (
	// KindNone means no completion applies here.
	KindNone Kind = iota
	// KindSection means the cursor is at document top level.
	KindSection
	// KindPlugin means a plugin name is expected.
	KindPlugin
	// KindOption means an option name is expected inside a plugin block.
	KindOption
	// KindCodec means a codec name is expected after "codec =>".
	KindCodec
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindSection:
		return "section"
	case KindPlugin:
		return "plugin"
	case KindOption:
		return "option"
	case KindCodec:
		return "codec"
	default:
		return "none"
	}
}

// Context is the classification result. SectionType is set for KindPlugin
// and KindOption; PluginName is set for KindOption.
type Context struct {
	Kind        Kind
	SectionType schema.SectionType
	PluginName  string
}

// maxDepth caps the frame stack. Pathologically nested input degrades to
// KindNone instead of growing without bound.
const maxDepth = 256

type frameKind int

const (
	frameSection     frameKind = iota // input { ... }
	framePlugin                       // grok { ... }
	frameConditional                  // if ... { ... }
	frameHash                         // match => { ... }
)

type frame struct {
	kind       frameKind
	section    schema.SectionType
	pluginName string // only for framePlugin
}

type stack []frame

// push appends a frame, reporting false once the depth cap is hit.
func (s *stack) push(f frame) bool {
	if len(*s) >= maxDepth {
		return false
	}
	*s = append(*s, f)
	return true
}

// pop removes the top frame. Popping an empty stack is a no-op; actively
// edited text has unbalanced braces all the time.
func (s *stack) pop() {
	if len(*s) > 0 {
		*s = (*s)[:len(*s)-1]
	}
}

// sectionType returns the section type of the nearest frame that has one.
func (s stack) sectionType() schema.SectionType {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i].section != schema.SectionNone {
			return s[i].section
		}
	}
	return schema.SectionNone
}

func (s stack) topKind() (frameKind, bool) {
	if len(s) == 0 {
		return 0, false
	}
	return s[len(s)-1].kind, true
}

// Completion classifies the cursor for autocompletion. It first checks for a
// value position after "=>" (only the codec option gets value completion),
// then runs the strict forward scan that returns KindNone whenever the cursor
// sits inside a string or comment.
func Completion(source string, pos int) Context {
	pos = clampPos(source, pos)

	if ctx, ok := valueContext(source, pos); ok {
		return ctx
	}
	return forwardScan(source, pos, false)
}

// Enclosing classifies the cursor for the context sidebar. It scans through
// strings and comments and resolves a hash-value position to the nearest
// enclosing plugin, so the sidebar still shows something useful while the
// user types inside an option's structured value.
func Enclosing(source string, pos int) Context {
	pos = clampPos(source, pos)
	return forwardScan(source, pos, true)
}

func clampPos(source string, pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(source) {
		return len(source)
	}
	return pos
}

// valueContext checks whether the cursor sits in a value position: a partial
// word (possibly empty) preceded by "=>". Only the codec option completes
// its value; every other value position classifies as KindNone so arbitrary
// option values never receive suggestions.
func valueContext(source string, pos int) (Context, bool) {
	p := pos - 1
	for p >= 0 && isIdentChar(source[p]) {
		p--
	}
	for p >= 0 && isSpace(source[p]) {
		p--
	}
	if p < 1 || source[p-1] != '=' || source[p] != '>' {
		return Context{}, false
	}

	// Extract the attribute name left of "=>".
	ap := p - 2
	for ap >= 0 && (source[ap] == ' ' || source[ap] == '\t') {
		ap--
	}
	nameEnd := ap + 1
	for ap >= 0 && isIdentChar(source[ap]) {
		ap--
	}
	if source[ap+1:nameEnd] == "codec" {
		return Context{Kind: KindCodec}, true
	}
	return Context{Kind: KindNone}, true
}

// forwardScan runs the brace-nesting scan from the start of the document to
// the cursor. In tolerant mode strings and comments are scanned through to
// their real end (possibly past the cursor); in strict mode a cursor inside
// one classifies as KindNone immediately.
func forwardScan(source string, pos int, tolerant bool) Context {
	limit := pos
	if tolerant {
		limit = len(source)
	}

	var frames stack
	i := 0
	for i < pos {
		ch := source[i]

		// Line comment.
		if ch == '#' {
			for i < limit && source[i] != '\n' {
				i++
			}
			if !tolerant && i >= pos {
				return Context{Kind: KindNone}
			}
			continue
		}

		// Quoted string, single or double, with backslash escapes.
		if ch == '"' || ch == '\'' {
			quote := ch
			i++
			for i < limit && source[i] != quote {
				if source[i] == '\\' {
					i++
				}
				i++
			}
			if !tolerant && i >= pos {
				return Context{Kind: KindNone}
			}
			if i < limit {
				i++ // closing quote
			}
			continue
		}

		// A bare opening brace belongs to a conditional: `if`/`else if`
		// condition expressions end in one without a preceding keyword.
		if ch == '{' {
			if !frames.push(frame{kind: frameConditional, section: frames.sectionType()}) {
				return Context{Kind: KindNone}
			}
			i++
			continue
		}

		if ch == '}' {
			frames.pop()
			i++
			continue
		}

		// "=> {" starts a hash value.
		if ch == '=' && i+1 < limit && source[i+1] == '>' {
			i += 2
			for i < limit && isSpace(source[i]) {
				i++
			}
			if i < limit && source[i] == '{' {
				if !frames.push(frame{kind: frameHash, section: frames.sectionType()}) {
					return Context{Kind: KindNone}
				}
				i++
			}
			continue
		}

		if isIdentStart(ch) {
			start := i
			for i < limit && isIdentChar(source[i]) {
				i++
			}
			ident := source[start:i]

			j := i
			for j < limit && isSpace(source[j]) {
				j++
			}

			if j < limit && source[j] == '{' {
				var ok bool
				switch ident {
				case "input", "filter", "output":
					ok = frames.push(frame{kind: frameSection, section: schema.ParseSectionType(ident)})
				case "if", "else":
					ok = frames.push(frame{kind: frameConditional, section: frames.sectionType()})
				default:
					top, has := frames.topKind()
					if has && (top == frameSection || top == frameConditional) {
						ok = frames.push(frame{
							kind:       framePlugin,
							section:    frames.sectionType(),
							pluginName: ident,
						})
					} else {
						// Inside a plugin or hash the identifier is a hash
						// key, not a new plugin.
						ok = frames.push(frame{kind: frameHash, section: frames.sectionType()})
					}
				}
				if !ok {
					return Context{Kind: KindNone}
				}
				i = j + 1
				continue
			}
			continue
		}

		i++
	}

	return classify(frames, tolerant)
}

// classify derives the context from the frame on top of the stack.
func classify(frames stack, tolerant bool) Context {
	if len(frames) == 0 {
		return Context{Kind: KindSection}
	}

	top := frames[len(frames)-1]
	switch top.kind {
	case frameSection, frameConditional:
		return Context{Kind: KindPlugin, SectionType: top.section}
	case framePlugin:
		return Context{Kind: KindOption, SectionType: top.section, PluginName: top.pluginName}
	case frameHash:
		if !tolerant {
			return Context{Kind: KindNone}
		}
		// Hash values are almost always an option's structured argument;
		// report the nearest enclosing plugin.
		for i := len(frames) - 2; i >= 0; i-- {
			if frames[i].kind == framePlugin {
				return Context{
					Kind:        KindOption,
					SectionType: frames[i].section,
					PluginName:  frames[i].pluginName,
				}
			}
		}
		return Context{Kind: KindNone}
	}

	return Context{Kind: KindNone}
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}
