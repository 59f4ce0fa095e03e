package complete

import (
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/stashlight/stashlight/internal/scan"
	"github.com/stashlight/stashlight/internal/schema"
)

func testSnapshot() *schema.Snapshot {
	return schema.NewSnapshot(schema.Data{
		Version: "test",
		Plugins: map[string][]string{
			"input":  {"stdin", "file", "beats"},
			"filter": {"mutate", "grok", "date"},
			"output": {"stdout"},
		},
		Codecs: []string{"plain", "json", "rubydebug"},
		CommonOptions: map[string][]string{
			"filter": {"id", "add_tag"},
		},
		PluginOptions: map[string][]string{
			"filter/grok": {"match", "overwrite"},
		},
	})
}

func labels(options []Option) []string {
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.Label
	}
	return out
}

func TestAt_SectionKeywords(t *testing.T) {
	res := At(testSnapshot(), "", 0)

	want := []string{"input", "filter", "output"}
	if !reflect.DeepEqual(labels(res.Options), want) {
		t.Errorf("labels = %v, want %v", labels(res.Options), want)
	}
	for _, o := range res.Options {
		if o.Kind != "keyword" || o.Detail != "section" {
			t.Errorf("option %+v, want keyword/section", o)
		}
	}
}

func TestAt_PluginNamesSortedAscending(t *testing.T) {
	source := "filter { "
	res := At(testSnapshot(), source, len(source))

	want := []string{"date", "grok", "mutate"}
	got := labels(res.Options)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("labels = %v, want %v", got, want)
	}
	if !sort.StringsAreSorted(got) {
		t.Errorf("labels not sorted: %v", got)
	}
	for _, o := range res.Options {
		if o.Detail != "filter plugin" {
			t.Errorf("detail = %q, want \"filter plugin\"", o.Detail)
		}
	}
}

func TestAt_OptionsMergedAndSorted(t *testing.T) {
	source := "filter { grok { "
	res := At(testSnapshot(), source, len(source))

	want := []string{"add_tag", "id", "match", "overwrite"}
	if !reflect.DeepEqual(labels(res.Options), want) {
		t.Errorf("labels = %v, want %v", labels(res.Options), want)
	}
}

func TestAt_UnknownPluginNoOptions(t *testing.T) {
	source := "filter { grop { "
	res := At(testSnapshot(), source, len(source))

	if len(res.Options) != 0 {
		t.Errorf("options for unknown plugin = %v, want none", labels(res.Options))
	}
}

func TestAt_CodecNames(t *testing.T) {
	source := "input { stdin { codec => "
	res := At(testSnapshot(), source, len(source))

	want := []string{"json", "plain", "rubydebug"}
	if !reflect.DeepEqual(labels(res.Options), want) {
		t.Errorf("labels = %v, want %v", labels(res.Options), want)
	}
	for _, o := range res.Options {
		if o.Kind != "enum" || o.Detail != "codec" {
			t.Errorf("option %+v, want enum/codec", o)
		}
	}
}

func TestAt_InsideStringReturnsEmpty(t *testing.T) {
	source := `filter { grok { match => "unterminated`
	res := At(testSnapshot(), source, len(source))

	if res.Options == nil {
		t.Fatal("Options must never be nil")
	}
	if len(res.Options) != 0 {
		t.Errorf("options inside string = %v, want none", labels(res.Options))
	}
}

func TestAt_FromIsWordStart(t *testing.T) {
	source := "filter { gr"
	res := At(testSnapshot(), source, len(source))

	if res.From != len(source)-2 {
		t.Errorf("From = %d, want %d", res.From, len(source)-2)
	}
	// The partial word still completes against the full plugin list.
	if !strings.Contains(strings.Join(labels(res.Options), " "), "grok") {
		t.Errorf("labels = %v, want grok present", labels(res.Options))
	}
}

func TestForContext_NoneKind(t *testing.T) {
	if got := ForContext(testSnapshot(), scan.Context{Kind: scan.KindNone}); got != nil {
		t.Errorf("ForContext(none) = %v, want nil", got)
	}
}

func TestForContext_EmptySnapshot(t *testing.T) {
	snap := schema.Empty()

	if got := ForContext(snap, scan.Context{Kind: scan.KindPlugin, SectionType: schema.SectionFilter}); got != nil {
		t.Errorf("plugin completions from empty snapshot = %v, want nil", got)
	}
	if got := ForContext(snap, scan.Context{Kind: scan.KindCodec}); got != nil {
		t.Errorf("codec completions from empty snapshot = %v, want nil", got)
	}
	// Section keywords are static and survive an empty schema.
	if got := ForContext(snap, scan.Context{Kind: scan.KindSection}); len(got) != 3 {
		t.Errorf("section completions = %v, want 3 keywords", got)
	}
}
