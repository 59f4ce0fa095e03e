package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/tidwall/sjson"

	"github.com/stashlight/stashlight/internal/schema"
)

// writeSnapshotFile builds a minimal snapshot JSON fixture and writes it
// into dir.
func writeSnapshotFile(t *testing.T, dir, name, version string, filters []string) {
	t.Helper()

	doc := "{}"
	var err error
	doc, err = sjson.Set(doc, "version", version)
	if err != nil {
		t.Fatalf("sjson.Set version: %v", err)
	}
	doc, err = sjson.Set(doc, "plugins.filter", filters)
	if err != nil {
		t.Fatalf("sjson.Set plugins: %v", err)
	}
	doc, err = sjson.Set(doc, "codecs", []string{"json", "plain"})
	if err != nil {
		t.Fatalf("sjson.Set codecs: %v", err)
	}
	doc, err = sjson.Set(doc, "commonOptions.filter", []string{"id", "add_tag"})
	if err != nil {
		t.Fatalf("sjson.Set commonOptions: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, name), []byte(doc), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestNew_LoadsHighestEmbeddedVersion(t *testing.T) {
	r := New()

	versions := r.Versions()
	if len(versions) < 2 {
		t.Fatalf("expected at least two embedded versions, got %v", versions)
	}
	if got := r.CurrentVersion(); got != versions[len(versions)-1] {
		t.Errorf("CurrentVersion = %q, want highest %q", got, versions[len(versions)-1])
	}

	snap := r.Current()
	if !snap.IsKnownPlugin(schema.SectionFilter, "grok") {
		t.Error("embedded snapshot should know the grok filter")
	}
	if !snap.KnownCodec("json") {
		t.Error("embedded snapshot should know the json codec")
	}
}

func TestNew_EmbeddedYAMLVersionPresent(t *testing.T) {
	r := New()

	found := false
	for _, v := range r.Versions() {
		if v == "7.17.28" {
			found = true
		}
	}
	if !found {
		t.Fatalf("YAML snapshot version missing from %v", r.Versions())
	}

	if err := r.Use("7.17.28"); err != nil {
		t.Fatalf("Use(7.17.28): %v", err)
	}
	if !r.Current().IsKnownPlugin(schema.SectionInput, "twitter") {
		t.Error("7.17.28 snapshot should know the twitter input")
	}
}

func TestNew_NoSources_EmptySnapshot(t *testing.T) {
	r := New(WithoutEmbedded())

	if len(r.Versions()) != 0 {
		t.Errorf("Versions = %v, want none", r.Versions())
	}
	if r.CurrentVersion() != "" {
		t.Errorf("CurrentVersion = %q, want empty", r.CurrentVersion())
	}
	if r.Current().IsKnownPlugin(schema.SectionFilter, "grok") {
		t.Error("empty registry should know nothing")
	}
}

func TestRegistry_Use_SwitchAndBack(t *testing.T) {
	dir := t.TempDir()
	writeSnapshotFile(t, dir, "1.0.0.json", "1.0.0", []string{"grok"})
	writeSnapshotFile(t, dir, "2.0.0.json", "2.0.0", []string{"grok", "mutate"})

	r := New(WithoutEmbedded(), WithDir(dir))

	if got := r.CurrentVersion(); got != "2.0.0" {
		t.Fatalf("CurrentVersion = %q, want 2.0.0", got)
	}
	if !r.Current().IsKnownPlugin(schema.SectionFilter, "mutate") {
		t.Error("2.0.0 should know mutate")
	}

	if err := r.Use("1.0.0"); err != nil {
		t.Fatalf("Use(1.0.0): %v", err)
	}
	if r.Current().IsKnownPlugin(schema.SectionFilter, "mutate") {
		t.Error("1.0.0 should not know mutate")
	}

	// Switching back restores identical knowledge.
	if err := r.Use("2.0.0"); err != nil {
		t.Fatalf("Use(2.0.0): %v", err)
	}
	if !r.Current().IsKnownPlugin(schema.SectionFilter, "mutate") {
		t.Error("switching back lost mutate")
	}
}

func TestRegistry_Use_UnknownVersion(t *testing.T) {
	dir := t.TempDir()
	writeSnapshotFile(t, dir, "1.0.0.json", "1.0.0", []string{"grok"})

	r := New(WithoutEmbedded(), WithDir(dir))

	err := r.Use("9.9.9")
	if !errors.Is(err, ErrVersionNotFound) {
		t.Fatalf("Use(9.9.9) = %v, want ErrVersionNotFound", err)
	}
	// The active snapshot is untouched.
	if got := r.CurrentVersion(); got != "1.0.0" {
		t.Errorf("CurrentVersion after failed switch = %q, want 1.0.0", got)
	}
}

func TestRegistry_Use_BrokenSourceKeepsSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeSnapshotFile(t, dir, "1.0.0.json", "1.0.0", []string{"grok"})
	if err := os.WriteFile(filepath.Join(dir, "2.0.0.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r := New(WithoutEmbedded(), WithDir(dir))

	// Startup tried 2.0.0 (highest), failed, so the snapshot is empty; an
	// explicit switch to the good version must work.
	if err := r.Use("1.0.0"); err != nil {
		t.Fatalf("Use(1.0.0): %v", err)
	}

	if err := r.Use("2.0.0"); err == nil {
		t.Fatal("Use(2.0.0) succeeded on a broken source")
	}
	if got := r.CurrentVersion(); got != "1.0.0" {
		t.Errorf("CurrentVersion after broken switch = %q, want 1.0.0", got)
	}
}

func TestRegistry_DeclaredVersionWins(t *testing.T) {
	dir := t.TempDir()
	// File name stem disagrees with the declared version field.
	writeSnapshotFile(t, dir, "latest.json", "3.1.4", []string{"grok"})

	r := New(WithoutEmbedded(), WithDir(dir))

	if got := r.Versions(); len(got) != 1 || got[0] != "3.1.4" {
		t.Errorf("Versions = %v, want [3.1.4]", got)
	}
	if got := r.CurrentVersion(); got != "3.1.4" {
		t.Errorf("CurrentVersion = %q, want 3.1.4", got)
	}
}

func TestRegistry_Versions_CopyIsIndependent(t *testing.T) {
	dir := t.TempDir()
	writeSnapshotFile(t, dir, "1.0.0.json", "1.0.0", []string{"grok"})

	r := New(WithoutEmbedded(), WithDir(dir))

	v := r.Versions()
	v[0] = "mutated"
	if got := r.Versions()[0]; got != "1.0.0" {
		t.Errorf("Versions() shares state with callers: %q", got)
	}
}
