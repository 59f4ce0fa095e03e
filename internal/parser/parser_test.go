package parser

import "testing"

func TestParse_ValidConfig(t *testing.T) {
	cfg, failure := Parse("input { stdin { } }\noutput { stdout { } }\n")

	if failure != nil {
		t.Fatalf("Parse failed: %q", failure.Report)
	}
	if len(cfg.Input) != 1 || len(cfg.Output) != 1 {
		t.Errorf("tree sections = %d input, %d output, want 1 each", len(cfg.Input), len(cfg.Output))
	}
}

func TestParse_InvalidConfig(t *testing.T) {
	_, failure := Parse("input { stdin {\n")

	if failure == nil {
		t.Fatal("Parse succeeded on unbalanced input")
	}
	if failure.Report == "" {
		t.Error("failure report is empty")
	}

	// Whatever the report looks like, decoding it must yield diagnostics.
	diags := Decode(failure, "input { stdin {\n")
	if len(diags) == 0 {
		t.Error("Decode produced no diagnostics for a reported failure")
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	// An empty document must not panic; either outcome decodes cleanly.
	cfg, failure := Parse("")
	if failure != nil {
		diags := Decode(failure, "")
		if len(diags) == 0 {
			t.Error("Decode produced no diagnostics for a reported failure")
		}
		return
	}
	if len(cfg.Input)+len(cfg.Filter)+len(cfg.Output) != 0 {
		t.Errorf("empty document produced non-empty tree")
	}
}
