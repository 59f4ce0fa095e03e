// Package parser wraps the external full-grammar parser behind a narrow
// seam. The rest of the system consumes either a parsed tree or the captured
// failure text; nothing outside this package touches the parser's error
// format, so swapping the parser only means reimplementing the decoder.
package parser

import (
	config "github.com/breml/logstash-config"
	"github.com/breml/logstash-config/ast"
)

// Failure carries the parser's opaque textual failure output.
type Failure struct {
	// Report is the multi-line primary error report.
	Report string
	// Farthest is the optional supplementary farthest-failure report,
	// empty when the parser produced none.
	Farthest string
}

// Parse runs the external parser over the document. On success it returns
// the parsed tree and a nil failure; on failure the tree is empty and the
// failure holds the raw report text for the decoder.
func Parse(source string) (ast.Config, *Failure) {
	got, err := config.Parse("", []byte(source))
	if err == nil {
		// A successful parse that is not an ast.Config yields an empty
		// tree: nothing to validate, nothing to report.
		cfg, _ := got.(ast.Config)
		return cfg, nil
	}

	f := &Failure{Report: err.Error()}
	if ff, ok := config.GetFarthestFailure(); ok {
		f.Farthest = ff
	}
	return ast.Config{}, f
}
