package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/stashlight/stashlight/internal/diag"
)

// reportLine matches one primary report line: an optional source tag,
// "line:col (byteOffset)", an optional "rule X:" marker, then the message.
var reportLine = regexp.MustCompile(`^(?:\S+:)?(\d+):(\d+)\s+\((\d+)\)(?::\s*(?:rule\s+\S+:\s*)?)(.*)`)

// farthestHeader matches the supplementary farthest-failure header:
// "at pos line:col [offset] and [pos]".
var farthestHeader = regexp.MustCompile(`at pos (\d+):(\d+) \[(\d+)\] and \[(\d+)\]`)

// Decode converts a captured parse failure into positioned diagnostics.
//
// The primary report yields one Error diagnostic per parseable line, keyed
// and deduplicated by byte offset (first message per offset wins, encounter
// order preserved). Lines that do not match the expected format collapse
// into a single diagnostic anchored at offset zero, so no parser output is
// dropped silently. The farthest-failure report, when present and not
// already covered by a primary offset, yields one extra Warning listing the
// expected tokens. A failure that decodes to nothing at all falls back to a
// single Error carrying the raw report, so the caller never sees a reported
// failure with an empty diagnostic list.
func Decode(failure *Failure, source string) []diag.Diagnostic {
	if failure == nil {
		return nil
	}

	diags := []diag.Diagnostic{}
	seen := map[int]bool{}

	for _, line := range strings.Split(failure.Report, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		m := reportLine.FindStringSubmatch(line)
		if m == nil {
			if !seen[-1] {
				seen[-1] = true
				diags = append(diags, diag.Diagnostic{
					From:     0,
					To:       diag.ClampTo(1, source),
					Severity: diag.SeverityError,
					Message:  line,
				})
			}
			continue
		}

		offset, _ := strconv.Atoi(m[3])
		msg := m[4]
		if msg == "" {
			msg = line
		}
		if seen[offset] {
			continue
		}
		seen[offset] = true

		from := diag.ClampFrom(offset, source)
		diags = append(diags, diag.Diagnostic{
			From:     from,
			To:       diag.ClampTo(from+1, source),
			Severity: diag.SeverityError,
			Message:  msg,
		})
	}

	if fd := decodeFarthest(failure.Farthest, source, seen); fd != nil {
		diags = append(diags, *fd)
	}

	if len(diags) == 0 {
		diags = append(diags, diag.Diagnostic{
			From:     0,
			To:       diag.ClampTo(1, source),
			Severity: diag.SeverityError,
			Message:  failure.Report,
		})
	}

	return diags
}

// decodeFarthest decodes the supplementary farthest-failure report into at
// most one Warning. Returns nil when the report is absent, unparseable, or
// its offset is already covered by a primary diagnostic.
func decodeFarthest(report, source string, seen map[int]bool) *diag.Diagnostic {
	if report == "" {
		return nil
	}

	m := farthestHeader.FindStringSubmatch(report)
	if m == nil {
		return nil
	}

	offset, _ := strconv.Atoi(m[3])
	if seen[offset] {
		return nil
	}

	var expected []string
	for _, line := range strings.Split(report, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "->") {
			expected = append(expected, strings.TrimSpace(strings.TrimPrefix(line, "->")))
		}
	}

	msg := strings.Join(expected, "; ")
	if msg == "" {
		msg = "parse failed at this position"
	}

	from := diag.ClampFrom(offset, source)
	return &diag.Diagnostic{
		From:     from,
		To:       diag.ClampTo(from+1, source),
		Severity: diag.SeverityWarning,
		Message:  msg,
	}
}
