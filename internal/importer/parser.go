// internal/importer/parser.go
package importer

import (
	"errors"
	"fmt"
	"strings"
)

// LeadCandidate is a parsed, validated CSV row awaiting commit. The phone
// field always holds the normalized number. Candidates are never mutated
// after parse; re-parsing replaces the whole set.
type LeadCandidate struct {
	Name  string            `json:"name"`
	Phone string            `json:"phone"`
	Email string            `json:"email,omitempty"`
	Notes string            `json:"notes,omitempty"`
	Extra map[string]string `json:"extra,omitempty"`
}

type ParseResult struct {
	Valid        []LeadCandidate `json:"valid"`
	InvalidCount int             `json:"invalid_count"`
}

// FormatError means the CSV header is unusable; nothing was parsed.
type FormatError struct {
	Missing []string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("csv is missing required column(s): %s", strings.Join(e.Missing, ", "))
}

// ErrNoValidRows means every data row failed validation.
var ErrNoValidRows = errors.New("csv contains no valid lead rows")

// ParseLeads parses CSV text into lead candidates. The first line is the
// header (lower-cased, trimmed); name and phone columns are required. A row
// is kept only when its name is non-empty and its phone normalizes.
// Per-row failures are aggregated into InvalidCount, not raised.
//
// This is a line/comma splitter, not a full CSV grammar: quoted commas and
// embedded newlines are not supported and will mis-parse.
func ParseLeads(text string) (*ParseResult, error) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	headers := []string{}
	for _, h := range strings.Split(lines[0], ",") {
		headers = append(headers, strings.ToLower(strings.TrimSpace(h)))
	}

	nameIdx, phoneIdx := -1, -1
	for i, h := range headers {
		switch h {
		case "name":
			nameIdx = i
		case "phone":
			phoneIdx = i
		}
	}
	missing := []string{}
	if nameIdx < 0 {
		missing = append(missing, "name")
	}
	if phoneIdx < 0 {
		missing = append(missing, "phone")
	}
	if len(missing) > 0 {
		return nil, &FormatError{Missing: missing}
	}

	valid := []LeadCandidate{}
	dataLines := 0

	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		dataLines++

		cells := strings.Split(line, ",")
		row := map[string]string{}
		for i, h := range headers {
			if i < len(cells) {
				row[h] = strings.TrimSpace(cells[i])
			}
		}

		name := row["name"]
		phone, ok := NormalizePhone(row["phone"])
		if name == "" || !ok {
			continue
		}

		cand := LeadCandidate{
			Name:  name,
			Phone: phone,
			Email: row["email"],
			Notes: row["notes"],
		}
		for k, v := range row {
			switch k {
			case "name", "phone", "email", "notes":
			default:
				if cand.Extra == nil {
					cand.Extra = map[string]string{}
				}
				cand.Extra[k] = v
			}
		}
		valid = append(valid, cand)
	}

	if len(valid) == 0 {
		return nil, ErrNoValidRows
	}

	return &ParseResult{
		Valid:        valid,
		InvalidCount: dataLines - len(valid),
	}, nil
}
