package tourcodes

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Code is one catalogue entry. Name is optional.
type Code struct {
	Code string `json:"code"`
	Name string `json:"name,omitempty"`
}

// Label renders the entry as shown in selects.
func (c Code) Label() string {
	if c.Name == "" {
		return c.Code
	}
	return c.Code + " - " + c.Name
}

// Option is one JSON option returned by the handler.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FromStrings builds a catalogue from bare codes, dropping blanks and
// duplicates.
func FromStrings(codes []string) []Code {
	out := make([]Code, 0, len(codes))
	seen := map[string]struct{}{}
	for _, raw := range codes {
		code := strings.TrimSpace(raw)
		if code == "" {
			continue
		}
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, Code{Code: code})
	}
	return out
}

// Values returns the bare codes in catalogue order.
func Values(codes []Code) []string {
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		out = append(out, code.Code)
	}
	return out
}

// LoadCodes reads a catalogue: one entry per line, the code first and an
// optional name after the first run of whitespace. Blank lines and "#"
// comments are skipped; duplicates keep the first entry. The result is
// sorted by code.
func LoadCodes(r io.Reader) ([]Code, error) {
	if r == nil {
		return nil, fmt.Errorf("tourcodes: missing reader")
	}

	scanner := bufio.NewScanner(r)
	codes := make([]Code, 0, 64)
	seen := map[string]struct{}{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		code, name := parts[0], strings.Join(parts[1:], " ")
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, Code{Code: code, Name: name})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	sort.Slice(codes, func(i, j int) bool { return codes[i].Code < codes[j].Code })
	return codes, nil
}
