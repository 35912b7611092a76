package schema

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/goliatone/go-tripsurvey/pkg/answers"
)

const (
	// NightsField bounds the number of hotel sections.
	NightsField = "tour_nights"
	// TransportCountField bounds the number of transport sections.
	TransportCountField = "transport_count"

	MaxHotels     = 30
	MaxTransports = 10
)

// Counts captures the repeat counts a build expands to.
type Counts struct {
	Hotels     int `json:"hotels"`
	Transports int `json:"transports"`
}

// CountsFrom resolves both repeat counts from the stored answers.
func CountsFrom(reader answers.Reader) Counts {
	return Counts{
		Hotels:     HotelCount(reader),
		Transports: TransportCount(reader),
	}
}

// HotelCount resolves the hotel section count from tour_nights.
func HotelCount(reader answers.Reader) int {
	return ResolveCount(scalar(reader, NightsField), MaxHotels)
}

// TransportCount resolves the transport section count from transport_count.
func TransportCount(reader answers.Reader) int {
	return ResolveCount(scalar(reader, TransportCountField), MaxTransports)
}

// NextTransportCount returns the count the add-transport action stores next
// and whether it grows past the current count (false once capped).
func NextTransportCount(reader answers.Reader) (int, bool) {
	current := TransportCount(reader)
	if current >= MaxTransports {
		return MaxTransports, false
	}
	return current + 1, true
}

// IsCountField reports whether writes to id change the generated shape.
func IsCountField(id string) bool {
	return id == NightsField || id == TransportCountField
}

// ResolveCount parses the leading integer of raw and clamps it into
// [1, max]. Non-numeric and non-positive input resolves to 1. Stored values
// are never rewritten; clamping only applies to generation.
func ResolveCount(raw string, max int) int {
	n, ok := parseLeadingInt(raw)
	if !ok || n <= 0 {
		return 1
	}
	if max > 0 && n > max {
		return max
	}
	return n
}

// parseLeadingInt reads an optionally signed run of decimal digits after
// leading whitespace, ignoring anything that follows ("7 nights" -> 7,
// "3.9" -> 3).
func parseLeadingInt(raw string) (int, bool) {
	trimmed := strings.TrimLeftFunc(raw, unicode.IsSpace)
	if trimmed == "" {
		return 0, false
	}

	sign := 1
	switch trimmed[0] {
	case '-':
		sign = -1
		trimmed = trimmed[1:]
	case '+':
		trimmed = trimmed[1:]
	}

	end := 0
	for end < len(trimmed) && trimmed[end] >= '0' && trimmed[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(trimmed[:end])
	if err != nil {
		// Only overflow reaches here; saturate so clamping still applies.
		if sign < 0 {
			return -1, true
		}
		return int(^uint(0) >> 1), true
	}
	return sign * n, true
}

func scalar(reader answers.Reader, id string) string {
	if reader == nil {
		return ""
	}
	value, ok := reader.Get(id)
	if !ok {
		return ""
	}
	return value.Scalar()
}
