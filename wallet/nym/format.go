package nym

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Placeholder is shown for values the backend did not report
const Placeholder = "-"

const identityEdge = 6

// TruncateIdentity shortens a node identity to its first and last six characters
func TruncateIdentity(identity string) string {
	if len(identity) <= 2*identityEdge {
		return identity
	}
	return identity[:identityEdge] + "..." + identity[len(identity)-identityEdge:]
}

// ExplorerURL links a node identity to its network explorer page
func ExplorerURL(explorerURL, identity string) string {
	return strings.TrimRight(explorerURL, "/") + "/network-components/mixnode/" + identity
}

func FormatAmount(a Optional[Amount]) string {
	v, ok := a.Get()
	if !ok {
		return Placeholder
	}
	return v.String()
}

func FormatPercent(p Optional[float64]) string {
	v, ok := p.Get()
	if !ok {
		return Placeholder
	}
	return strconv.FormatFloat(v, 'f', -1, 64) + "%"
}

// FormatSaturation renders a saturation ratio as a percentage rounded to three decimals
func FormatSaturation(s Optional[float64]) string {
	v, ok := s.Get()
	if !ok {
		return Placeholder
	}
	return strconv.FormatFloat(math.Round(v*100000)/1000, 'f', -1, 64) + "%"
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// ParseISODate accepts RFC 3339 timestamps, zone-less timestamps and plain dates
func ParseISODate(s string) (time.Time, bool) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders an ISO-8601 timestamp as dd/MM/yyyy
func FormatDate(iso string) string {
	t, ok := ParseISODate(iso)
	if !ok {
		return Placeholder
	}
	return t.Format("02/01/2006")
}
