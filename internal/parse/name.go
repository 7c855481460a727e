package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	seqRe   = regexp.MustCompile(`[-\s]+(\d+)\s*$`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// ParsedLabel holds the structured data parsed from a desk or space label.
type ParsedLabel struct {
	Zone string
	Seq  int
}

// String renders the label in its canonical "<Zone>-<seq>" form. Labels
// without a sequence number render as the bare zone.
func (l ParsedLabel) String() string {
	if l.Seq == 0 {
		return l.Zone
	}
	return fmt.Sprintf("%s-%d", l.Zone, l.Seq)
}

// ParseLabel extracts the zone and sequence number from a raw label such as
// "North-12", "north 12" or "Aurora". A trailing number is optional; the zone
// is not.
func ParseLabel(raw string) (ParsedLabel, error) {
	// '#' and '_' are used as separators by some hand-written layouts
	s := strings.NewReplacer("#", " ", "_", " ").Replace(raw)
	s = strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))

	seq := 0
	if loc := seqRe.FindStringSubmatchIndex(s); loc != nil {
		if n, err := strconv.Atoi(s[loc[2]:loc[3]]); err == nil {
			seq = n
			s = strings.TrimSpace(s[:loc[0]])
		}
	}

	if s == "" {
		return ParsedLabel{}, fmt.Errorf("unable to parse zone from label: %q", raw)
	}

	zone := strings.ToUpper(s[:1]) + s[1:]
	return ParsedLabel{Zone: zone, Seq: seq}, nil
}
