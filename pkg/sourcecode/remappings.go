package sourcecode

import (
	"regexp"
	"strings"
)

// ParseRemappings parses the remappings from the settings section of the explorer's SourceCode.
func ParseRemappings(rawMappings []string) []Remapping {
	remappings := make([]Remapping, 0, len(rawMappings))
	for _, mapping := range rawMappings {
		remappings = append(remappings, ParseRemapping(mapping))
	}
	return remappings
}

// ParseRemapping parses a single mapping like "@openzeppelin/=lib/openzeppelin-contracts/".
//
// The prefix is used as a regular expression without escaping. Prefixes that are not
// valid RE2 syntax are matched literally instead.
func ParseRemapping(mapping string) Remapping {
	from, to, _ := strings.Cut(mapping, "=")

	pattern, err := regexp.Compile("^" + from)
	if err != nil {
		pattern = regexp.MustCompile("^" + regexp.QuoteMeta(from))
	}

	return Remapping{
		From: pattern,
		To:   to,
	}
}
