package solidity

import (
	"regexp"
	"strings"

	"github.com/hashicorp/go-version"
)

var semverPattern = regexp.MustCompile(`\d+\.\d+\.\d+`)

// ParseSolidityVersion turns an explorer compiler version like v0.8.19+commit.7dd6d404 into 0.8.19.
func ParseSolidityVersion(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if v, err := version.NewVersion(trimmed); err == nil {
		return v.Core().String()
	}
	if match := semverPattern.FindString(trimmed); match != "" {
		return match
	}
	return strings.TrimPrefix(trimmed, "v")
}
