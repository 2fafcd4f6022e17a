package sourceMerger

import (
	"regexp"
	"strings"
)

var (
	pragmaSolidityPattern = regexp.MustCompile(`(?m)(^|\s)(pragma\s+solidity[^;\n]*;)`)
	importPattern         = regexp.MustCompile(`(?ms)^(\s*?)(import\b.*?;)`)
)

// CommentPragmaSolidity wraps every pragma solidity statement in a block comment.
// Statements already inside a block comment are left alone.
func CommentPragmaSolidity(code string) string {
	return replaceOutsideBlockComments(pragmaSolidityPattern, code, "$1/* $2 */")
}

// CommentImports wraps every import statement, including ones spanning lines, in a block comment.
// Statements already inside a block comment are left alone. Imports with a ; in the
// import path are not handled.
func CommentImports(code string) string {
	return replaceOutsideBlockComments(importPattern, code, "$1/* $2 */")
}

// RenameSpdx turns SPDX-License-Identifier into SPDX--License-Identifier so
// the merged file does not declare more than one license.
func RenameSpdx(code string) string {
	return strings.ReplaceAll(code, "SPDX-", "SPDX--")
}

func transformSource(code string) string {
	return RenameSpdx(CommentImports(CommentPragmaSolidity(code)))
}

// replaceOutsideBlockComments expands template for every match whose second group,
// the statement, starts outside a /* */ comment.
func replaceOutsideBlockComments(re *regexp.Regexp, code string, template string) string {
	comments := blockComments(code)

	var sb strings.Builder
	last := 0
	for _, match := range re.FindAllStringSubmatchIndex(code, -1) {
		if inRanges(match[4], comments) {
			continue
		}
		sb.WriteString(code[last:match[0]])
		sb.Write(re.ExpandString(nil, template, code, match))
		last = match[1]
	}
	sb.WriteString(code[last:])
	return sb.String()
}

// blockComments returns the [start, end) offsets of every /* */ comment.
// Line comments and string literals are skipped so a /* inside them does not open a comment.
// An unterminated comment runs to the end of the code.
func blockComments(code string) [][2]int {
	ranges := make([][2]int, 0)
	for i := 0; i < len(code); {
		switch {
		case strings.HasPrefix(code[i:], "//"):
			end := strings.IndexByte(code[i:], '\n')
			if end < 0 {
				return ranges
			}
			i += end + 1
		case strings.HasPrefix(code[i:], "/*"):
			end := strings.Index(code[i+2:], "*/")
			if end < 0 {
				return append(ranges, [2]int{i, len(code)})
			}
			stop := i + 2 + end + 2
			ranges = append(ranges, [2]int{i, stop})
			i = stop
		case code[i] == '"' || code[i] == '\'':
			quote := code[i]
			j := i + 1
			for j < len(code) && code[j] != quote && code[j] != '\n' {
				if code[j] == '\\' {
					j++
				}
				j++
			}
			i = j + 1
		default:
			i++
		}
	}
	return ranges
}

func inRanges(offset int, ranges [][2]int) bool {
	for _, r := range ranges {
		if offset >= r[0] && offset < r[1] {
			return true
		}
	}
	return false
}
