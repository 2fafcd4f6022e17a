package solidity

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// SolidityLexer tokenizes just enough of Solidity to find top level definitions.
// Rules are tried in order, so comments come before punctuation.
var SolidityLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "MultiLineComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"|'(?:\\.|[^'\\])*'`},
	{Name: "Number", Pattern: `0[xX][0-9a-fA-F_]+|[0-9][0-9_]*(?:\.[0-9_]+)*(?:[eE][-+]?[0-9]+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_$][a-zA-Z0-9_$]*`},
	{Name: "Punct", Pattern: `[^\s\w$"']`},
	{Name: "Whitespace", Pattern: `\s+`},
})
