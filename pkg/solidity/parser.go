package solidity

import (
	"github.com/alecthomas/participle/v2"
)

var sourceUnitParser = participle.MustBuild[SourceUnit](
	participle.Lexer(SolidityLexer),
	participle.Elide("Whitespace", "Comment", "MultiLineComment"),
	participle.UseLookahead(4),
)

// Parser parses Solidity source into a SourceUnit. It holds no state and is safe for concurrent use.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) ParseSourceCode(filename string, code string) (*SourceUnit, error) {
	return sourceUnitParser.ParseString(filename, code)
}
