package solidity

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// SourceUnit is the parse tree of one Solidity file.
type SourceUnit struct {
	Pos   lexer.Position
	Items []*SourceUnitItem `@@*`
}

// SourceUnitItem is a union of the top level declarations.
type SourceUnitItem struct {
	Pos      lexer.Position
	Pragma   *PragmaDirective    `@@`
	Import   *ImportDirective    `| @@`
	Contract *ContractDefinition `| @@`
	Other    *OtherDefinition    `| @@`
}

type PragmaDirective struct {
	Pos   lexer.Position
	Name  string   `"pragma" @Ident`
	Value []string `( @~";" )* ";"`
}

type ImportDirective struct {
	Pos    lexer.Position
	Tokens []string `"import" ( @~";" )* ";"`
}

// Path is the quoted import path, which is the only string literal in every import form.
func (i *ImportDirective) Path() string {
	for _, t := range i.Tokens {
		if len(t) >= 2 && (t[0] == '"' || t[0] == '\'') && t[len(t)-1] == t[0] {
			return t[1 : len(t)-1]
		}
	}
	return ""
}

// ContractDefinition covers contracts, abstract contracts, interfaces and libraries.
type ContractDefinition struct {
	Pos      lexer.Position
	Abstract bool                    `@"abstract"?`
	Kind     string                  `@( "contract" | "interface" | "library" )`
	Name     string                  `@Ident`
	Bases    []*InheritanceSpecifier `( "is" @@ ( "," @@ )* )?`
	Body     *Block                  `@@`
}

type InheritanceSpecifier struct {
	Pos  lexer.Position
	Name []string    `@Ident ( "." @Ident )*`
	Args *ParenGroup `@@?`
}

// TypeName is the base name without any library or file qualifier, e.g. Base for Lib.Base.
func (is *InheritanceSpecifier) TypeName() string {
	if len(is.Name) == 0 {
		return ""
	}
	return is.Name[len(is.Name)-1]
}

func (is *InheritanceSpecifier) String() string {
	return strings.Join(is.Name, ".")
}

// Block is a balanced pair of braces. The contents are kept as raw tokens.
type Block struct {
	Items []*BlockItem `"{" @@* "}"`
}

type BlockItem struct {
	Block *Block `@@`
	Token string `| @~( "{" | "}" )`
}

type ParenGroup struct {
	Items []*ParenItem `"(" @@* ")"`
}

type ParenItem struct {
	Group *ParenGroup `@@`
	Token string      `| @~( "(" | ")" )`
}

// OtherDefinition is any other top level declaration: free functions, structs, enums,
// errors, events, constants, user defined value types and using directives.
type OtherDefinition struct {
	Pos    lexer.Position
	Tokens []string `( @~( "{" | "}" | ";" ) )+`
	Body   *Block   `( ";" | @@ )`
}
