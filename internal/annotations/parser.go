package annotations

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// annotation is the participle grammar root for a single comment line
type annotation struct {
	Name   string       `parser:"Comment Prefix @Ident"`
	Params []*parameter `parser:"@@*"`
}

type parameter struct {
	Key   string  `parser:"'-' @Ident"`
	Value *string `parser:"( '=' @(String | Ident | Number) )?"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//`},
	{Name: "Prefix", Pattern: `delegate::`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_./]*`},
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?`},
	{Name: "Punct", Pattern: `[-=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// Parser parses //delegate:: comment annotations
type Parser struct {
	parser *participle.Parser[annotation]
}

// NewParser creates a new annotation parser
func NewParser() *Parser {
	return &Parser{
		parser: participle.MustBuild[annotation](
			participle.Lexer(annotationLexer),
			participle.Elide("Whitespace"),
			participle.Unquote("String"),
			participle.UseLookahead(2),
		),
	}
}

// IsAnnotation reports whether a comment line is a delegate annotation
func IsAnnotation(comment string) bool {
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(comment), "//"))
	return strings.HasPrefix(text, Prefix)
}

// Parse parses a single comment line
func (p *Parser) Parse(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	text := normalize(comment)
	parsed, err := p.parser.ParseString(location.File, text)
	if err != nil {
		return nil, &SyntaxError{Location: location, Raw: comment, Cause: err}
	}

	result := &ParsedAnnotation{
		Name:       parsed.Name,
		Parameters: make(map[string]string, len(parsed.Params)),
		Location:   location,
		Raw:        comment,
	}
	for _, param := range parsed.Params {
		if _, exists := result.Parameters[param.Key]; exists {
			return nil, &SyntaxError{
				Location: location,
				Raw:      comment,
				Cause:    fmt.Errorf("duplicate parameter -%s", param.Key),
			}
		}
		value := "true"
		if param.Value != nil {
			value = *param.Value
		}
		result.Parameters[param.Key] = value
		result.Order = append(result.Order, param.Key)
	}
	return result, nil
}

// normalize removes the optional space between the comment marker and the prefix
func normalize(comment string) string {
	text := strings.TrimSpace(comment)
	text = strings.TrimPrefix(text, "//")
	return "//" + strings.TrimSpace(text)
}

// SyntaxError reports a malformed annotation
type SyntaxError struct {
	Location SourceLocation
	Raw      string
	Cause    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: invalid annotation %q: %v", e.Location, strings.TrimSpace(e.Raw), e.Cause)
}

func (e *SyntaxError) Unwrap() error {
	return e.Cause
}
