package scenario

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// InputType is the language of an input fence.
type InputType string

const (
	InputYAML InputType = "yaml"
	InputJSON InputType = "json"
)

// AssertionType is the language of an assertion fence.
type AssertionType string

const (
	AssertNQC         AssertionType = "nqc"
	AssertWarnings    AssertionType = "warnings"
	AssertDiagnostics AssertionType = "diagnostics"
	AssertError       AssertionType = "error"
)

// optionsFence holds generator settings for one case.
const optionsFence = "options"

// Assertion is one expectation of a [Case].
type Assertion struct {
	Type    AssertionType
	Content string // raw fence body
	Line    int
}

// Case is one scenario extracted from a document.
type Case struct {
	Name       string
	Line       int
	Input      string
	InputType  InputType
	Options    string
	Assertions []Assertion
}

const headingPrefix = "Test: "

// Extract returns every scenario in the Markdown document source.
func Extract(source []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var (
		cases   []Case
		current *Case
	)

	flush := func() error {
		if current == nil {
			return nil
		}

		if err := current.check(); err != nil {
			return err
		}

		cases = append(cases, *current)

		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			title := plainText(n, source)
			if !strings.HasPrefix(title, headingPrefix) {
				return ast.WalkSkipChildren, nil
			}

			if err := flush(); err != nil {
				return ast.WalkStop, err
			}

			current = &Case{
				Name: strings.TrimSpace(strings.TrimPrefix(title, headingPrefix)),
				Line: lineOf(n, source),
			}

			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			return ast.WalkSkipChildren, fence(current, n, source)
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return cases, nil
}

// fence records the fenced block n in c.
func fence(c *Case, n *ast.FencedCodeBlock, source []byte) error {
	lang := string(n.Language(source))
	if lang == "" {
		return nil
	}

	line := lineOf(n, source)
	body := fenceBody(n, source)

	malformed := func(msg string) error {
		e := ErrMalformed.With(slog.Int("line", line), slog.String("fence", lang))
		if c != nil {
			e = e.With(slog.String("test", c.Name))
		}

		return e.Wrap(errors.New(msg))
	}

	if c == nil {
		return malformed("fence outside of a test")
	}

	switch {
	case lang == string(InputYAML) || lang == string(InputJSON):
		if c.Input != "" {
			return malformed("multiple input fences")
		}

		c.Input, c.InputType = body, InputType(lang)

	case lang == optionsFence:
		if c.Options != "" {
			return malformed("multiple options fences")
		}

		c.Options = body

	case isAssertion(lang):
		c.Assertions = append(c.Assertions, Assertion{
			Type:    AssertionType(lang),
			Content: body,
			Line:    line,
		})

	default:
		return malformed("unknown fence language")
	}

	return nil
}

func isAssertion(lang string) bool {
	switch AssertionType(lang) {
	case AssertNQC, AssertWarnings, AssertDiagnostics, AssertError:
		return true
	default:
		return false
	}
}

func (c *Case) check() error {
	if strings.TrimSpace(c.Input) == "" {
		return ErrMalformed.With(slog.String("test", c.Name), slog.Int("line", c.Line)).
			Wrap(errors.New("no input fence"))
	}

	if len(c.Assertions) == 0 {
		return ErrMalformed.With(slog.String("test", c.Name), slog.Int("line", c.Line)).
			Wrap(errors.New("no assertion fences"))
	}

	return nil
}

func plainText(node ast.Node, source []byte) string {
	var buf bytes.Buffer

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}

		return ast.WalkContinue, nil
	})

	return buf.String()
}

func fenceBody(n *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer

	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}

	return buf.String()
}

// lineOf returns the 1-based source line of the first text line of n, or 0
// when n holds no text.
func lineOf(n ast.Node, source []byte) int {
	if n.Lines().Len() == 0 {
		return 0
	}

	start := min(n.Lines().At(0).Start, len(source))

	return bytes.Count(source[:start], []byte("\n")) + 1
}

func (c Case) String() string {
	return fmt.Sprintf("%s (line %d)", c.Name, c.Line)
}
