package res

import (
	"fmt"
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// annotationPrefix marks a preprocessor directive. Directives are whole line WGSL comments,
// so sources stay valid WGSL for tools that do not run the preprocessor.
const annotationPrefix = "//@gdt:"

// Directive is a preprocessor instruction.
type Directive string

const (
	// DirectiveInclude replaces the line with a shared chunk.
	//
	// Syntax: //@gdt:include <chunk>
	DirectiveInclude Directive = "include"
)

// Annotation is a parsed directive line.
type Annotation struct {
	Directive Directive
	Args      []string

	// Line is 1-based.
	Line int
}

// parseAnnotation returns nil for lines that are not directives.
func parseAnnotation(line string, n int) (*Annotation, error) {
	body, ok := strings.CutPrefix(strings.TrimSpace(line), annotationPrefix)
	if !ok {
		return nil, nil
	}
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return nil, fmt.Errorf("line %d: empty directive", n)
	}
	a := &Annotation{Directive: Directive(fields[0]), Args: fields[1:], Line: n}
	switch a.Directive {
	case DirectiveInclude:
		if len(a.Args) != 1 {
			return nil, fmt.Errorf("line %d: include takes one chunk, got %d", n, len(a.Args))
		}
	default:
		return nil, fmt.Errorf("line %d: unknown directive %q", n, a.Directive)
	}
	return a, nil
}

// ChunkResolver returns the source of a named chunk.
type ChunkResolver func(name string) (string, error)

// PreProcessor expands include directives in WGSL sources.
type PreProcessor interface {
	// Process expands every directive of source. Chunks may include other chunks; cycles
	// are errors.
	//
	// Parameters:
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the expanded source
	//   - error: error if a directive is malformed or a chunk is missing or cyclic
	Process(source string) (string, error)

	// Includes returns the chunks expanded by the last Process call in first-use order.
	//
	// Returns:
	//   - []string: the chunk names
	Includes() []string
}

type preProcessor struct {
	resolve  ChunkResolver
	includes []string
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a preprocessor that reads chunks through resolve.
//
// Parameters:
//   - resolve: the chunk lookup
//
// Returns:
//   - PreProcessor: the preprocessor
func NewPreProcessor(resolve ChunkResolver) PreProcessor {
	if resolve == nil {
		panic("res: NewPreProcessor requires a chunk resolver")
	}
	return &preProcessor{resolve: resolve}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.includes = p.includes[:0]
	return p.expand(source, nil)
}

func (p *preProcessor) Includes() []string {
	return p.includes
}

// expand processes source with stack holding the chunks currently being expanded.
func (p *preProcessor) expand(source string, stack []string) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		name := a.Args[0]
		if slices.Contains(stack, name) {
			return "", fmt.Errorf("line %d: include cycle %s -> %s", a.Line, strings.Join(stack, " -> "), name)
		}
		if slices.Contains(p.includes, name) {
			// Expanded once per source.
			continue
		}
		chunk, err := p.resolve(name)
		if err != nil {
			return "", errors.Wrapf(err, "line %d", a.Line)
		}
		p.includes = append(p.includes, name)
		expanded, err := p.expand(chunk, append(stack, name))
		if err != nil {
			return "", errors.Wrapf(err, "in %s", name)
		}
		out = append(out, strings.TrimRight(expanded, "\n"))
	}
	return strings.Join(out, "\n"), nil
}
