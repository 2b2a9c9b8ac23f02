package rulefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/ast"
	"github.com/anushka81/Rule-Engine-with-AST/pkg/rules/parser"
)

// File is the YAML document holding rule definitions:
//
//	rules:
//	  - name: fitness
//	    expression: steps > 10000 AND bmi < 25
//	    description: Active members with a healthy BMI
type File struct {
	Rules []Definition `yaml:"rules"`
}

// Definition is one rule in a rule file.
type Definition struct {
	Name        string `yaml:"name"`
	Expression  string `yaml:"expression"`
	Description string `yaml:"description,omitempty"`

	// Tree is filled in by Load.
	Tree *ast.Node `yaml:"-"`
}

// DefinitionError reports a problem with one definition.
type DefinitionError struct {
	Index int // 1-based position in the file
	Name  string
	Err   error
}

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("rule %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("rule %d (%s): %v", e.Index, e.Name, e.Err)
}

// Unwrap returns the underlying error.
func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// LoadError collects every invalid definition in a file.
type LoadError struct {
	Path   string
	Errors []*DefinitionError
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%s: %d invalid rule(s): %s", e.Path, len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap returns the individual definition errors.
func (e *LoadError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

var (
	errMissingName = errors.New("name is required")
	errDuplicate   = errors.New("name is defined more than once")
)

// Loader reads rule files and parses their expressions.
type Loader struct {
	parser *parser.Parser
}

// NewLoader creates a Loader that parses with p, or with default limits
// when p is nil.
func NewLoader(p *parser.Parser) *Loader {
	if p == nil {
		p = parser.NewParser()
	}
	return &Loader{parser: p}
}

// Load reads the rule file at path with default parser limits.
func Load(path string) ([]Definition, error) {
	return NewLoader(nil).Load(path)
}

// Load reads and parses the rule file at path. All definitions are checked;
// if any is invalid a *LoadError lists every problem and no definitions are
// returned.
func (l *Loader) Load(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}

	defs, err := l.Parse(data)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Path = path
			return nil, loadErr
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// Parse decodes rule file content. Unknown keys are rejected.
func (l *Loader) Parse(data []byte) ([]Definition, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	var problems []*DefinitionError
	seen := make(map[string]bool, len(file.Rules))

	for i := range file.Rules {
		def := &file.Rules[i]
		def.Name = strings.TrimSpace(def.Name)

		fail := func(err error) {
			problems = append(problems, &DefinitionError{Index: i + 1, Name: def.Name, Err: err})
		}

		if def.Name == "" {
			fail(errMissingName)
			continue
		}
		if seen[def.Name] {
			fail(errDuplicate)
			continue
		}
		seen[def.Name] = true

		tree, err := l.parser.Parse(def.Expression)
		if err != nil {
			fail(err)
			continue
		}
		def.Expression = strings.TrimSpace(def.Expression)
		def.Tree = tree
	}

	if len(problems) > 0 {
		return nil, &LoadError{Errors: problems}
	}
	return file.Rules, nil
}
