package expression

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/sirupsen/logrus"
)

// CompiledExpression keeps the source text next to the program for log output.
type CompiledExpression struct {
	Program *vm.Program
	Text    string
}

// evalContext is the environment names are evaluated against.
type evalContext struct {
	Name  string
	Lower string
	Runes int
}

func newEvalContext(name string) *evalContext {
	return &evalContext{
		Name:  name,
		Lower: strings.ToLower(name),
		Runes: utf8.RuneCountInString(name),
	}
}

func (e *evalContext) HasPrefix(prefix string) bool {
	return strings.HasPrefix(e.Lower, strings.ToLower(prefix))
}

func (e *evalContext) Contains(substr string) bool {
	return strings.Contains(e.Lower, strings.ToLower(substr))
}

func Compile(expressions []string) ([]CompiledExpression, error) {
	compiled := make([]CompiledExpression, 0, len(expressions))

	for _, text := range expressions {
		program, err := expr.Compile(text, expr.Env(&evalContext{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile expression %q: %w", text, err)
		}

		compiled = append(compiled, CompiledExpression{Program: program, Text: text})
	}

	return compiled, nil
}

// CheckNameSingleMatch reports whether any expression is true for name, and which.
func CheckNameSingleMatch(name string, expressions []CompiledExpression) (bool, string, error) {
	env := newEvalContext(name)

	for _, expression := range expressions {
		result, err := expr.Run(expression.Program, env)
		if err != nil {
			return false, "", fmt.Errorf("check expression: %w", err)
		}

		expResult, ok := result.(bool)
		if !ok {
			return false, "", fmt.Errorf("expression %q result is not a bool: %T", expression.Text, result)
		}

		if expResult {
			return true, expression.Text, nil
		}
	}

	return false, "", nil
}

// NameFilter adapts expressions to a directory.NameFilter signature.
// Skipped names are traced to log with the expression that matched; log may be nil.
func NameFilter(expressions []CompiledExpression, log *logrus.Entry) func(name string) (bool, error) {
	return func(name string) (bool, error) {
		match, reason, err := CheckNameSingleMatch(name, expressions)
		if match && log != nil {
			log.Tracef("Skipping %q, matched: %s", name, reason)
		}
		return match, err
	}
}
