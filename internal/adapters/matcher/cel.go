// Package matcher builds header matchers from configuration: token lists or
// CEL expressions evaluated against each header name.
package matcher

import (
	"fmt"
	"strings"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/okian/rankmerge/internal/domain/table"
)

var (
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// getCELEnv returns the shared environment. Expressions see two variables:
// name is the trimmed header, upper is the same header uppercased.
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = cel.NewEnv(
			cel.Variable("name", cel.StringType),
			cel.Variable("upper", cel.StringType),
		)
	})
	return celEnv, celEnvErr
}

type exprMatcher struct {
	expr string
	prg  cel.Program
}

// Expr compiles a boolean CEL expression into a table.Matcher, e.g.
//
//	upper.contains("EVENT") && upper.contains("COUNT")
func Expr(expr string) (table.Matcher, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompile, err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCompile, expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%w: %q returns %s", ErrNotBoolean, expr, ast.OutputType())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrCompile, expr, err)
	}
	return &exprMatcher{expr: expr, prg: prg}, nil
}

// Match evaluates the expression; evaluation errors count as no match.
func (m *exprMatcher) Match(header string) bool {
	out, _, err := m.prg.Eval(map[string]any{
		"name":  header,
		"upper": strings.ToUpper(header),
	})
	if err != nil {
		return false
	}
	ok, _ := out.Value().(bool)
	return ok
}

func (m *exprMatcher) String() string { return m.expr }

// Build picks the matcher for one semantic column: a non-empty expression
// wins over tokens, and fallback is used when neither is set.
func Build(tokens []string, expr string, fallback table.Matcher) (table.Matcher, error) {
	if strings.TrimSpace(expr) != "" {
		return Expr(expr)
	}
	var clean []string
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			clean = append(clean, t)
		}
	}
	if len(clean) > 0 {
		return table.Tokens(clean...), nil
	}
	return fallback, nil
}
