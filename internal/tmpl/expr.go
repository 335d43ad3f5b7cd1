package tmpl

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
)

// TraversalKey generates a stable, canonical string representation for an
// hcl.Traversal, e.g. "p1b1.id" or "theme.obj[\"btn\"]".
func TraversalKey(t hcl.Traversal) string {
	return string(hclwrite.TokensForTraversal(t).Bytes())
}

// compile parses src as a single expression and checks that it only uses
// the supported subset of the language.
func compile(src string) (hclsyntax.Expression, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "template", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrSyntax, diags.Error())
	}
	if err := checkAllowed(expr); err != nil {
		return nil, err
	}
	return expr, nil
}

// spaceHyphens puts spaces around every "-" outside string literals that
// sits between two name characters, so "w-10" reads as "w - 10". Exponents
// of number literals such as "1e-5" are left alone.
func spaceHyphens(src string) string {
	var sb strings.Builder
	inString := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case inString && c == '\\' && i+1 < len(src):
			sb.WriteByte(c)
			i++
			c = src[i]
		case c == '"':
			inString = !inString
		case !inString && c == '-' && i > 0 && i+1 < len(src) &&
			isNameByte(src[i-1]) && isNameByte(src[i+1]) && !inNumber(src, i):
			sb.WriteString(" - ")
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// inNumber reports whether the token ending just before src[i] is a number
// literal.
func inNumber(src string, i int) bool {
	start := i
	for start > 0 && (isNameByte(src[start-1]) || src[start-1] == '-') {
		start--
	}
	return start < i && src[start] >= '0' && src[start] <= '9'
}

func isNameByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

var arithmeticOps = map[*hclsyntax.Operation]string{
	hclsyntax.OpAdd:      "+",
	hclsyntax.OpSubtract: "-",
	hclsyntax.OpMultiply: "*",
	hclsyntax.OpDivide:   "/",
	hclsyntax.OpModulo:   "%",
}

// checkAllowed walks the syntax tree and rejects anything beyond literals,
// variable access and arithmetic.
func checkAllowed(expr hclsyntax.Expression) error {
	switch e := expr.(type) {
	case *hclsyntax.LiteralValueExpr, *hclsyntax.ScopeTraversalExpr:
		return nil
	case *hclsyntax.RelativeTraversalExpr:
		return checkAllowed(e.Source)
	case *hclsyntax.IndexExpr:
		if err := checkAllowed(e.Collection); err != nil {
			return err
		}
		return checkAllowed(e.Key)
	case *hclsyntax.ParenthesesExpr:
		return checkAllowed(e.Expression)
	case *hclsyntax.BinaryOpExpr:
		if _, ok := arithmeticOps[e.Op]; !ok {
			return fmt.Errorf("%w: only arithmetic operators (+ - * / %%) are supported", ErrSyntax)
		}
		if err := checkAllowed(e.LHS); err != nil {
			return err
		}
		return checkAllowed(e.RHS)
	case *hclsyntax.UnaryOpExpr:
		if e.Op != hclsyntax.OpNegate {
			return fmt.Errorf("%w: only unary minus is supported", ErrSyntax)
		}
		return checkAllowed(e.Val)
	case *hclsyntax.TemplateExpr:
		// Quoted string literal; interpolation inside quotes is not supported.
		for _, part := range e.Parts {
			if _, ok := part.(*hclsyntax.LiteralValueExpr); !ok {
				return fmt.Errorf("%w: interpolation inside string literals is not supported", ErrSyntax)
			}
		}
		return nil
	case *hclsyntax.FunctionCallExpr:
		return fmt.Errorf("%w: function call %q is not supported", ErrSyntax, e.Name)
	default:
		return fmt.Errorf("%w: unsupported expression %T", ErrSyntax, expr)
	}
}
