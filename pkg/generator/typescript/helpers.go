package typescript

import (
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/blimu-dev/swagger-gen/pkg/ir"
	"github.com/blimu-dev/swagger-gen/pkg/utils"
)

// renderType converts a type expression to TypeScript source
func renderType(t *ir.TypeExpr, names ir.NameTable) string {
	if t == nil {
		return "unknown"
	}
	switch t.Kind {
	case ir.ExprPrimitive:
		return t.Primitive
	case ir.ExprLiteral:
		return literal(t.Literal)
	case ir.ExprNamed:
		if name, ok := names[t.Ref]; ok {
			return name
		}
		return "unknown"
	case ir.ExprArray:
		return "Array<" + renderType(t.Elem, names) + ">"
	case ir.ExprUnion:
		parts := make([]string, 0, len(t.Members))
		for _, m := range t.Members {
			parts = append(parts, renderType(m, names))
		}
		return strings.Join(parts, " | ")
	case ir.ExprMap:
		return "{ [key: string]: " + renderType(t.Elem, names) + " }"
	case ir.ExprObject:
		if len(t.Fields) == 0 && t.Elem == nil {
			return "Record<string, unknown>"
		}
		parts := make([]string, 0, len(t.Fields)+1)
		for _, f := range t.Fields {
			parts = append(parts, fieldSignature(f, names))
		}
		if t.Elem != nil {
			parts = append(parts, "[key: string]: "+renderType(t.Elem, names))
		}
		return "{ " + strings.Join(parts, "; ") + " }"
	}
	return "unknown"
}

func fieldSignature(f ir.Field, names ir.NameTable) string {
	opt := ""
	if !f.Required {
		opt = "?"
	}
	return quotePropName(f.Name) + opt + ": " + renderType(f.Type, names)
}

// literal renders an enum value as a TypeScript literal type
func literal(v any) string {
	switch x := v.(type) {
	case string:
		return jsString(x)
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case nil:
		return "null"
	}
	return jsString(fmt.Sprint(v))
}

// jsString quotes s as a JavaScript string literal
func jsString(s string) string {
	b, err := json.MarshalNoEscape(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return string(b)
}

// quotePropName quotes property names that are not plain identifiers
func quotePropName(name string) string {
	if utils.IsIdentifier(name) {
		return name
	}
	return jsString(name)
}

// buildPathTemplate converts an API path to a template literal, substituting each
// {name} placeholder with its encoded argument.
func buildPathTemplate(path string, params []ir.Param) string {
	idents := map[string]string{}
	for _, p := range params {
		idents[p.Name] = p.Identifier
	}
	var b strings.Builder
	b.WriteString("`")
	for i := 0; i < len(path); i++ {
		if path[i] == '{' {
			j := i + 1
			for j < len(path) && path[j] != '}' {
				j++
			}
			if j < len(path) {
				if ident, ok := idents[path[i+1:j]]; ok {
					b.WriteString("${encodeURIComponent(String(")
					b.WriteString(ident)
					b.WriteString("))}")
					i = j
					continue
				}
			}
		}
		switch path[i] {
		case '`', '\\':
			b.WriteByte('\\')
		case '$':
			if i+1 < len(path) && path[i+1] == '{' {
				b.WriteByte('\\')
			}
		}
		b.WriteByte(path[i])
	}
	b.WriteString("`")
	return b.String()
}

// docLines splits a description into comment lines, keeping the comment closed.
func docLines(parts ...string) []string {
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if len(out) > 0 {
			out = append(out, "")
		}
		for _, line := range strings.Split(p, "\n") {
			out = append(out, strings.ReplaceAll(strings.TrimRight(line, " \t\r"), "*/", "*\\/"))
		}
	}
	return out
}

// isVoidStatus reports whether a success status never carries a body.
func isVoidStatus(code string) bool {
	return code == "204" || code == "205"
}
