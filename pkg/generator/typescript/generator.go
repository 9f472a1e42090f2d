package typescript

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/blimu-dev/swagger-gen/pkg/ir"
	"github.com/blimu-dev/swagger-gen/pkg/openapi"
)

//go:embed templates/*
var templatesFS embed.FS

// ExprMapper maps operation-level schemas to type expressions.
type ExprMapper interface {
	Expr(n *ir.SchemaNode) *ir.TypeExpr
}

// EmitInput is everything the emitter renders.
type EmitInput struct {
	Info       openapi.Info
	BaseURL    string
	Decls      []ir.TypeDecl
	Names      ir.NameTable
	Operations []ir.Operation
	Types      ExprMapper
}

// Artifacts holds the generated sources.
type Artifacts struct {
	// Types is the declarations file shared by the typed service
	Types []byte
	// Service is the typed service file
	Service []byte
	// ServiceJS is the untyped service file
	ServiceJS []byte
}

// Emitter renders declarations and service functions to TypeScript and JavaScript.
type Emitter struct {
	// TypesModule is the module specifier the typed service imports declarations from
	TypesModule string

	templates *template.Template
}

// NewEmitter parses the embedded templates.
func NewEmitter() (*Emitter, error) {
	funcMap := template.FuncMap{
		"jsString": jsString,
	}
	// Merge sprig functions
	for k, v := range sprig.TxtFuncMap() {
		if _, taken := funcMap[k]; !taken {
			funcMap[k] = v
		}
	}
	tmpl, err := template.New("typescript").Funcs(funcMap).ParseFS(templatesFS, "templates/*.gotmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Emitter{TypesModule: "./types", templates: tmpl}, nil
}

// Emit renders the declarations file and both service variants.
func (e *Emitter) Emit(in EmitInput) (*Artifacts, error) {
	header := headerLines(in.Info)

	types, err := e.render("types.ts.gotmpl", typesView{Header: header, Decls: declViews(in.Decls, in.Names)})
	if err != nil {
		return nil, err
	}

	functions, imports := e.functionViews(in)
	view := serviceView{
		Header:      header,
		BaseURL:     jsString(in.BaseURL),
		TypesModule: jsString(e.TypesModule),
		TypeImports: imports,
		Functions:   functions,
	}
	for _, f := range functions {
		view.UsesQuery = view.UsesQuery || f.QueryKeys != ""
		view.UsesHeaders = view.UsesHeaders || f.HeaderKeys != ""
	}

	view.Typed = true
	service, err := e.render("service.gotmpl", view)
	if err != nil {
		return nil, err
	}
	view.Typed = false
	serviceJS, err := e.render("service.gotmpl", view)
	if err != nil {
		return nil, err
	}
	return &Artifacts{Types: types, Service: service, ServiceJS: serviceJS}, nil
}

func (e *Emitter) render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

type typesView struct {
	Header []string
	Decls  []declView
}

type declView struct {
	Name      string
	Interface bool
	Doc       []string
	Fields    []fieldView
	Index     string
	Type      string
}

type fieldView struct {
	Key      string
	Optional bool
	Type     string
	Doc      []string
}

type serviceView struct {
	Typed       bool
	Header      []string
	BaseURL     string
	TypesModule string
	TypeImports []string
	Functions   []funcView
	UsesQuery   bool
	UsesHeaders bool
}

type funcView struct {
	Name   string
	Doc    []string
	Method string
	// Args are the path parameters in template order, then body, query, headers and config
	Args   []argView
	Return string

	URL         string
	QueryKeys   string
	HeaderKeys  string
	HasBody     bool
	ContentType string
}

type argView struct {
	Name     string
	Type     string
	Optional bool
}

func headerLines(info openapi.Info) []string {
	title := strings.TrimSpace(info.Title + " " + info.Version)
	lines := docLines(title, info.Description)
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	return append(lines, "Generated by swagger-gen. Do not edit.")
}

func declViews(decls []ir.TypeDecl, names ir.NameTable) []declView {
	out := make([]declView, 0, len(decls))
	for _, d := range decls {
		v := declView{Name: d.Name, Doc: declDoc(d.Description, d.Deprecated)}
		if d.Shape == ir.ShapeInterface {
			v.Interface = true
			for _, f := range d.Fields {
				v.Fields = append(v.Fields, fieldView{
					Key:      quotePropName(f.Name),
					Optional: !f.Required,
					Type:     renderType(f.Type, names),
					Doc:      declDoc(f.Description, f.Deprecated),
				})
			}
			if d.IndexSignature != nil {
				v.Index = renderType(d.IndexSignature, names)
			}
		} else {
			v.Type = renderType(d.Type, names)
		}
		out = append(out, v)
	}
	return out
}

func declDoc(description string, deprecated bool) []string {
	lines := docLines(description)
	if deprecated {
		lines = append(lines, "@deprecated")
	}
	return lines
}

// functionViews builds one view per operation and collects the declarations the
// typed signatures mention, in first-seen order.
func (e *Emitter) functionViews(in EmitInput) ([]funcView, []string) {
	var imports []string
	seen := map[string]bool{}
	typeOf := func(n *ir.SchemaNode) string {
		t := in.Types.Expr(n)
		for _, ref := range t.Refs() {
			if name, ok := in.Names[ref]; ok && !seen[name] {
				seen[name] = true
				imports = append(imports, name)
			}
		}
		return renderType(t, in.Names)
	}
	paramsType := func(params []ir.Param) (string, bool) {
		optional := true
		parts := make([]string, 0, len(params))
		for _, p := range params {
			opt := "?"
			if p.Required {
				opt = ""
				optional = false
			}
			parts = append(parts, quotePropName(p.Name)+opt+": "+typeOf(p.Schema))
		}
		return "{ " + strings.Join(parts, "; ") + " }", optional
	}
	keys := func(params []ir.Param) string {
		quoted := make([]string, 0, len(params))
		for _, p := range params {
			quoted = append(quoted, jsString(p.Name))
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	}

	out := make([]funcView, 0, len(in.Operations))
	for _, op := range in.Operations {
		f := funcView{
			Name:   op.Name,
			Doc:    operationDoc(op),
			Method: jsString(strings.ToLower(op.Method)),
			URL:    buildPathTemplate(op.Path, op.PathParams),
		}
		for _, p := range op.PathParams {
			f.Args = append(f.Args, argView{Name: p.Identifier, Type: typeOf(p.Schema)})
		}
		if op.Body != nil {
			f.HasBody = true
			f.ContentType = jsString(op.Body.ContentType)
			f.Args = append(f.Args, argView{Name: "body", Type: typeOf(op.Body.Schema), Optional: !op.Body.Required})
		}
		if len(op.QueryParams) > 0 {
			t, optional := paramsType(op.QueryParams)
			f.Args = append(f.Args, argView{Name: "query", Type: t, Optional: optional})
			f.QueryKeys = keys(op.QueryParams)
		}
		if len(op.HeaderParams) > 0 {
			t, optional := paramsType(op.HeaderParams)
			f.Args = append(f.Args, argView{Name: "headers", Type: t, Optional: optional})
			f.HeaderKeys = keys(op.HeaderParams)
		}
		f.Args = append(f.Args, argView{Name: "config", Type: "AxiosRequestConfig", Optional: true})
		f.Args = signatureArgs(f.Args)

		switch {
		case op.Response != nil:
			f.Return = typeOf(op.Response)
		case isVoidStatus(op.ResponseStatus):
			f.Return = "void"
		default:
			f.Return = "unknown"
		}
		out = append(out, f)
	}
	return out, imports
}

// signatureArgs keeps "?" only on trailing optional arguments; an optional argument
// followed by a required one is typed T | undefined instead.
func signatureArgs(groups []argView) []argView {
	trailing := true
	for i := len(groups) - 1; i >= 0; i-- {
		if !groups[i].Optional {
			trailing = false
			continue
		}
		if !trailing {
			groups[i].Optional = false
			groups[i].Type += " | undefined"
		}
	}
	return groups
}

func operationDoc(op ir.Operation) []string {
	lines := docLines(op.Summary, op.Description)
	if len(lines) > 0 {
		lines = append(lines, "")
	}
	lines = append(lines, op.Method+" "+strings.ReplaceAll(op.Path, "*/", "*\\/"))
	if op.Deprecated {
		lines = append(lines, "@deprecated")
	}
	return lines
}
