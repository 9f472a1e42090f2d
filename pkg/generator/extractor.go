package generator

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"

	"github.com/blimu-dev/swagger-gen/pkg/doctree"
	"github.com/blimu-dev/swagger-gen/pkg/generrors"
	"github.com/blimu-dev/swagger-gen/pkg/ir"
	"github.com/blimu-dev/swagger-gen/pkg/openapi"
	"github.com/blimu-dev/swagger-gen/pkg/utils"
)

var placeholderRe = regexp.MustCompile(`\{([^{}]+)\}`)

// moduleBindings are the top-level names every generated service declares or imports.
var moduleBindings = []string{"axios", "client", "buildQuery", "buildHeaders"}

// bindingNames are taken by the generated function body, including the globals it calls.
var bindingNames = map[string]bool{
	"body": true, "query": true, "headers": true, "config": true, "url": true, "response": true,
	"axios": true, "client": true, "buildQuery": true, "buildHeaders": true,
	"String": true, "encodeURIComponent": true,
}

// ExtractOptions configures ExtractOperations.
type ExtractOptions struct {
	// IncludeTags and ExcludeTags are regular expressions matched against operation tags.
	// Untagged operations carry the "misc" tag.
	IncludeTags []string
	ExcludeTags []string
	// ReservedNames are module-level names operations must not take, such as the
	// declarations the typed service imports.
	ReservedNames []string
}

// ExtractOperations walks every path and method in document order and produces one
// operation descriptor per callable operation.
func ExtractOperations(g *Graph, opts ExtractOptions, w *generrors.Collector) ([]ir.Operation, error) {
	include, exclude, err := compileTagFilters(opts.IncludeTags, opts.ExcludeTags)
	if err != nil {
		return nil, err
	}
	if w == nil {
		w = generrors.NewCollector(nil)
	}
	x := &extractor{graph: g, warn: w, used: map[string]bool{}}
	for _, name := range moduleBindings {
		x.used[name] = true
	}
	for _, name := range opts.ReservedNames {
		x.used[name] = true
	}

	var out []ir.Operation
	paths := g.Doc.Map("paths")
	for _, p := range paths.Keys() {
		raw, _ := paths.Get(p)
		if raw == nil {
			continue
		}
		item, itemPath, err := g.Deref(raw, "/paths/"+jsonpointer.Escape(p))
		if err != nil {
			return nil, err
		}
		for _, method := range item.Keys() {
			if !httpMethods[method] {
				continue
			}
			op := item.Map(method)
			if op == nil {
				continue
			}
			tags := operationTags(op)
			if !shouldIncludeOperation(tags, include, exclude) {
				continue
			}
			operation, err := x.extract(item, itemPath, op, method, p, tags)
			if err != nil {
				return nil, err
			}
			out = append(out, operation)
		}
	}
	return out, nil
}

type extractor struct {
	graph *Graph
	warn  *generrors.Collector
	// used holds every function name handed out so far
	used map[string]bool
}

type paramRef struct {
	m    *doctree.Map
	path string
}

func (x *extractor) extract(item *doctree.Map, itemPath string, op *doctree.Map, method, path string, tags []string) (ir.Operation, error) {
	opPath := itemPath + "/" + method
	label := strings.ToUpper(method) + " " + path

	o := ir.Operation{
		OperationID: op.String("operationId"),
		Method:      strings.ToUpper(method),
		Path:        path,
		Tags:        tags,
		Summary:     op.String("summary"),
		Description: op.String("description"),
		Deprecated:  op.Bool("deprecated"),
	}
	o.Name = x.uniqueName(operationName(o.OperationID, method, path))

	params, err := x.mergeParams(item.Slice("parameters"), itemPath+"/parameters", op.Slice("parameters"), opPath+"/parameters")
	if err != nil {
		return o, err
	}

	var form *ir.SchemaNode
	for _, pr := range params {
		name := pr.m.String("name")
		in := pr.m.String("in")
		switch in {
		case "path", "query", "header":
			param := ir.Param{
				Name:        name,
				Identifier:  utils.ValueName(name),
				Required:    pr.m.Bool("required") || in == "path",
				Schema:      x.paramSchema(pr),
				Description: pr.m.String("description"),
			}
			switch in {
			case "path":
				o.PathParams = append(o.PathParams, param)
			case "query":
				o.QueryParams = append(o.QueryParams, param)
			default:
				o.HeaderParams = append(o.HeaderParams, param)
			}
		case "body":
			o.Body = &ir.Body{
				Schema:      x.schemaAt(pr.path + "/schema"),
				Required:    pr.m.Bool("required"),
				ContentType: x.consumes(op, "application/json"),
			}
		case "formData":
			if form == nil {
				form = &ir.SchemaNode{Kind: ir.KindObject, Path: opPath + "/parameters"}
			}
			required := pr.m.Bool("required")
			if required {
				form.Required = append(form.Required, name)
			}
			form.Properties = append(form.Properties, ir.Property{Name: name, Schema: x.paramSchema(pr), Required: required})
		default:
			x.warn.Operation(label, pr.path, "parameter %q in %q is not supported; dropped", name, in)
		}
	}

	o.PathParams = x.orderPathParams(o.PathParams, path, label, opPath)

	if form != nil && o.Body == nil {
		o.Body = &ir.Body{Schema: form, Required: len(form.Required) > 0, ContentType: x.formContentType(op, form)}
	}

	if raw, ok := op.Get("requestBody"); ok && o.Body == nil {
		body, bodyPath, err := x.graph.Deref(raw, opPath+"/requestBody")
		if err != nil {
			return o, err
		}
		if mt, ok := pickMediaType(body.Map("content")); ok {
			o.Body = &ir.Body{
				Schema:      x.schemaAt(bodyPath + "/content/" + jsonpointer.Escape(mt) + "/schema"),
				Required:    body.Bool("required"),
				ContentType: mt,
			}
		}
	}

	if err := x.selectResponse(&o, op, opPath, label); err != nil {
		return o, err
	}
	return o, nil
}

// mergeParams combines path item and operation parameters. An operation parameter
// replaces a path item parameter with the same name and location.
func (x *extractor) mergeParams(itemParams []any, itemPath string, opParams []any, opPath string) ([]paramRef, error) {
	var out []paramRef
	index := map[string]int{}
	add := func(list []any, base string, override bool) error {
		for i, raw := range list {
			m, p, err := x.graph.Deref(raw, base+"/"+strconv.Itoa(i))
			if err != nil {
				return err
			}
			key := m.String("in") + ":" + m.String("name")
			if at, seen := index[key]; seen && override {
				out[at] = paramRef{m: m, path: p}
				continue
			}
			index[key] = len(out)
			out = append(out, paramRef{m: m, path: p})
		}
		return nil
	}
	if err := add(itemParams, itemPath, false); err != nil {
		return nil, err
	}
	if err := add(opParams, opPath, true); err != nil {
		return nil, err
	}
	return out, nil
}

// orderPathParams puts path parameters in template order, synthesizing any
// placeholder without a declaration and dropping declarations without a placeholder.
func (x *extractor) orderPathParams(declared []ir.Param, path, label, opPath string) []ir.Param {
	byName := map[string]ir.Param{}
	for _, p := range declared {
		byName[p.Name] = p
	}
	taken := map[string]bool{}
	var out []ir.Param
	for _, match := range placeholderRe.FindAllStringSubmatch(path, -1) {
		name := match[1]
		if taken[name] {
			continue
		}
		p, ok := byName[name]
		if !ok {
			x.warn.Operation(label, opPath, "path parameter %q is not declared; assuming a required string", name)
			p = ir.Param{Name: name, Identifier: utils.ValueName(name), Required: true, Schema: &ir.SchemaNode{Kind: ir.KindString}}
		}
		taken[name] = true
		out = append(out, p)
	}
	for _, p := range declared {
		if !taken[p.Name] {
			x.warn.Operation(label, opPath, "path parameter %q does not appear in the path; dropped", p.Name)
		}
	}

	idents := map[string]bool{}
	for i := range out {
		id := out[i].Identifier
		for bindingNames[id] || idents[id] {
			id += "_"
		}
		idents[id] = true
		out[i].Identifier = id
	}
	return out
}

func (x *extractor) selectResponse(o *ir.Operation, op *doctree.Map, opPath, label string) error {
	responses := op.Map("responses")
	code, ok := pickSuccessStatus(responses.Keys())
	if !ok {
		x.warn.Operation(label, opPath+"/responses", "no 2xx response; return type is unknown")
		return nil
	}
	raw, _ := responses.Get(code)
	resp, respPath, err := x.graph.Deref(raw, opPath+"/responses/"+jsonpointer.Escape(code))
	if err != nil {
		return err
	}
	o.ResponseStatus = code

	schemaPath := ""
	if resp.Has("schema") {
		schemaPath = respPath + "/schema"
	} else if mt, ok := pickMediaType(resp.Map("content")); ok && resp.Map("content").Map(mt).Has("schema") {
		schemaPath = respPath + "/content/" + jsonpointer.Escape(mt) + "/schema"
	}
	if schemaPath == "" {
		if code != "204" && code != "205" {
			x.warn.Operation(label, respPath, "response %s has no schema; return type is unknown", code)
		}
		return nil
	}
	o.Response = x.schemaAt(schemaPath)
	return nil
}

func (x *extractor) paramSchema(pr paramRef) *ir.SchemaNode {
	if pr.m.Has("schema") {
		return x.schemaAt(pr.path + "/schema")
	}
	if n, ok := x.graph.SchemaAt(pr.path); ok {
		return n
	}
	return &ir.SchemaNode{Kind: ir.KindUnknown, Path: pr.path}
}

func (x *extractor) schemaAt(path string) *ir.SchemaNode {
	if n, ok := x.graph.SchemaAt(path); ok {
		return n
	}
	return &ir.SchemaNode{Kind: ir.KindUnknown, Path: path}
}

// consumes picks the request media type of a Swagger 2.0 operation.
func (x *extractor) consumes(op *doctree.Map, fallback string) string {
	list := op.Slice("consumes")
	if list == nil {
		list = x.graph.Doc.Slice("consumes")
	}
	if x.graph.Version != openapi.VersionSwagger2 || len(list) == 0 {
		return fallback
	}
	types := make([]string, 0, len(list))
	for _, v := range list {
		if s, ok := v.(string); ok {
			types = append(types, s)
		}
	}
	if mt, ok := preferMediaType(types); ok {
		return mt
	}
	return fallback
}

func (x *extractor) formContentType(op *doctree.Map, form *ir.SchemaNode) string {
	list := op.Slice("consumes")
	if list == nil {
		list = x.graph.Doc.Slice("consumes")
	}
	for _, v := range list {
		if s, _ := v.(string); s == "multipart/form-data" || s == "application/x-www-form-urlencoded" {
			return s
		}
	}
	for _, p := range form.Properties {
		if p.Schema.Reason == "file type is not supported" {
			return "multipart/form-data"
		}
	}
	return "application/x-www-form-urlencoded"
}

func (x *extractor) uniqueName(name string) string {
	candidate := name
	for i := 2; x.used[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	x.used[candidate] = true
	return candidate
}

// operationName prefers the explicit operation id; otherwise it combines the method
// with the static path segments and a By<Param> part per placeholder.
func operationName(operationID, method, path string) string {
	if operationID != "" {
		if name := utils.ValueName(operationID); name != "_" {
			return name
		}
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for _, seg := range strings.Split(path, "/") {
		if seg == "" {
			continue
		}
		if m := placeholderRe.FindStringSubmatch(seg); m != nil && m[0] == seg {
			b.WriteString("By")
			b.WriteString(utils.ToPascalCase(m[1]))
			continue
		}
		b.WriteString(utils.ToPascalCase(placeholderRe.ReplaceAllString(seg, " $1 ")))
	}
	return utils.ValueName(b.String())
}

func operationTags(op *doctree.Map) []string {
	var tags []string
	for _, v := range op.Slice("tags") {
		if s, ok := v.(string); ok {
			tags = append(tags, s)
		}
	}
	if len(tags) == 0 {
		tags = []string{"misc"}
	}
	return tags
}

// pickSuccessStatus returns the first 2xx status in ascending order, explicit codes
// before the 2XX range. "default" is never selected.
func pickSuccessStatus(codes []string) (string, bool) {
	var explicit []string
	wildcard := ""
	for _, c := range codes {
		switch {
		case len(c) == 3 && c[0] == '2' && isDigits(c):
			explicit = append(explicit, c)
		case strings.EqualFold(c, "2XX"):
			wildcard = c
		}
	}
	if len(explicit) > 0 {
		sort.Strings(explicit)
		return explicit[0], true
	}
	return wildcard, wildcard != ""
}

// pickMediaType chooses application/json, then any +json type, then the first declared.
func pickMediaType(content *doctree.Map) (string, bool) {
	return preferMediaType(content.Keys())
}

func preferMediaType(types []string) (string, bool) {
	if len(types) == 0 {
		return "", false
	}
	for _, mt := range types {
		if base, _, _ := strings.Cut(mt, ";"); strings.TrimSpace(base) == "application/json" {
			return mt, true
		}
	}
	for _, mt := range types {
		if base, _, _ := strings.Cut(mt, ";"); strings.HasSuffix(strings.TrimSpace(base), "+json") {
			return mt, true
		}
	}
	return types[0], true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// compileTagFilters compiles regex patterns for tag filtering
func compileTagFilters(include, exclude []string) ([]*regexp.Regexp, []*regexp.Regexp, error) {
	inc := make([]*regexp.Regexp, 0, len(include))
	for _, p := range include {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, &generrors.ConfigError{Option: "includeTags", Message: fmt.Sprintf("invalid pattern %q", p), Cause: err}
		}
		inc = append(inc, r)
	}
	exc := make([]*regexp.Regexp, 0, len(exclude))
	for _, p := range exclude {
		r, err := regexp.Compile(p)
		if err != nil {
			return nil, nil, &generrors.ConfigError{Option: "excludeTags", Message: fmt.Sprintf("invalid pattern %q", p), Cause: err}
		}
		exc = append(exc, r)
	}
	return inc, exc, nil
}

// shouldIncludeOperation determines if an operation should be included based on its tags
func shouldIncludeOperation(tags []string, include, exclude []*regexp.Regexp) bool {
	// If no include patterns, assume all tags are initially included
	included := len(include) == 0

	// Operation is included if ANY of its tags match ANY include pattern
	for _, tag := range tags {
		for _, r := range include {
			if r.MatchString(tag) {
				included = true
				break
			}
		}
		if included {
			break
		}
	}
	if !included {
		return false
	}

	// Operation is excluded if ANY of its tags match ANY exclude pattern
	for _, tag := range tags {
		for _, r := range exclude {
			if r.MatchString(tag) {
				return false
			}
		}
	}
	return true
}
