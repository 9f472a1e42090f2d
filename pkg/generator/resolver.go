package generator

import (
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-openapi/jsonpointer"

	"github.com/blimu-dev/swagger-gen/pkg/doctree"
	"github.com/blimu-dev/swagger-gen/pkg/generrors"
	"github.com/blimu-dev/swagger-gen/pkg/ir"
	"github.com/blimu-dev/swagger-gen/pkg/openapi"
)

// maxRefHops bounds chains of non-schema references (parameters, responses, bodies).
const maxRefHops = 32

// httpMethods are the path item keys that declare operations.
var httpMethods = map[string]bool{
	"get": true, "put": true, "post": true, "delete": true,
	"options": true, "head": true, "patch": true, "trace": true,
}

// Graph is a fully resolved document: every schema reachable from the definitions or
// from an operation has a node, and the registry is sealed.
type Graph struct {
	Doc      *doctree.Map
	Version  openapi.Version
	Registry *ir.Registry

	// schemas holds operation-level schemas keyed by JSON pointer
	schemas map[string]*ir.SchemaNode
}

// ResolveOptions configures Resolve.
type ResolveOptions struct {
	Logger *slog.Logger
}

// SchemaAt returns the pre-resolved operation-level schema at the JSON pointer path.
func (g *Graph) SchemaAt(path string) (*ir.SchemaNode, bool) {
	n, ok := g.schemas[path]
	return n, ok
}

// Deref follows $ref chains of non-schema objects (parameters, request bodies,
// responses) and returns the target mapping with its JSON pointer.
func (g *Graph) Deref(raw any, path string) (*doctree.Map, string, error) {
	seen := map[string]bool{}
	for hop := 0; ; hop++ {
		m, ok := raw.(*doctree.Map)
		if !ok {
			return nil, path, &generrors.ReferenceError{Ref: "#" + path, IsMalformed: true, Message: "expected a mapping"}
		}
		ref, has := m.Get("$ref")
		if !has {
			return m, path, nil
		}
		s, ok := ref.(string)
		if !ok {
			return nil, path, &generrors.ReferenceError{Ref: "#" + path, IsMalformed: true, Message: "$ref must be a string"}
		}
		canonical, err := canonicalRef(s)
		if err != nil {
			return nil, path, err
		}
		if seen[canonical] || hop >= maxRefHops {
			return nil, path, &generrors.ReferenceError{Ref: canonical, IsCircular: true, Message: "reference chain does not terminate"}
		}
		seen[canonical] = true
		raw, err = lookupPointer(g.Doc, canonical)
		if err != nil {
			return nil, path, &generrors.ReferenceError{Ref: canonical, Message: "unresolved reference", Cause: err}
		}
		path = strings.TrimPrefix(canonical, "#")
	}
}

// Resolve builds the schema graph of doc. It registers every declared definition,
// fills them in document order, resolves the schemas used by operations, rejects
// references that can never be expanded, and seals the registry.
func Resolve(doc *doctree.Map, opts ResolveOptions) (*Graph, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	version, err := openapi.DetectVersion(doc)
	if err != nil {
		return nil, err
	}
	if raw, ok := doc.Get("paths"); !ok || !isMapping(raw) {
		return nil, &generrors.DocumentError{Message: "paths must be a mapping"}
	}
	container := openapi.SchemaContainer(doc, version)
	if err := checkContainer(doc, version); err != nil {
		return nil, err
	}

	r := &resolver{
		graph: &Graph{
			Doc:      doc,
			Version:  version,
			Registry: ir.NewRegistry(),
			schemas:  map[string]*ir.SchemaNode{},
		},
		filled: map[string]bool{},
	}

	prefix := version.SchemaPrefix()
	for _, name := range container.Keys() {
		ref := prefix + jsonpointer.Escape(name)
		node := &ir.SchemaNode{Kind: ir.KindUnknown, Name: name, Ref: ref, Path: strings.TrimPrefix(ref, "#")}
		if err := r.graph.Registry.Register(ref, node); err != nil {
			return nil, fmt.Errorf("register %s: %w", ref, err)
		}
	}
	logger.Debug("registered definitions", "count", r.graph.Registry.Len(), "version", version.String())

	for _, ref := range r.graph.Registry.Refs() {
		if err := r.fill(ref); err != nil {
			return nil, err
		}
	}

	if err := r.resolveOperations(); err != nil {
		return nil, err
	}

	if err := checkCycles(r.graph.Registry); err != nil {
		return nil, err
	}

	r.graph.Registry.Seal()
	logger.Debug("resolved schemas", "registered", r.graph.Registry.Len(), "operationSchemas", len(r.graph.schemas))
	return r.graph, nil
}

func checkContainer(doc *doctree.Map, version openapi.Version) error {
	var raw any
	var ok bool
	if version == openapi.VersionSwagger2 {
		raw, ok = doc.Get("definitions")
	} else {
		raw, ok = doc.Map("components").Get("schemas")
	}
	if ok && raw != nil && !isMapping(raw) {
		return &generrors.DocumentError{Message: "schema definitions must be a mapping"}
	}
	return nil
}

type resolver struct {
	graph  *Graph
	filled map[string]bool
}

// fill parses the document value behind a registered ref into its placeholder.
func (r *resolver) fill(ref string) error {
	if r.filled[ref] {
		return nil
	}
	r.filled[ref] = true
	node, _ := r.graph.Registry.Lookup(ref)
	raw, err := lookupPointer(r.graph.Doc, ref)
	if err != nil {
		return &generrors.ReferenceError{Ref: ref, Message: "unresolved reference", Cause: err}
	}
	return r.parseInto(node, raw, strings.TrimPrefix(ref, "#"))
}

// target returns the registered node for a $ref, registering and filling it on first sight.
func (r *resolver) target(ref string) (*ir.SchemaNode, error) {
	canonical, err := canonicalRef(ref)
	if err != nil {
		return nil, err
	}
	if node, ok := r.graph.Registry.Lookup(canonical); ok {
		return node, nil
	}
	if _, err := lookupPointer(r.graph.Doc, canonical); err != nil {
		return nil, &generrors.ReferenceError{Ref: canonical, Message: "unresolved reference", Cause: err}
	}
	node := &ir.SchemaNode{Kind: ir.KindUnknown, Name: lastSegment(canonical), Ref: canonical, Path: strings.TrimPrefix(canonical, "#")}
	if err := r.graph.Registry.Register(canonical, node); err != nil {
		return nil, fmt.Errorf("register %s: %w", canonical, err)
	}
	return node, r.fill(canonical)
}

func (r *resolver) parse(raw any, path string) (*ir.SchemaNode, error) {
	n := &ir.SchemaNode{Kind: ir.KindUnknown}
	if err := r.parseInto(n, raw, path); err != nil {
		return nil, err
	}
	return n, nil
}

func (r *resolver) parseInto(n *ir.SchemaNode, raw any, path string) error {
	n.Path = path
	switch v := raw.(type) {
	case bool:
		n.Kind = ir.KindUnknown
		if !v {
			n.Reason = "schema false never matches"
		}
		return nil
	case *doctree.Map:
		return r.parseMap(n, v, path)
	default:
		return malformed(path, "schema must be a mapping or a boolean, got %s", describe(raw))
	}
}

func (r *resolver) parseMap(n *ir.SchemaNode, m *doctree.Map, path string) error {
	n.Description = m.String("description")
	n.Deprecated = m.Bool("deprecated")
	n.Format = m.String("format")
	n.Nullable = m.Bool("nullable") || m.Bool("x-nullable")

	if raw, ok := m.Get("$ref"); ok {
		s, isString := raw.(string)
		if !isString {
			return malformed(path, "$ref must be a string, got %s", describe(raw))
		}
		target, err := r.target(s)
		if err != nil {
			return err
		}
		n.Kind = ir.KindRef
		n.Target = target
		if n.Name == "" {
			n.Ref = target.Ref
		}
		return nil
	}

	if m.Has("not") {
		n.Kind = ir.KindUnknown
		n.Reason = "not is not supported"
		return nil
	}

	for _, kw := range []string{"allOf", "oneOf", "anyOf"} {
		raw, ok := m.Get(kw)
		if !ok {
			continue
		}
		return r.parseComposite(n, m, kw, raw, path)
	}

	if raw, ok := m.Get("enum"); ok {
		return r.parseEnum(n, m, raw, path)
	}

	raw, hasType := m.Get("type")
	switch t := raw.(type) {
	case string:
		return r.parseTyped(n, m, t, path)
	case []any:
		return r.parseTypeList(n, m, t, path)
	case nil:
		if hasType {
			return malformed(path, "type must be a string or a list")
		}
	default:
		return malformed(path, "type must be a string or a list, got %s", describe(raw))
	}

	switch {
	case m.Has("properties") || m.Has("additionalProperties") || len(m.Slice("required")) > 0:
		return r.parseObject(n, m, path)
	case m.Has("items"):
		return r.parseTyped(n, m, "array", path)
	}
	n.Kind = ir.KindUnknown
	return nil
}

func (r *resolver) parseComposite(n *ir.SchemaNode, m *doctree.Map, kw string, raw any, path string) error {
	list, ok := raw.([]any)
	if !ok {
		return malformed(path+"/"+kw, "%s must be a list, got %s", kw, describe(raw))
	}
	n.Kind = ir.SchemaKind(kw)
	n.Members = make([]*ir.SchemaNode, 0, len(list)+1)
	for i, item := range list {
		member, err := r.parse(item, path+"/"+kw+"/"+strconv.Itoa(i))
		if err != nil {
			return err
		}
		n.Members = append(n.Members, member)
	}
	if kw == "allOf" && (m.Has("properties") || m.Has("additionalProperties")) {
		siblings := &ir.SchemaNode{}
		if err := r.parseObject(siblings, m, path); err != nil {
			return err
		}
		n.Members = append(n.Members, siblings)
	}
	return nil
}

func (r *resolver) parseEnum(n *ir.SchemaNode, m *doctree.Map, raw any, path string) error {
	list, ok := raw.([]any)
	if !ok {
		return malformed(path+"/enum", "enum must be a list, got %s", describe(raw))
	}
	n.Kind = ir.KindEnum
	n.Enum = make([]any, 0, len(list))
	allNumbers := len(list) > 0
	for _, v := range list {
		switch v.(type) {
		case nil:
			n.Nullable = true
			continue
		case int, float64:
		default:
			allNumbers = false
		}
		n.Enum = append(n.Enum, v)
	}

	n.EnumBase = ir.KindString
	switch t, _ := m.Get("type"); t {
	case "integer":
		n.EnumBase = ir.KindInteger
	case "number":
		n.EnumBase = ir.KindNumber
	case "boolean":
		n.EnumBase = ir.KindBoolean
	case nil:
		if allNumbers {
			n.EnumBase = ir.KindNumber
		}
	}
	if len(n.Enum) == 0 {
		n.Kind = ir.KindNull
		if !n.Nullable {
			n.Kind = ir.KindUnknown
			n.Reason = "enum has no values"
		}
	}
	return nil
}

func (r *resolver) parseTypeList(n *ir.SchemaNode, m *doctree.Map, list []any, path string) error {
	types := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return malformed(path+"/type", "type list entries must be strings, got %s", describe(item))
		}
		if s == "null" {
			n.Nullable = true
			continue
		}
		types = append(types, s)
	}
	switch len(types) {
	case 0:
		n.Kind = ir.KindNull
		return nil
	case 1:
		return r.parseTyped(n, m, types[0], path)
	}
	n.Kind = ir.KindAnyOf
	for _, t := range types {
		member := &ir.SchemaNode{Path: path}
		if err := r.parseTyped(member, m, t, path); err != nil {
			return err
		}
		n.Members = append(n.Members, member)
	}
	return nil
}

func (r *resolver) parseTyped(n *ir.SchemaNode, m *doctree.Map, typ, path string) error {
	switch typ {
	case "string", "number", "integer", "boolean", "null":
		n.Kind = ir.SchemaKind(typ)
	case "array":
		n.Kind = ir.KindArray
		raw, ok := m.Get("items")
		if !ok {
			n.Items = &ir.SchemaNode{Kind: ir.KindUnknown, Path: path + "/items"}
			return nil
		}
		if tuple, isList := raw.([]any); isList {
			items := &ir.SchemaNode{Kind: ir.KindAnyOf, Path: path + "/items"}
			for i, item := range tuple {
				member, err := r.parse(item, path+"/items/"+strconv.Itoa(i))
				if err != nil {
					return err
				}
				items.Members = append(items.Members, member)
			}
			n.Items = items
			return nil
		}
		items, err := r.parse(raw, path+"/items")
		if err != nil {
			return err
		}
		n.Items = items
	case "object":
		return r.parseObject(n, m, path)
	case "file":
		n.Kind = ir.KindUnknown
		n.Reason = "file type is not supported"
	default:
		n.Kind = ir.KindUnknown
		n.Reason = fmt.Sprintf("unsupported type %q", typ)
	}
	return nil
}

func (r *resolver) parseObject(n *ir.SchemaNode, m *doctree.Map, path string) error {
	n.Kind = ir.KindObject
	if n.Path == "" {
		n.Path = path
	}

	switch req := mustGet(m, "required").(type) {
	case nil, bool:
		// a boolean here is the parameter-style flag some generators leave on property schemas
	case []any:
		for _, v := range req {
			if s, ok := v.(string); ok {
				n.Required = append(n.Required, s)
			}
		}
	default:
		return malformed(path+"/required", "required must be a list, got %s", describe(req))
	}

	switch props := mustGet(m, "properties").(type) {
	case nil:
	case *doctree.Map:
		for _, name := range props.Keys() {
			raw, _ := props.Get(name)
			child, err := r.parse(raw, path+"/properties/"+jsonpointer.Escape(name))
			if err != nil {
				return err
			}
			n.Properties = append(n.Properties, ir.Property{Name: name, Schema: child, Required: n.IsRequired(name)})
		}
	default:
		return malformed(path+"/properties", "properties must be a mapping, got %s", describe(props))
	}

	switch ap := mustGet(m, "additionalProperties").(type) {
	case nil:
	case bool:
		if ap {
			n.AdditionalProperties = &ir.SchemaNode{Kind: ir.KindUnknown, Path: path + "/additionalProperties"}
		}
	case *doctree.Map:
		child, err := r.parse(ap, path+"/additionalProperties")
		if err != nil {
			return err
		}
		n.AdditionalProperties = child
	default:
		return malformed(path+"/additionalProperties", "additionalProperties must be a mapping or a boolean, got %s", describe(ap))
	}
	return nil
}

// resolveOperations parses every schema an operation can use, so references from
// parameters, bodies and responses are registered before the registry is sealed.
func (r *resolver) resolveOperations() error {
	paths := r.graph.Doc.Map("paths")
	for _, p := range paths.Keys() {
		raw, _ := paths.Get(p)
		if raw == nil {
			continue
		}
		itemPath := "/paths/" + jsonpointer.Escape(p)
		item, itemPath, err := r.graph.Deref(raw, itemPath)
		if err != nil {
			return err
		}
		if err := r.resolveParameters(item.Slice("parameters"), itemPath+"/parameters"); err != nil {
			return err
		}
		for _, method := range item.Keys() {
			if !httpMethods[method] {
				continue
			}
			op := item.Map(method)
			if op == nil {
				continue
			}
			opPath := itemPath + "/" + method
			if err := r.resolveParameters(op.Slice("parameters"), opPath+"/parameters"); err != nil {
				return err
			}
			if raw, ok := op.Get("requestBody"); ok {
				body, bodyPath, err := r.graph.Deref(raw, opPath+"/requestBody")
				if err != nil {
					return err
				}
				if err := r.resolveContent(body, bodyPath); err != nil {
					return err
				}
			}
			responses := op.Map("responses")
			for _, code := range responses.Keys() {
				raw, _ := responses.Get(code)
				resp, respPath, err := r.graph.Deref(raw, opPath+"/responses/"+jsonpointer.Escape(code))
				if err != nil {
					return err
				}
				if schema, ok := resp.Get("schema"); ok {
					if err := r.operationSchema(schema, respPath+"/schema"); err != nil {
						return err
					}
				}
				if err := r.resolveContent(resp, respPath); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (r *resolver) resolveParameters(params []any, path string) error {
	for i, raw := range params {
		param, paramPath, err := r.graph.Deref(raw, path+"/"+strconv.Itoa(i))
		if err != nil {
			return err
		}
		if schema, ok := param.Get("schema"); ok {
			if err := r.operationSchema(schema, paramPath+"/schema"); err != nil {
				return err
			}
			continue
		}
		// Swagger 2.0 non-body parameters describe their type inline.
		if param.Has("type") {
			if err := r.operationSchema(param, paramPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *resolver) resolveContent(m *doctree.Map, path string) error {
	content := m.Map("content")
	for _, mt := range content.Keys() {
		media := content.Map(mt)
		if media == nil {
			continue
		}
		if schema, ok := media.Get("schema"); ok {
			if err := r.operationSchema(schema, path+"/content/"+jsonpointer.Escape(mt)+"/schema"); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *resolver) operationSchema(raw any, path string) error {
	if _, done := r.graph.schemas[path]; done {
		return nil
	}
	n, err := r.parse(raw, path)
	if err != nil {
		return err
	}
	r.graph.schemas[path] = n
	return nil
}

// checkCycles rejects reference cycles made only of alias and composite edges.
// Such a cycle would need an infinite expansion; cycles through properties,
// additionalProperties or items stay nominal and are fine.
func checkCycles(reg *ir.Registry) error {
	const (
		white = iota
		grey
		black
	)
	color := map[string]int{}
	var stack []string

	var visit func(ref string) error
	visit = func(ref string) error {
		color[ref] = grey
		stack = append(stack, ref)
		node, _ := reg.Lookup(ref)
		for _, next := range directTargets(node) {
			switch color[next] {
			case grey:
				cycle := append([]string{}, stack[indexOf(stack, next):]...)
				cycle = append(cycle, next)
				return &generrors.ReferenceError{
					Ref:        next,
					IsCircular: true,
					Message:    "circular reference cannot be expanded: " + strings.Join(cycle, " -> "),
				}
			case white:
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[ref] = black
		return nil
	}

	for _, ref := range reg.Refs() {
		if color[ref] == white {
			if err := visit(ref); err != nil {
				return err
			}
		}
	}
	return nil
}

// directTargets lists the registered refs n expands into without passing through
// a property, map value or array item.
func directTargets(n *ir.SchemaNode) []string {
	var out []string
	var walk func(*ir.SchemaNode)
	walk = func(cur *ir.SchemaNode) {
		switch {
		case cur == nil:
		case cur.Kind == ir.KindRef && cur.Target != nil:
			out = append(out, cur.Target.Ref)
		case cur.Kind.IsComposite():
			for _, m := range cur.Members {
				walk(m)
			}
		}
	}
	walk(n)
	return out
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return 0
}

// canonicalRef validates a local reference and returns it in "#/a/b" form with
// any percent-encoding removed.
func canonicalRef(ref string) (string, error) {
	if !strings.HasPrefix(ref, "#") {
		return "", &generrors.ReferenceError{Ref: ref, Message: "only local references are supported"}
	}
	frag := ref[1:]
	if strings.Contains(frag, "%") {
		unescaped, err := url.PathUnescape(frag)
		if err != nil {
			return "", &generrors.ReferenceError{Ref: ref, IsMalformed: true, Message: "invalid percent-encoding", Cause: err}
		}
		frag = unescaped
	}
	if frag != "" && !strings.HasPrefix(frag, "/") {
		return "", &generrors.ReferenceError{Ref: ref, IsMalformed: true, Message: "fragment must be a JSON pointer"}
	}
	return "#" + frag, nil
}

func lookupPointer(doc *doctree.Map, ref string) (any, error) {
	ptr, err := jsonpointer.New(strings.TrimPrefix(ref, "#"))
	if err != nil {
		return nil, err
	}
	v, _, err := ptr.Get(doc)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func lastSegment(ref string) string {
	i := strings.LastIndex(ref, "/")
	return jsonpointer.Unescape(ref[i+1:])
}

func malformed(path, format string, args ...any) error {
	return &generrors.ReferenceError{Ref: "#" + path, IsMalformed: true, Message: fmt.Sprintf(format, args...)}
}

func mustGet(m *doctree.Map, key string) any {
	v, _ := m.Get(key)
	return v
}

func isMapping(v any) bool {
	_, ok := v.(*doctree.Map)
	return ok
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case int, float64:
		return "a number"
	case []any:
		return "a list"
	case *doctree.Map:
		return "a mapping"
	}
	return fmt.Sprintf("%T", v)
}
