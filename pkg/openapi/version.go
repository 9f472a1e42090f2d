package openapi

import (
	"fmt"
	"strings"

	"github.com/blimu-dev/swagger-gen/pkg/doctree"
	"github.com/blimu-dev/swagger-gen/pkg/generrors"
)

// Version identifies the flavour of an API description.
type Version int

const (
	VersionUnknown Version = iota
	// VersionSwagger2 is Swagger 2.0
	VersionSwagger2
	// VersionOpenAPI3 is OpenAPI 3.0.x or 3.1.x
	VersionOpenAPI3
)

func (v Version) String() string {
	switch v {
	case VersionSwagger2:
		return "swagger 2.0"
	case VersionOpenAPI3:
		return "openapi 3.x"
	}
	return "unknown"
}

// SchemaPrefix returns the ref prefix of the schema container.
func (v Version) SchemaPrefix() string {
	if v == VersionSwagger2 {
		return "#/definitions/"
	}
	return "#/components/schemas/"
}

// DetectVersion inspects the version marker of doc.
func DetectVersion(doc *doctree.Map) (Version, error) {
	if raw, ok := doc.Get("swagger"); ok {
		if s := fmt.Sprint(raw); s == "2.0" || s == "2" {
			return VersionSwagger2, nil
		}
		return VersionUnknown, &generrors.DocumentError{Message: fmt.Sprintf("unsupported swagger version %v", raw)}
	}
	if raw, ok := doc.Get("openapi"); ok {
		s, _ := raw.(string)
		if strings.HasPrefix(s, "3.") {
			return VersionOpenAPI3, nil
		}
		return VersionUnknown, &generrors.DocumentError{Message: fmt.Sprintf("unsupported openapi version %v", raw)}
	}
	return VersionUnknown, &generrors.DocumentError{Message: "missing swagger/openapi version field"}
}

// SchemaContainer returns the mapping that declares named schemas.
func SchemaContainer(doc *doctree.Map, v Version) *doctree.Map {
	if v == VersionSwagger2 {
		return doc.Map("definitions")
	}
	return doc.Map("components").Map("schemas")
}

// BaseURL derives the service base URL from servers (3.x) or schemes/host/basePath (2.0).
func BaseURL(doc *doctree.Map, v Version) string {
	if v == VersionOpenAPI3 {
		for _, s := range doc.Slice("servers") {
			if m, ok := s.(*doctree.Map); ok && m.String("url") != "" {
				return expandServerVariables(m)
			}
		}
		return ""
	}
	host := doc.String("host")
	if host == "" {
		return doc.String("basePath")
	}
	scheme := "https"
	if schemes := doc.Slice("schemes"); len(schemes) > 0 {
		if s, ok := schemes[0].(string); ok && s != "" {
			scheme = s
		}
	}
	return scheme + "://" + host + doc.String("basePath")
}

func expandServerVariables(server *doctree.Map) string {
	u := server.String("url")
	vars := server.Map("variables")
	for _, name := range vars.Keys() {
		def := vars.Map(name)
		if def == nil {
			continue
		}
		if raw, ok := def.Get("default"); ok {
			u = strings.ReplaceAll(u, "{"+name+"}", fmt.Sprint(raw))
		}
	}
	return u
}

// Info holds the descriptive fields rendered into generated file headers.
type Info struct {
	Title       string
	Version     string
	Description string
}

// DocumentInfo reads the info section of doc.
func DocumentInfo(doc *doctree.Map) Info {
	info := doc.Map("info")
	out := Info{Title: info.String("title"), Description: info.String("description")}
	if raw, ok := info.Get("version"); ok && raw != nil {
		out.Version = fmt.Sprint(raw)
	}
	return out
}
