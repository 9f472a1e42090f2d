package openapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/blimu-dev/swagger-gen/pkg/doctree"
	"github.com/blimu-dev/swagger-gen/pkg/generrors"
)

// maxDocumentSize caps remote documents.
const maxDocumentSize = 64 << 20

// Load loads an API description from a local file path or an HTTP(S) URL
func Load(ctx context.Context, input string) (*doctree.Map, error) {
	return LoadWithClient(ctx, http.DefaultClient, input)
}

// LoadWithClient loads an API description using a custom HTTP client for URLs
func LoadWithClient(ctx context.Context, client *http.Client, input string) (*doctree.Map, error) {
	var (
		data []byte
		err  error
	)
	if IsURL(input) {
		data, err = fetch(ctx, client, input)
	} else {
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return nil, &generrors.DocumentError{Source: input, Message: "cannot read document", Cause: err}
	}
	return ParseDocument(input, data)
}

// ParseDocument parses JSON or YAML bytes into an ordered tree.
func ParseDocument(source string, data []byte) (*doctree.Map, error) {
	doc, err := doctree.Decode(data)
	if err != nil {
		return nil, &generrors.DocumentError{Source: source, Message: "cannot parse document", Cause: err}
	}
	return doc, nil
}

// IsURL reports whether input looks like an http(s) URL.
func IsURL(input string) bool {
	u, err := url.Parse(input)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

func fetch(ctx context.Context, client *http.Client, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
}
