package services

import (
	"fmt"
	"net/url"
	"strings"
)

// PageDocument is the JSON shape of a list response:
// { "value": [...], "nextLink": "..." }.
type PageDocument struct {
	Value    []map[string]any `json:"value"`
	NextLink string           `json:"nextLink,omitempty"`
}

// assemblePage builds the page document. When the store returned a
// continuation token, nextLink is the current request URI with its
// continuationToken query parameter replaced, so the client resumes by
// following the link verbatim.
func assemblePage(items []map[string]any, token, requestURI string) (PageDocument, error) {
	doc := PageDocument{Value: items}
	if token == "" {
		return doc, nil
	}

	parsed, err := url.Parse(requestURI)
	if err != nil {
		return PageDocument{}, fmt.Errorf("services: request uri %q: %w", requestURI, err)
	}

	query := parsed.Query()
	query.Set("continuationToken", token)
	parsed.RawQuery = query.Encode()

	doc.NextLink = parsed.String()
	return doc, nil
}

// parseSelect splits the comma-separated select parameter into
// lowercased field names. Empty means no projection.
func parseSelect(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	fields := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			fields = append(fields, strings.ToLower(trimmed))
		}
	}
	return fields
}

// projectFields strips top-level keys not named in selected, matching
// case-insensitively. Projection runs after serialization and always
// keeps eTag. A nil selection returns the document untouched.
func projectFields(doc map[string]any, selected []string) map[string]any {
	if len(selected) == 0 {
		return doc
	}

	keep := make(map[string]struct{}, len(selected)+1)
	for _, field := range selected {
		keep[field] = struct{}{}
	}
	keep["etag"] = struct{}{}

	projected := make(map[string]any, len(keep))
	for key, value := range doc {
		if _, ok := keep[strings.ToLower(key)]; ok {
			projected[key] = value
		}
	}
	return projected
}
