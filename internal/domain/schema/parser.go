package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"
)

// fetchTimeout bounds the schema download. The Care schema is ~2MB of
// JSON; 30s is generous even on slow links.
const fetchTimeout = 30 * time.Second

// Parser fetches an OpenAPI document and exposes its operations in
// normalized form. A Parser is not safe for concurrent use during
// Fetch; after a successful Fetch the document is immutable and all
// read methods are safe to call concurrently.
type Parser struct {
	schemaURL  string
	httpClient *http.Client
	logger     *slog.Logger

	doc        Document
	paths      map[string]any
	components map[string]any
	digest     uint64
}

// NewParser creates a Parser for the schema at the given URL.
func NewParser(schemaURL string, logger *slog.Logger) *Parser {
	return &Parser{
		schemaURL:  schemaURL,
		httpClient: &http.Client{Timeout: fetchTimeout},
		logger:     logger,
	}
}

// NewParserFromDocument creates a Parser over an already-decoded
// document, bypassing the network. Used by the operations CLI command
// when reading a schema from disk, and by tests.
func NewParserFromDocument(doc Document, logger *slog.Logger) *Parser {
	p := &Parser{logger: logger}
	p.setDocument(doc)
	return p
}

// Fetch downloads and decodes the schema document, then indexes its
// paths and components sections. A non-2xx response or a decode failure
// is returned as an error; the caller decides whether startup halts.
// No partial document is retained on failure.
func (p *Parser) Fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.schemaURL, nil)
	if err != nil {
		return fmt.Errorf("build schema request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch schema from %s: %w", p.schemaURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fetch schema from %s: HTTP %d", p.schemaURL, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read schema body: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode schema document: %w", err)
	}

	p.setDocument(doc)
	p.digest = xxhash.Sum64(raw)

	info, _ := doc["info"].(map[string]any)
	p.logger.Info("schema loaded",
		"title", info["title"],
		"version", info["version"],
		"paths", len(p.paths),
		"digest", fmt.Sprintf("%016x", p.digest))

	return nil
}

func (p *Parser) setDocument(doc Document) {
	p.doc = doc
	p.paths, _ = doc["paths"].(map[string]any)
	p.components, _ = doc["components"].(map[string]any)
}

// Loaded reports whether a document has been fetched.
func (p *Parser) Loaded() bool { return p.doc != nil }

// Document returns the loaded document, or nil before a successful Fetch.
func (p *Parser) Document() Document { return p.doc }

// Digest returns the xxhash digest of the raw fetched document. Logged
// at startup so schema drift between restarts is visible in the logs.
// Zero when the document was supplied pre-decoded.
func (p *Parser) Digest() uint64 { return p.digest }

// Operations walks every path entry and every HTTP method under it,
// returning one Operation per addressable entry. Entries without an
// operationId are skipped: they cannot be named as tools. Paths are
// visited in sorted order so enumeration is deterministic.
func (p *Parser) Operations() []Operation {
	if p.paths == nil {
		return nil
	}

	pathKeys := make([]string, 0, len(p.paths))
	for path := range p.paths {
		pathKeys = append(pathKeys, path)
	}
	sort.Strings(pathKeys)

	var ops []Operation
	for _, path := range pathKeys {
		item, ok := p.paths[path].(map[string]any)
		if !ok {
			continue
		}
		for _, method := range methods {
			entry, ok := item[method].(map[string]any)
			if !ok {
				continue
			}
			id, _ := entry["operationId"].(string)
			if id == "" {
				continue
			}
			ops = append(ops, p.buildOperation(id, path, method, item, entry))
		}
	}
	return ops
}

// OperationByID returns the operation with the given id, if present.
func (p *Parser) OperationByID(id string) (Operation, bool) {
	for _, op := range p.Operations() {
		if op.ID == id {
			return op, true
		}
	}
	return Operation{}, false
}

func (p *Parser) buildOperation(id, path, method string, item, entry map[string]any) Operation {
	op := Operation{
		ID:     id,
		Path:   path,
		Method: method,
	}
	op.Summary, _ = entry["summary"].(string)
	op.Description, _ = entry["description"].(string)
	if tags, ok := entry["tags"].([]any); ok {
		for _, t := range tags {
			if s, ok := t.(string); ok {
				op.Tags = append(op.Tags, s)
			}
		}
	}

	// Path-level parameters apply to every method under the path;
	// operation-level parameters are appended after them. When both
	// declare the same name, consumers that build a map see the
	// operation-level entry last, so it wins.
	p.collectParams(&op, item["parameters"])
	p.collectParams(&op, entry["parameters"])

	op.RequestBody = p.extractRequestBody(entry)
	return op
}

// collectParams buckets each declared parameter by its "in" location.
// Parameters with an unrecognized location are dropped: they cannot be
// dispatched to a known request slot at call time.
func (p *Parser) collectParams(op *Operation, raw any) {
	list, ok := raw.([]any)
	if !ok {
		return
	}
	for _, item := range list {
		fragment, ok := item.(map[string]any)
		if !ok {
			continue
		}
		fragment = p.doc.Deref(fragment)

		name, _ := fragment["name"].(string)
		if name == "" {
			continue
		}
		required, _ := fragment["required"].(bool)
		description, _ := fragment["description"].(string)
		paramSchema, _ := fragment["schema"].(map[string]any)

		spec := ParamSpec{
			Name:        name,
			Required:    required,
			Type:        ParamTypeOf(p.doc.Deref(paramSchema)),
			Description: description,
		}

		switch loc, _ := fragment["in"].(string); ParamLocation(loc) {
		case LocationPath:
			op.PathParams = append(op.PathParams, spec)
		case LocationQuery:
			op.QueryParams = append(op.QueryParams, spec)
		case LocationHeader:
			op.HeaderParams = append(op.HeaderParams, spec)
		}
	}
}

// extractRequestBody reads the operation's application/json body, if
// declared. Other media types are ignored. The body schema and each
// property schema get one level of $ref resolution.
func (p *Parser) extractRequestBody(entry map[string]any) *RequestBody {
	rawBody, ok := entry["requestBody"].(map[string]any)
	if !ok {
		return nil
	}
	rawBody = p.doc.Deref(rawBody)

	content, ok := rawBody["content"].(map[string]any)
	if !ok {
		return nil
	}
	media, ok := content["application/json"].(map[string]any)
	if !ok {
		media, ok = content["application/json; charset=utf-8"].(map[string]any)
		if !ok {
			return nil
		}
	}

	bodySchema, _ := media["schema"].(map[string]any)
	bodySchema = p.doc.Deref(bodySchema)
	if t, _ := bodySchema["type"].(string); t != "object" {
		return nil
	}

	required, _ := rawBody["required"].(bool)
	body := &RequestBody{Required: required}

	requiredNames := map[string]bool{}
	if list, ok := bodySchema["required"].([]any); ok {
		for _, item := range list {
			if s, ok := item.(string); ok {
				requiredNames[s] = true
			}
		}
	}

	props, _ := bodySchema["properties"].(map[string]any)
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		propSchema, _ := props[name].(map[string]any)
		propSchema = p.doc.Deref(propSchema)
		description, _ := propSchema["description"].(string)
		body.Properties = append(body.Properties, ParamSpec{
			Name:        name,
			Required:    requiredNames[name],
			Type:        ParamTypeOf(propSchema),
			Description: description,
		})
	}
	return body
}
