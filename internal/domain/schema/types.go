package schema

// ParamLocation identifies where a parameter is carried in an HTTP request.
type ParamLocation string

const (
	// LocationPath parameters are substituted into the URL path template.
	LocationPath ParamLocation = "path"
	// LocationQuery parameters are appended to the URL query string.
	LocationQuery ParamLocation = "query"
	// LocationHeader parameters are sent as HTTP request headers.
	LocationHeader ParamLocation = "header"
)

// methods is the fixed set of HTTP methods considered when walking a path item.
var methods = []string{"get", "post", "put", "patch", "delete"}

// ParamSpec describes a single declared parameter or body property.
// Type is informational: it documents the declared OpenAPI type for tool
// schemas, it is never enforced against call-time values.
type ParamSpec struct {
	Name        string
	Required    bool
	Type        string
	Description string
}

// RequestBody describes the application/json request body of an operation,
// flattened to one ParamSpec per declared top-level property.
type RequestBody struct {
	Required   bool
	Properties []ParamSpec
}

// Operation is a normalized view of one path+method entry in the schema.
// Operations are value types: created by a parse pass and never mutated.
type Operation struct {
	ID           string
	Path         string
	Method       string
	Summary      string
	Description  string
	Tags         []string
	PathParams   []ParamSpec
	QueryParams  []ParamSpec
	HeaderParams []ParamSpec
	RequestBody  *RequestBody
}

// HasBody reports whether the operation's method carries a request body.
func (o Operation) HasBody() bool {
	switch o.Method {
	case "post", "put", "patch":
		return true
	default:
		return false
	}
}

// ParamTypeOf maps an OpenAPI schema fragment to its declared type class.
// An absent or untyped schema defaults to "string".
func ParamTypeOf(fragment map[string]any) string {
	t, _ := fragment["type"].(string)
	switch t {
	case "string", "integer", "number", "boolean", "array", "object":
		return t
	default:
		return "string"
	}
}
