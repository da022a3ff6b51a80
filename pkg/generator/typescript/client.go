package typescript

import (
	"fmt"
	"strings"

	"github.com/urmzd/oag/pkg/config"
	"github.com/urmzd/oag/pkg/ir"
)

// clientCore is the request plumbing shared by every emitted client class.
const clientCore = `export class ApiError extends Error {
  readonly status: number;
  readonly body: unknown;

  constructor(status: number, body: unknown) {
    super("Request failed with status " + status);
    this.name = "ApiError";
    this.status = status;
    this.body = body;
  }
}

export type RequestInterceptor = (request: Request) => Request | Promise<Request>;

export interface ClientOptions {
  baseUrl?: string;
  fetch?: typeof fetch;
  interceptor?: RequestInterceptor;
}

async function parseResponseBody(response: Response): Promise<unknown> {
  const text = await response.text();
  try {
    return JSON.parse(text);
  } catch {
    return text;
  }
}

export class BaseClient {
  protected readonly baseUrl: string;
  protected readonly fetchImpl: typeof fetch;
  protected readonly interceptor?: RequestInterceptor;

  constructor(options: ClientOptions = {}) {
    this.baseUrl = options.baseUrl ?? DEFAULT_BASE_URL;
    this.fetchImpl = options.fetch ?? fetch;
    this.interceptor = options.interceptor;
  }

  protected async request(
    method: string,
    path: string,
    query: Record<string, unknown>,
    headers: Record<string, unknown>,
    body?: unknown,
    contentType?: string,
  ): Promise<Response> {
    const url = new URL(this.baseUrl + path, this.baseUrl === "" ? "http://localhost" : undefined);
    for (const [key, value] of Object.entries(query)) {
      if (value !== undefined && value !== null) {
        url.searchParams.set(key, String(value));
      }
    }
    const requestHeaders = new Headers();
    for (const [key, value] of Object.entries(headers)) {
      if (value !== undefined && value !== null) {
        requestHeaders.set(key, String(value));
      }
    }
    const init: RequestInit = { method, headers: requestHeaders };
    if (body !== undefined) {
      requestHeaders.set("content-type", contentType ?? "application/json");
      init.body = contentType === "application/json" || contentType === undefined ? JSON.stringify(body) : (body as BodyInit);
    }
    let request = new Request(url, init);
    if (this.interceptor) {
      request = await this.interceptor(request);
    }
    const response = await this.fetchImpl(request);
    if (!response.ok) {
      throw new ApiError(response.status, await parseResponseBody(response));
    }
    return response;
  }
}
`

// clientUnit emits the shared core plus one client class exposing every
// operation.
func (g *Generator) clientUnit(spec *ir.Spec, cfg config.GeneratorConfig, bundled bool) string {
	var sb strings.Builder
	if !bundled {
		sb.WriteString(header)
		sb.WriteString("\n")
		writeTypeImports(&sb, spec, spec.Operations.All())
		if spec.Streaming() {
			sb.WriteString("import { parseEventStream } from \"./sse\";\n")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(coreUnit(spec, cfg))
	sb.WriteString("\n")
	sb.WriteString(clientClass("ApiClient", spec.Operations.All(), cfg))
	return sb.String()
}

// coreUnit renders the default base URL constant and the shared plumbing.
func coreUnit(spec *ir.Spec, cfg config.GeneratorConfig) string {
	baseURL := cfg.BaseURL
	if baseURL == "" && len(spec.Servers) > 0 {
		baseURL = spec.Servers[0].URL
	}
	return fmt.Sprintf("const DEFAULT_BASE_URL = %q;\n\n%s", baseURL, clientCore)
}

// clientClass renders one class with a method per operation.
func clientClass(name string, ops []*ir.Operation, cfg config.GeneratorConfig) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "export class %s extends BaseClient {\n", name)
	for i, op := range ops {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(methodDecl(op, cfg))
	}
	sb.WriteString("}\n")
	return sb.String()
}

// methodDecl renders a single operation method. Parameter order is path
// params, body, then query/header groups.
func methodDecl(op *ir.Operation, cfg config.GeneratorConfig) string {
	var sb strings.Builder
	if !cfg.NoJSDoc {
		sb.WriteString(methodDoc(op))
	}

	params := MethodParams(op)
	query := op.QueryParams()
	headers := op.HeaderParams()

	returnType := TypeExpr(op.Returns.Success)
	if op.Returns.Streaming {
		fmt.Fprintf(&sb, "  async *%s(%s): AsyncGenerator<%s> {\n", op.ID.Camel, strings.Join(params, ", "), returnType)
	} else {
		fmt.Fprintf(&sb, "  async %s(%s): Promise<%s> {\n", op.ID.Camel, strings.Join(params, ", "), returnType)
	}

	fmt.Fprintf(&sb, "    const path = %s;\n", pathTemplate(op))
	bodyArg := "undefined"
	contentType := "undefined"
	if op.Body != nil {
		bodyArg = "body"
		contentType = fmt.Sprintf("%q", op.Body.ContentType)
	}
	fmt.Fprintf(&sb, "    const response = await this.request(%q, path, %s, %s, %s, %s);\n",
		string(op.Method), groupLiteral("query", query), groupLiteral("headers", headers), bodyArg, contentType)

	switch {
	case op.Returns.Streaming:
		fmt.Fprintf(&sb, "    yield* parseEventStream<%s>(response);\n", returnType)
	case op.Returns.Success == nil:
		sb.WriteString("    void response;\n")
	default:
		fmt.Fprintf(&sb, "    return (await response.json()) as %s;\n", returnType)
	}
	sb.WriteString("  }\n")
	return sb.String()
}

// MethodParams returns the parameter declarations of an operation method, in
// emission order: path params, body, query group, header group.
func MethodParams(op *ir.Operation) []string {
	var params []string
	for _, p := range op.PathParams() {
		params = append(params, fmt.Sprintf("%s: %s", p.Name.Camel, TypeExpr(p.Type)))
	}
	if op.Body != nil {
		opt := "?"
		if op.Body.Required {
			opt = ""
		}
		params = append(params, fmt.Sprintf("body%s: %s", opt, TypeExpr(op.Body.Type)))
	}
	if query := op.QueryParams(); len(query) > 0 {
		params = append(params, "query?: { "+paramGroup(query)+" }")
	}
	if headers := op.HeaderParams(); len(headers) > 0 {
		params = append(params, "headers?: { "+paramGroup(headers)+" }")
	}
	return params
}

// MethodArgs returns the argument names forwarding MethodParams to the client
// method.
func MethodArgs(op *ir.Operation) []string {
	var args []string
	for _, p := range op.PathParams() {
		args = append(args, p.Name.Camel)
	}
	if op.Body != nil {
		args = append(args, "body")
	}
	if len(op.QueryParams()) > 0 {
		args = append(args, "query")
	}
	if len(op.HeaderParams()) > 0 {
		args = append(args, "headers")
	}
	return args
}

// paramGroup renders the members of a query or header group type.
func paramGroup(params []ir.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		opt := "?"
		if p.Required {
			opt = ""
		}
		parts[i] = fmt.Sprintf("%s%s: %s", propertyKey(p.Raw), opt, TypeExpr(p.Type))
	}
	return strings.Join(parts, "; ")
}

// groupLiteral renders the argument forwarding a query/header group, keyed by
// raw wire names.
func groupLiteral(varName string, params []ir.Param) string {
	if len(params) == 0 {
		return "{}"
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%s: %s?.[%q]", propertyKey(p.Raw), varName, p.Raw)
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}

// pathTemplate renders the operation path as a template literal with
// URI-encoded path parameters.
func pathTemplate(op *ir.Operation) string {
	path := op.Path
	for _, p := range op.PathParams() {
		placeholder := "{" + p.Raw + "}"
		replacement := fmt.Sprintf("${encodeURIComponent(String(%s))}", p.Name.Camel)
		path = strings.ReplaceAll(path, placeholder, replacement)
	}
	return "`" + path + "`"
}

func methodDoc(op *ir.Operation) string {
	var lines []string
	if op.Summary != "" {
		lines = append(lines, op.Summary)
	}
	if op.Description != "" && op.Description != op.Summary {
		lines = append(lines, op.Description)
	}
	if op.Deprecated {
		lines = append(lines, "@deprecated")
	}
	lines = append(lines, fmt.Sprintf("%s %s", op.Method, op.Path))
	return docComment(strings.Join(lines, "\n"), "  ")
}

// writeTypeImports emits the named type imports a client file needs.
func writeTypeImports(sb *strings.Builder, spec *ir.Spec, ops []*ir.Operation) {
	names := referencedSchemas(spec, ops)
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(sb, "import type { %s } from \"./types\";\n", strings.Join(names, ", "))
}

// ReferencedSchemaNames returns the schema names referenced by any operation,
// in canonical schema-map order.
func ReferencedSchemaNames(spec *ir.Spec) []string {
	return referencedSchemas(spec, spec.Operations.All())
}

// referencedSchemas returns the schema names referenced by the operations, in
// canonical schema-map order.
func referencedSchemas(spec *ir.Spec, ops []*ir.Operation) []string {
	used := make(map[string]bool)
	var visit func(t ir.Type)
	visit = func(t ir.Type) {
		switch v := t.(type) {
		case ir.Ref:
			used[v.Name.Pascal] = true
		case ir.Array:
			visit(v.Elem)
		case ir.Map:
			visit(v.Value)
		case ir.Union:
			for _, variant := range v.Variants {
				visit(variant)
			}
		case ir.Intersection:
			for _, part := range v.Parts {
				visit(part)
			}
		}
	}
	for _, op := range ops {
		for _, p := range op.Params {
			visit(p.Type)
		}
		if op.Body != nil {
			visit(op.Body.Type)
		}
		if op.Returns.Success != nil {
			visit(op.Returns.Success)
		}
		for _, e := range op.Returns.Errors {
			visit(e.Type)
		}
	}

	var names []string
	for _, s := range spec.Schemas.All() {
		if used[s.Name().Pascal] {
			names = append(names, s.Name().Pascal)
		}
	}
	return names
}
