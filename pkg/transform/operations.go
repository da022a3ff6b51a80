package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/urmzd/oag/pkg/ir"
	"github.com/urmzd/oag/pkg/loader"
	"github.com/urmzd/oag/pkg/naming"
)

const contentTypeSSE = "text/event-stream"

var httpMethods = map[string]ir.Method{
	"get":     ir.MethodGet,
	"post":    ir.MethodPost,
	"put":     ir.MethodPut,
	"patch":   ir.MethodPatch,
	"delete":  ir.MethodDelete,
	"head":    ir.MethodHead,
	"options": ir.MethodOptions,
}

// operations walks every path × method pair and lowers it (phase 2).
func (t *transformer) operations() error {
	for _, pathEntry := range loader.Entries(loader.Get(t.doc.Root, "paths")) {
		item := pathEntry.Value
		shared := loader.Items(loader.Get(item, "parameters"))
		for _, methodEntry := range loader.Entries(item) {
			method, ok := httpMethods[strings.ToLower(methodEntry.Key)]
			if !ok {
				continue
			}
			op, err := t.lowerOperation(pathEntry.Key, method, methodEntry.Value, shared)
			if err != nil {
				return err
			}
			if t.spec.Operations.Has(op.ID.Camel) {
				t.duplicates = append(t.duplicates, op.ID.Camel)
			}
			t.spec.Operations.Add(op)
		}
	}
	return nil
}

func (t *transformer) lowerOperation(path string, method ir.Method, node *yaml.Node, shared []*yaml.Node) (*ir.Operation, error) {
	id := t.operationID(method, path, node)

	op := &ir.Operation{
		ID:          id,
		Method:      method,
		Path:        path,
		Summary:     loader.StrAt(node, "summary"),
		Description: loader.StrAt(node, "description"),
		Deprecated:  loader.BoolAt(node, "deprecated"),
	}
	for _, tag := range loader.Items(loader.Get(node, "tags")) {
		op.Tags = append(op.Tags, loader.Str(tag))
	}

	if err := t.lowerParams(op, shared, loader.Items(loader.Get(node, "parameters"))); err != nil {
		return nil, err
	}
	if err := t.lowerBody(op, path, loader.Get(node, "requestBody")); err != nil {
		return nil, err
	}
	if err := t.lowerResponses(op, loader.Get(node, "responses")); err != nil {
		return nil, err
	}
	return op, nil
}

// lowerParams merges path-item level parameters with operation-level ones;
// operation parameters override shared ones matching on (name, in).
func (t *transformer) lowerParams(op *ir.Operation, shared, own []*yaml.Node) error {
	merged := make([]*yaml.Node, 0, len(shared)+len(own))
	merged = append(merged, shared...)
	for _, p := range own {
		replaced := false
		for i, existing := range merged {
			if loader.StrAt(existing, "name") == loader.StrAt(p, "name") &&
				loader.StrAt(existing, "in") == loader.StrAt(p, "in") {
				merged[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, p)
		}
	}

	for _, p := range merged {
		raw := loader.StrAt(p, "name")
		location := ir.Location(loader.StrAt(p, "in"))
		paramType, err := t.lowerType(loader.Get(p, "schema"), op.ID.Pascal+naming.New(raw).Pascal)
		if err != nil {
			return err
		}
		op.Params = append(op.Params, ir.Param{
			Location:    location,
			Raw:         raw,
			Name:        naming.New(raw),
			Type:        paramType,
			Required:    location == ir.InPath || loader.BoolAt(p, "required"),
			Description: loader.StrAt(p, "description"),
		})
	}
	return nil
}

func (t *transformer) lowerBody(op *ir.Operation, path string, node *yaml.Node) error {
	if node == nil {
		return nil
	}
	contentType, media := pickContent(loader.Get(node, "content"))
	if media == nil {
		return nil
	}
	bodyType, err := t.lowerType(loader.Get(media, "schema"), t.bodyOwner(path, op.ID))
	if err != nil {
		return err
	}
	op.Body = &ir.Body{
		Type:        bodyType,
		ContentType: contentType,
		Required:    loader.BoolAt(node, "required"),
	}
	return nil
}

// bodyOwner picks the promotion base name for an anonymous request body: the
// singular of the last plain path segment, falling back to the operation id
// followed by "Body".
func (t *transformer) bodyOwner(path string, id naming.Name) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		s := segments[i]
		if s != "" && !strings.HasPrefix(s, "{") {
			return naming.New(naming.Singular(s)).Pascal
		}
	}
	return id.Pascal + "Body"
}

// lowerResponses determines the success type, streaming flag, and error
// variants. The lowest documented 2xx status wins; event-stream content takes
// precedence over other media types at that status.
func (t *transformer) lowerResponses(op *ir.Operation, node *yaml.Node) error {
	type response struct {
		status int
		node   *yaml.Node
	}
	var responses []response
	for _, e := range loader.Entries(node) {
		status, err := strconv.Atoi(e.Key)
		if err != nil {
			continue // "default" and range keys carry no concrete status
		}
		responses = append(responses, response{status, e.Value})
	}
	sort.SliceStable(responses, func(i, j int) bool { return responses[i].status < responses[j].status })

	chosen := -1
	for i, r := range responses {
		if r.status >= 200 && r.status < 300 {
			chosen = i
			break
		}
	}

	if chosen >= 0 {
		r := responses[chosen]
		content := loader.Get(r.node, "content")
		if sse := loader.Get(content, contentTypeSSE); sse != nil {
			if len(loader.Entries(content)) > 1 {
				t.warnings = append(t.warnings, fmt.Sprintf(
					"operation %s: status %d documents multiple content types; preferring %s",
					op.ID.Camel, r.status, contentTypeSSE))
			}
			op.Returns.Streaming = true
			success, err := t.lowerType(eventSchema(sse), op.ID.Pascal+"Event")
			if err != nil {
				return err
			}
			op.Returns.Success = success
		} else if r.status != 204 {
			if _, media := pickContent(content); media != nil {
				success, err := t.lowerType(loader.Get(media, "schema"), op.ID.Pascal+"Response")
				if err != nil {
					return err
				}
				op.Returns.Success = success
			}
		}
	}

	for i, r := range responses {
		if i == chosen {
			continue
		}
		variantType := ir.Type(ir.Primitive{Kind: ir.KindAny})
		if _, media := pickContent(loader.Get(r.node, "content")); media != nil {
			lowered, err := t.lowerType(loader.Get(media, "schema"), op.ID.Pascal+"Error"+strconv.Itoa(r.status))
			if err != nil {
				return err
			}
			variantType = lowered
		}
		op.Returns.Errors = append(op.Returns.Errors, ir.ErrorVariant{Status: r.status, Type: variantType})
	}
	return nil
}

// eventSchema returns the schema of a single event for an event-stream media
// node, preferring itemSchema (3.2) over schema.
func eventSchema(media *yaml.Node) *yaml.Node {
	if item := loader.Get(media, "itemSchema"); item != nil {
		return item
	}
	return loader.Get(media, "schema")
}

// pickContent chooses the media type to lower: application/json when present,
// otherwise the first entry in source order.
func pickContent(content *yaml.Node) (string, *yaml.Node) {
	if media := loader.Get(content, "application/json"); media != nil {
		return "application/json", media
	}
	for _, e := range loader.Entries(content) {
		return e.Key, e.Value
	}
	return "", nil
}

// operationID applies the configured naming strategy, then aliases keyed by
// the pre-alias camelCase id.
func (t *transformer) operationID(method ir.Method, path string, node *yaml.Node) naming.Name {
	var id naming.Name
	if t.opts.Strategy == UseRouteBased {
		id = routeID(method, path)
	} else if raw := loader.StrAt(node, "operationId"); raw != "" {
		id = naming.New(raw)
	} else {
		id = routeID(method, path)
	}
	if alias, ok := t.opts.Aliases[id.Camel]; ok {
		return naming.New(alias)
	}
	return id
}

// routeID derives an operation id from method and path: GET of a parameter
// tail reads ("getPet"), GET of a collection lists ("listPets"), every other
// method uses its verb with singularized segments ("createPet").
func routeID(method ir.Method, path string) naming.Name {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	var plain []string
	for _, s := range segments {
		if s != "" && !strings.HasPrefix(s, "{") {
			plain = append(plain, s)
		}
	}
	finalIsParam := len(segments) > 0 && strings.HasPrefix(segments[len(segments)-1], "{")

	verb := map[ir.Method]string{
		ir.MethodGet:     "get",
		ir.MethodPost:    "create",
		ir.MethodPut:     "update",
		ir.MethodPatch:   "patch",
		ir.MethodDelete:  "delete",
		ir.MethodHead:    "head",
		ir.MethodOptions: "options",
	}[method]

	parts := []string{verb}
	if len(plain) == 0 {
		parts = append(parts, "root")
	} else if method == ir.MethodGet && !finalIsParam {
		parts[0] = "list"
		for _, s := range plain[:len(plain)-1] {
			parts = append(parts, naming.Singular(s))
		}
		parts = append(parts, plain[len(plain)-1])
	} else {
		for _, s := range plain {
			parts = append(parts, naming.Singular(s))
		}
	}
	return naming.New(strings.Join(parts, " "))
}
