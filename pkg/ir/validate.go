package ir

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/urmzd/oag/pkg/errors"
)

var pathPlaceholderRe = regexp.MustCompile(`\{([^}]*)\}`)

// Validate asserts the structural invariants of a lowered specification.
// The first violation is returned as a ValidationError.
func Validate(spec *Spec) error {
	if err := validateRefs(spec); err != nil {
		return err
	}
	if err := validateFields(spec); err != nil {
		return err
	}
	if err := validateUnions(spec); err != nil {
		return err
	}
	return validatePaths(spec)
}

// validateRefs checks that every Ref points into the schema map.
func validateRefs(spec *Spec) error {
	var bad *errors.ValidationError
	walkSpecTypes(spec, func(t Type, path string) {
		if bad != nil {
			return
		}
		if ref, ok := t.(Ref); ok && !spec.Schemas.Has(ref.Name.Pascal) {
			bad = &errors.ValidationError{Kind: "unresolved-ref", Path: path + "/" + ref.Name.Pascal}
		}
	})
	if bad != nil {
		return bad
	}
	return nil
}

// validateFields checks that no object declares two fields with the same
// camelCase name.
func validateFields(spec *Spec) error {
	for _, s := range spec.Schemas.All() {
		obj, ok := s.(Object)
		if !ok {
			continue
		}
		seen := make(map[string]bool, len(obj.Fields))
		for _, f := range obj.Fields {
			if seen[f.Name.Camel] {
				return &errors.ValidationError{
					Kind: "duplicate-field",
					Path: fmt.Sprintf("schemas/%s/fields/%s", obj.SchemaName.Pascal, f.Name.Camel),
				}
			}
			seen[f.Name.Camel] = true
		}
	}
	return nil
}

// validateUnions checks discriminator mappings and pairwise variant
// distinctness for every union in the IR.
func validateUnions(spec *Spec) error {
	var bad *errors.ValidationError
	check := func(u Union, path string) {
		if bad != nil {
			return
		}
		for i := range u.Variants {
			for j := i + 1; j < len(u.Variants); j++ {
				if Equal(u.Variants[i], u.Variants[j]) {
					bad = &errors.ValidationError{Kind: "duplicate-variant", Path: path}
					return
				}
			}
		}
		if u.Discriminator == nil {
			return
		}
		for _, c := range u.Discriminator.Mapping {
			if !discriminates(spec, c.Schema.Pascal, u.Discriminator.Property, c.Value) {
				bad = &errors.ValidationError{
					Kind: "discriminator",
					Path: path + "/" + c.Schema.Pascal,
				}
				return
			}
		}
	}

	for _, s := range spec.Schemas.All() {
		if us, ok := s.(UnionSchema); ok {
			check(us.Union, "schemas/"+us.SchemaName.Pascal)
		}
	}
	walkSpecTypes(spec, func(t Type, path string) {
		if u, ok := t.(Union); ok {
			check(u, path)
		}
	})
	if bad != nil {
		return bad
	}
	return nil
}

// discriminates reports whether the named schema carries the discriminator
// property as a required literal with the given value.
func discriminates(spec *Spec, schema, property, value string) bool {
	s, ok := spec.Schemas.Get(schema)
	if !ok {
		return false
	}
	obj, ok := s.(Object)
	if !ok {
		return false
	}
	for _, f := range obj.Fields {
		if f.Raw != property || !f.Required {
			continue
		}
		lit, ok := f.Type.(Literal)
		if !ok {
			return false
		}
		return fmt.Sprintf("%v", lit.Value) == value
	}
	return false
}

// validatePaths checks that path placeholders exactly match the declared path
// parameters.
func validatePaths(spec *Spec) error {
	for _, op := range spec.Operations.All() {
		placeholders := make(map[string]bool)
		for _, m := range pathPlaceholderRe.FindAllStringSubmatch(op.Path, -1) {
			placeholders[m[1]] = true
		}
		declared := make(map[string]bool)
		for _, p := range op.PathParams() {
			declared[p.Raw] = true
		}
		if len(placeholders) != len(declared) {
			return pathParamError(op)
		}
		for name := range placeholders {
			if !declared[name] {
				return pathParamError(op)
			}
		}
	}
	return nil
}

func pathParamError(op *Operation) error {
	return &errors.ValidationError{
		Kind: "path-params",
		Path: fmt.Sprintf("operations/%s/%s", op.ID.Camel, strings.TrimPrefix(op.Path, "/")),
	}
}

// walkSpecTypes visits every type expression reachable from schemas and
// operations, in canonical order.
func walkSpecTypes(spec *Spec, visit func(Type, string)) {
	for _, s := range spec.Schemas.All() {
		base := "schemas/" + s.Name().Pascal
		switch v := s.(type) {
		case Object:
			for _, f := range v.Fields {
				walkType(f.Type, base+"/fields/"+f.Name.Camel, visit)
			}
			if v.Additional != nil {
				walkType(v.Additional, base+"/additional", visit)
			}
		case Alias:
			walkType(v.Target, base, visit)
		case UnionSchema:
			walkType(v.Union, base, visit)
		}
	}
	for _, op := range spec.Operations.All() {
		base := "operations/" + op.ID.Camel
		for _, p := range op.Params {
			walkType(p.Type, base+"/params/"+p.Raw, visit)
		}
		if op.Body != nil {
			walkType(op.Body.Type, base+"/body", visit)
		}
		if op.Returns.Success != nil {
			walkType(op.Returns.Success, base+"/returns", visit)
		}
		for _, e := range op.Returns.Errors {
			walkType(e.Type, fmt.Sprintf("%s/errors/%d", base, e.Status), visit)
		}
	}
}

func walkType(t Type, path string, visit func(Type, string)) {
	if t == nil {
		return
	}
	visit(t, path)
	switch v := t.(type) {
	case Array:
		walkType(v.Elem, path, visit)
	case Map:
		walkType(v.Value, path, visit)
	case Union:
		for _, variant := range v.Variants {
			walkType(variant, path, visit)
		}
	case Intersection:
		for _, part := range v.Parts {
			walkType(part, path, visit)
		}
	}
}
