// Package resolver inlines $ref pointers in a loaded specification document.
//
// Every reference of the form #/components/<section>/<name> is replaced by a
// clone of its target. Clones of named schemas are tagged with their origin so
// the transform can keep referring to them by name instead of re-promoting the
// inlined copy. When a reference closes a cycle, a sentinel node is left in
// place and later lowered to a named IR reference.
package resolver

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/urmzd/oag/pkg/errors"
	"github.com/urmzd/oag/pkg/loader"
)

const (
	tagNamed = "!named"
	tagCycle = "!cycle"
)

// Origin reports the components/schemas name a node was expanded from.
func Origin(n *yaml.Node) (string, bool) {
	if n != nil && n.Tag == tagNamed {
		return n.Anchor, true
	}
	return "", false
}

// CycleRef reports the schema name a cycle sentinel stands for.
func CycleRef(n *yaml.Node) (string, bool) {
	if n != nil && n.Tag == tagCycle {
		return n.Value, true
	}
	return "", false
}

// Resolve expands every $ref in the document in place. The document must be
// self-contained: external references are a hard error.
func Resolve(doc *loader.Document) error {
	r := &resolver{
		components: loader.Get(doc.Root, "components"),
		active:     make(map[string]bool),
		done:       make(map[string]bool),
	}

	// Resolve component targets first so use sites clone fully-expanded nodes.
	for _, section := range loader.Entries(r.components) {
		for _, entry := range loader.Entries(section.Value) {
			if err := r.resolveTarget(section.Key, entry.Key); err != nil {
				return err
			}
		}
	}

	return r.walk(doc.Root)
}

type resolver struct {
	components *yaml.Node
	active     map[string]bool
	done       map[string]bool
}

func (r *resolver) resolveTarget(section, name string) error {
	key := section + "/" + name
	if r.done[key] {
		return nil
	}
	target := r.lookup(section, name)
	if target == nil {
		return &errors.RefError{Kind: errors.ErrUnresolvedRef, Pointer: "#/components/" + key}
	}
	r.active[key] = true
	err := r.walk(target)
	delete(r.active, key)
	if err != nil {
		return err
	}
	r.done[key] = true
	return nil
}

func (r *resolver) walk(n *yaml.Node) error {
	n = loader.Deref(n)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		if ref := loader.StrAt(n, "$ref"); ref != "" {
			return r.substitute(n, ref)
		}
		for i := 1; i < len(n.Content); i += 2 {
			if err := r.walk(n.Content[i]); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for _, item := range n.Content {
			if err := r.walk(item); err != nil {
				return err
			}
		}
	}
	return nil
}

// substitute replaces a referring node with a clone of its target, or with a
// cycle sentinel when the target is currently being resolved.
func (r *resolver) substitute(n *yaml.Node, ref string) error {
	section, name, err := parsePointer(ref)
	if err != nil {
		return err
	}

	key := section + "/" + name
	if r.active[key] {
		*n = yaml.Node{Kind: yaml.ScalarNode, Tag: tagCycle, Value: name}
		return nil
	}
	if err := r.resolveTarget(section, name); err != nil {
		return err
	}

	clone := loader.Clone(r.lookup(section, name))
	if section == "schemas" {
		clone.Tag = tagNamed
		clone.Anchor = name
	}
	*n = *clone
	return nil
}

func (r *resolver) lookup(section, name string) *yaml.Node {
	return loader.Get(loader.Get(r.components, section), name)
}

// parsePointer splits a local components pointer into section and name.
func parsePointer(ref string) (section, name string, err error) {
	if strings.Contains(ref, "://") || !strings.HasPrefix(ref, "#") {
		return "", "", &errors.RefError{Kind: errors.ErrExternalRef, Pointer: ref}
	}
	parts := strings.Split(strings.TrimPrefix(ref, "#/"), "/")
	if len(parts) != 3 || parts[0] != "components" || parts[1] == "" || parts[2] == "" {
		return "", "", &errors.RefError{Kind: errors.ErrMalformedRef, Pointer: ref}
	}
	name = strings.ReplaceAll(strings.ReplaceAll(parts[2], "~1", "/"), "~0", "~")
	return parts[1], name, nil
}
