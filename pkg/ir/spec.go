package ir

// Info is the API metadata extracted verbatim from the document.
type Info struct {
	Title       string
	Description string
	Version     string
}

// Server is a single server entry. The list may be empty.
type Server struct {
	URL         string
	Description string
}

// Spec is the root of the intermediate representation. It is constructed once
// per compilation, immutable afterwards, and shared read-only with every
// generator.
type Spec struct {
	Info       Info
	Servers    []Server
	Schemas    *SchemaMap
	Operations *OperationMap
	Modules    []Module
}

// NewSpec creates an empty specification root.
func NewSpec() *Spec {
	return &Spec{
		Schemas:    NewSchemaMap(),
		Operations: NewOperationMap(),
	}
}

// Streaming reports whether any operation streams server-sent events.
func (s *Spec) Streaming() bool {
	for _, op := range s.Operations.All() {
		if op.Returns.Streaming {
			return true
		}
	}
	return false
}
