package chart

import (
	stderrors "errors"
	"fmt"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"

	mserrors "github.com/openebs/mayastor-upgrade/pkg/errors"
)

// suggestionMaxDistance bounds how far a document key may be from a missing
// required key before a "did you mean" hint is offered.
const suggestionMaxDistance = 2

// fieldError is a schema violation carrying the document path where it
// occurred. Each enclosing type prepends its key as the error propagates up,
// so the caller sees the full path from the document root.
type fieldError struct {
	path string
	msg  string
}

func (e *fieldError) Error() string {
	if e.path == "" {
		return e.msg
	}
	return fmt.Sprintf("%s: %s", e.path, e.msg)
}

func fieldErrorf(key, format string, args ...any) *fieldError {
	return &fieldError{path: key, msg: fmt.Sprintf(format, args...)}
}

// prefixed prepends key to the document path of err. Errors that did not
// originate from this package (plain yaml type errors) are folded into a
// fieldError under key.
func prefixed(key string, err error) error {
	var fe *fieldError
	if stderrors.As(err, &fe) {
		path := key
		if fe.path != "" {
			path = key + "." + fe.path
		}
		return &fieldError{path: path, msg: fe.msg}
	}
	return &fieldError{path: key, msg: err.Error()}
}

// asSchemaError converts any decode failure into a SCHEMA_MISMATCH
// StructuredError at the document boundary.
func asSchemaError(err error) error {
	var fe *fieldError
	if stderrors.As(err, &fe) {
		return mserrors.New(mserrors.ErrCodeSchema, "%s", fe.Error())
	}
	return mserrors.Wrap(err, mserrors.ErrCodeSchema, "malformed document")
}

// mapping wraps a yaml mapping node with key lookups. All schema types decode
// through it so that missing-key and wrong-type failures are reported
// uniformly.
type mapping struct {
	node *yaml.Node
}

func asMapping(node *yaml.Node) (*mapping, error) {
	// An aliased mapping resolves to its anchor target.
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.MappingNode {
		return nil, &fieldError{msg: fmt.Sprintf("expected a mapping, got %s", nodeKindName(node))}
	}
	return &mapping{node: node}, nil
}

// lookup returns the value node for key, or nil if the key is absent.
// An explicit null value counts as absent.
func (m *mapping) lookup(key string) *yaml.Node {
	content := m.node.Content
	for i := 0; i+1 < len(content); i += 2 {
		if content[i].Value == key {
			value := content[i+1]
			if value.Tag == "!!null" {
				return nil
			}
			return value
		}
	}
	return nil
}

// required returns the value node for key, or a missing-key fieldError. When
// a sibling key is a near miss, the error carries a hint so that silently
// mismatched casing (logLevel vs log_level) is caught at decode time instead
// of surfacing as an inexplicable absence.
func (m *mapping) required(key string) (*yaml.Node, error) {
	if node := m.lookup(key); node != nil {
		return node, nil
	}
	if near := nearestKey(key, m.keys()); near != "" {
		return nil, fieldErrorf(key, "missing required key (did you mean %q?)", near)
	}
	return nil, fieldErrorf(key, "missing required key")
}

// requiredString returns the string value for key, failing if the key is
// absent or holds a non-string value.
func (m *mapping) requiredString(key string) (string, error) {
	node, err := m.required(key)
	if err != nil {
		return "", err
	}
	if node.Kind != yaml.ScalarNode || node.Tag != "!!str" {
		return "", fieldErrorf(key, "expected a string, got %s", nodeKindName(node))
	}
	return node.Value, nil
}

func (m *mapping) keys() []string {
	content := m.node.Content
	keys := make([]string, 0, len(content)/2)
	for i := 0; i+1 < len(content); i += 2 {
		keys = append(keys, content[i].Value)
	}
	return keys
}

// nearestKey returns the closest candidate within suggestionMaxDistance of
// want, or the empty string if none is close enough.
func nearestKey(want string, candidates []string) string {
	best := ""
	bestDistance := suggestionMaxDistance + 1
	for _, candidate := range candidates {
		if candidate == want {
			continue
		}
		if d := levenshtein.ComputeDistance(want, candidate); d < bestDistance {
			best = candidate
			bestDistance = d
		}
	}
	return best
}

func nodeKindName(node *yaml.Node) string {
	switch node.Kind {
	case yaml.ScalarNode:
		// !!int -> int, !!bool -> bool, ...
		if len(node.Tag) > 2 && node.Tag[:2] == "!!" {
			return node.Tag[2:]
		}
		return "scalar"
	case yaml.MappingNode:
		return "mapping"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown node"
	}
}

// decodeDocument unmarshals data into a single yaml document node and rejects
// empty input, so that no zero-valued schema type can escape a decode.
func decodeDocument(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, asSchemaError(err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, mserrors.New(mserrors.ErrCodeSchema, "empty document")
	}
	return doc.Content[0], nil
}
