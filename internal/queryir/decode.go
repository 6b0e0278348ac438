package queryir

import (
	"fmt"
	"math"

	"github.com/fHachenberg/groupq/internal/ir"
)

// Decode converts the generic one-of document form of a query into its IR.
//
// The document form is what the CUE and YAML definition loaders produce: a
// map with exactly one of the variant keys.
//
//	single:    {identifier: <int>}
//	range:     {first: <int>, last: <int>}
//	group:     <label string>
//	list:      [<query>, ...]
//	intersect: [<query>, ...]
//	except:    {left: <query>, right: <query>}
//
// Numeric values may arrive as int, int64, uint64, or integral float64
// depending on the decoder that produced the document.
func Decode(node any) (Query, error) {
	m, ok := node.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("query node must be a mapping, got %T", node)
	}
	if len(m) != 1 {
		return nil, fmt.Errorf("query node must have exactly one variant key, got %d", len(m))
	}

	for kind, val := range m {
		switch kind {
		case "single":
			return decodeSingle(val)
		case "range":
			return decodeRange(val)
		case "group":
			return decodeGroup(val)
		case "list":
			subs, err := decodeQueries(val, "list")
			if err != nil {
				return nil, err
			}
			return ListCombination{Queries: subs}, nil
		case "intersect":
			subs, err := decodeQueries(val, "intersect")
			if err != nil {
				return nil, err
			}
			return Intersection{Queries: subs}, nil
		case "except":
			return decodeExcept(val)
		default:
			return nil, fmt.Errorf("unknown query variant %q", kind)
		}
	}
	// Unreachable: len(m) == 1 guarantees the loop body runs.
	return nil, fmt.Errorf("empty query node")
}

func decodeSingle(val any) (Query, error) {
	fields, ok := val.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("single: expected mapping with identifier, got %T", val)
	}
	id, err := intField(fields, "single", "identifier")
	if err != nil {
		return nil, err
	}
	return SingleLookup{Identifier: ir.Identifier(id)}, nil
}

func decodeRange(val any) (Query, error) {
	fields, ok := val.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("range: expected mapping with first and last, got %T", val)
	}
	first, err := intField(fields, "range", "first")
	if err != nil {
		return nil, err
	}
	last, err := intField(fields, "range", "last")
	if err != nil {
		return nil, err
	}
	return RangeLookup{First: ir.Identifier(first), Last: ir.Identifier(last)}, nil
}

func decodeGroup(val any) (Query, error) {
	label, ok := val.(string)
	if !ok {
		return nil, fmt.Errorf("group: expected label string, got %T", val)
	}
	if label == "" {
		return nil, fmt.Errorf("group: empty label")
	}
	return GroupReference{Label: ir.GroupLabel(label)}, nil
}

func decodeQueries(val any, kind string) ([]Query, error) {
	list, ok := val.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected sequence of queries, got %T", kind, val)
	}
	subs := make([]Query, 0, len(list))
	for i, elem := range list {
		sub, err := Decode(elem)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", kind, i, err)
		}
		subs = append(subs, sub)
	}
	return subs, nil
}

func decodeExcept(val any) (Query, error) {
	fields, ok := val.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("except: expected mapping with left and right, got %T", val)
	}
	leftNode, ok := fields["left"]
	if !ok {
		return nil, fmt.Errorf("except: missing left operand")
	}
	rightNode, ok := fields["right"]
	if !ok {
		return nil, fmt.Errorf("except: missing right operand")
	}
	left, err := Decode(leftNode)
	if err != nil {
		return nil, fmt.Errorf("except.left: %w", err)
	}
	right, err := Decode(rightNode)
	if err != nil {
		return nil, fmt.Errorf("except.right: %w", err)
	}
	return Difference{Left: left, Right: right}, nil
}

// intField extracts an integer field, tolerating the numeric types
// different document decoders produce.
func intField(fields map[string]any, kind, name string) (int64, error) {
	val, ok := fields[name]
	if !ok {
		return 0, fmt.Errorf("%s: missing %s", kind, name)
	}
	n, err := asInt64(val)
	if err != nil {
		return 0, fmt.Errorf("%s.%s: %w", kind, name, err)
	}
	return n, nil
}

func asInt64(val any) (int64, error) {
	switch n := val.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, fmt.Errorf("integer %d out of range", n)
		}
		return int64(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("expected integer, got float %v", n)
		}
		return int64(n), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", val)
	}
}
