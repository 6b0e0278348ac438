package queryir

import (
	"bytes"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces deterministic canonical JSON for a query tree.
// CRITICAL: This is the ONLY serialization that should be used for
// content-addressed identity computation (see Hash).
//
// Canonical form guarantees:
//  1. Object keys emitted in sorted order (fixed per variant)
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Group labels are NFC normalized
//  4. Integers only, no floats
//
// Variant encodings:
//
//	{"identifier":0,"kind":"single"}
//	{"first":0,"kind":"range","last":32}
//	{"kind":"group","label":"otto"}
//	{"kind":"list","queries":[...]}
//	{"kind":"intersect","queries":[...]}
//	{"kind":"except","left":{...},"right":{...}}
//
// The Queries order of a combinator is part of its identity even though
// evaluation is order-independent: canonical form encodes the tree as
// constructed, not its result.
func MarshalCanonical(q Query) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalCanonical(&buf, q); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalCanonical(buf *bytes.Buffer, q Query) error {
	switch query := q.(type) {
	case SingleLookup:
		fmt.Fprintf(buf, `{"identifier":%d,"kind":"single"}`, query.Identifier)
		return nil
	case *SingleLookup:
		return marshalCanonical(buf, *query)
	case RangeLookup:
		fmt.Fprintf(buf, `{"first":%d,"kind":"range","last":%d}`, query.First, query.Last)
		return nil
	case *RangeLookup:
		return marshalCanonical(buf, *query)
	case GroupReference:
		buf.WriteString(`{"kind":"group","label":`)
		writeCanonicalString(buf, string(query.Label))
		buf.WriteByte('}')
		return nil
	case *GroupReference:
		return marshalCanonical(buf, *query)
	case ListCombination:
		return marshalQueries(buf, "list", query.Queries)
	case *ListCombination:
		return marshalCanonical(buf, *query)
	case Intersection:
		return marshalQueries(buf, "intersect", query.Queries)
	case *Intersection:
		return marshalCanonical(buf, *query)
	case Difference:
		buf.WriteString(`{"kind":"except","left":`)
		if err := marshalCanonical(buf, query.Left); err != nil {
			return err
		}
		buf.WriteString(`,"right":`)
		if err := marshalCanonical(buf, query.Right); err != nil {
			return err
		}
		buf.WriteByte('}')
		return nil
	case *Difference:
		return marshalCanonical(buf, *query)
	case nil:
		return fmt.Errorf("nil query cannot be canonically marshaled")
	default:
		return fmt.Errorf("unknown query type %T cannot be canonically marshaled", q)
	}
}

func marshalQueries(buf *bytes.Buffer, kind string, queries []Query) error {
	fmt.Fprintf(buf, `{"kind":%q,"queries":[`, kind)
	for i, sub := range queries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := marshalCanonical(buf, sub); err != nil {
			return err
		}
	}
	buf.WriteString("]}")
	return nil
}

// writeCanonicalString writes an NFC-normalized JSON string without HTML
// escaping. Only the characters JSON requires escaped (quote, backslash,
// controls) are escaped, controls in \u00XX form except the common
// shorthands.
func writeCanonicalString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}
