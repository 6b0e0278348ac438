package ir

// Index identifies a unit of data — a parcel/area number in the source
// domain. Many identifiers may map to the same or different indices.
type Index int64

// Identifier is an opaque key distinct from Index. Each identifier maps to
// exactly one Index in an identifier database.
type Identifier int64

// GroupLabel is a caller-assigned name under which a query can be
// registered and later referenced indirectly.
type GroupLabel string
