// Package ir provides the foundational value types for groupq.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps ir the foundational
// layer with no circular dependencies.
//
// Key design constraints:
//   - Indices and identifiers are int64, never floats
//   - IndexSet values are always freshly allocated by their producers;
//     set operations return new sets and never mutate their receivers
package ir
