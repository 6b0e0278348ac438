// Package engine evaluates groupq queries against explicitly passed
// databases.
//
// The engine is the invoke(query, context) half of the tagged-variant
// design: queryir holds the value-only query trees, and the Evaluator
// resolves them against an identifier database and a group database
// threaded through every evaluation, never ambient.
//
// LATE BINDING:
//
// The group database is shared by reference and may be mutated by the
// caller at any time. A GroupReference resolves its label when evaluated,
// so a label registered after the reference was constructed - or
// reassigned afterwards - takes effect on the next evaluation. This is an
// intentional shared-state channel, not a snapshot semantic.
//
// ERROR MODEL:
//
// The reference behavior dereferenced absent map entries, which was
// undefined. Every lookup here performs an explicit presence check and
// fails with a typed EvalError: KEY_NOT_FOUND, UNKNOWN_GROUP,
// INVALID_RANGE, EMPTY_INTERSECTION. Failures propagate atomically out of
// combinators - a combination either yields a complete result or fails.
//
// TERMINATION:
//
// Late binding admits self-referential groups, which the reference would
// recurse on forever. Two guards guarantee termination: cycle detection on
// the active group-label chain (CYCLE_DETECTED) and a nesting depth quota
// (DEPTH_EXCEEDED, default 256, configurable via WithMaxDepth). The two
// catch different shapes: cycles catch recursion, the quota catches linear
// explosion.
//
// CONCURRENCY:
//
// Evaluation is single-threaded and synchronous. The Evaluator never
// mutates either database, but it does not synchronize against callers
// mutating the group database from other goroutines; multi-threaded use
// requires caller-side locking around group writes.
package engine
