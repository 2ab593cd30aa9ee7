// Package pkg holds the libraries behind the familytree command.
//
// # Overview
//
// A family tree arrives as one nested person record, from a file, a store
// or a backend over HTTP, and leaves as a positioned, filtered and framed
// view:
//
//	family.PersonRecord (nested JSON/YAML)
//	         ↓
//	    [tree] arena with parent links and depths
//	         ↓
//	    [layout] tidy tree positions, [bounds] content rectangle
//	         ↓
//	    [visibility] focus / search sets, [viewport] zoom and pan
//	         ↓
//	    [view] State and Session (events, debouncing, theme)
//	         ↓
//	    [render] SVG, DOT, PNG, PDF
//
// [pipeline] runs load → prepare → render with caching ([cache]), and
// [server] and [client] speak the two-endpoint backend protocol
// (/api/tree, /api/person/{id}) over a [store].
//
// Supporting packages: [errors] (coded errors and input validation),
// [config] (TOML configuration), [theme] (skins and the persisted
// preference), [watch] (file watching), [observability] (hooks),
// [httputil] (retry and response classification) and [buildinfo].
package pkg
