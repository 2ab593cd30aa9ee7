// Package family provides the person record types served by the data backend
// and their serialization.
//
// This package defines the canonical wire format for genealogical records,
// used for JSON API responses, data files, store documents and cache entries.
//
// # Core Types
//
//   - [PersonRecord]: one person with nested children (the tree) or a flat
//     children list (the detail endpoint)
//   - [Spouse]: an ordered spouse entry
//   - [ID]: a person identifier that accepts both JSON numbers and strings
//   - [Details]: the display projection shown when a person is selected
//
// # Wire Format
//
//	{
//	  "id": 1,
//	  "name": "Ali",
//	  "birth_date": "1931",
//	  "spouses": [{"ord": 1, "spouse_name": "Fatima"}],
//	  "children": [{"id": 2, "name": "Omar", "children": []}]
//	}
//
// Common operations:
//
//	root, _ := family.ReadFile("tree.json")   // File → record (JSON or YAML)
//	family.WriteFile(root, "out.json")        // Record → file
//	data, _ := family.Marshal(root)           // Record → []byte
//
// # Missing Fields
//
// Records are snapshots of backend data and are never rejected for shape
// problems. A missing name is coerced to "" ([ErrCodeMissingField]) and a
// blank photo URL resolves to [PlaceholderPhoto]; see [PersonRecord.Warnings].
//
// # Concurrency
//
// Records are immutable after decoding and safe for concurrent reads.
package family
