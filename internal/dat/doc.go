// Package dat parses Logiqx-style DAT and XML catalog files into catalog
// entries. Both self-closing and nested rom elements are handled, as are
// machine elements and CHD disk declarations. Structurally broken records
// are dropped during parsing so the index only ever sees valid entries.
package dat
