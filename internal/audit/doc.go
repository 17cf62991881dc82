// Package audit runs the engine end to end: load the catalog, scan the
// tree, hash what the fingerprint cache cannot answer, classify every file,
// place or route it, and commit the state store at checkpoints and on
// shutdown. All store mutations and holding-area allocation happen on the
// single aggregation goroutine, so worker results never race.
package audit
