// Command romaudit audits a ROM collection against a DAT/XML catalog:
// it hashes scanned files, organizes verified matches into the output
// tree, and routes duplicates and unknown files into holding areas.
package main
