// Package history persists one row per completed or interrupted run in a
// local SQLite database. The history is bookkeeping for the operator, not
// run state: deleting it never affects the next run's behavior.
package history
