// Package dataset loads the council session table from CSV and keeps it in
// memory for the lifetime of the process.
//
// Rows with an unparseable session date, or a date before the configured
// minimum, are dropped at load time and counted in the LoadReport. The
// resulting Table is never mutated; filters and aggregations derive new
// values from it.
package dataset
