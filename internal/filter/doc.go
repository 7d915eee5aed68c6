// Package filter narrows a dataset.Table to the rows a dashboard view asks
// for. Every function is pure: the input table is never modified and the same
// inputs always give the same output.
package filter
