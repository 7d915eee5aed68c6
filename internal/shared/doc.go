// Package shared holds code used across packages that belongs to no single
// layer. Today that is only testutil: a capturing slog handler for log
// assertions and BillEvent fixtures, including the reference CSV.
package shared
