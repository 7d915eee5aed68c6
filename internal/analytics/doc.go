// Package analytics derives the dashboard aggregates from a dataset.Table:
// status and monthly distributions, author rankings and profiles, the
// month by year activity matrix, bill timelines and same-session coauthor
// pairs.
//
// All functions are pure and return well-defined empty values for an empty
// table. Functions that classify approvals take a Classifier; nil selects
// DefaultClassifier.
package analytics
