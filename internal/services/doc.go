// Package services implements the business logic layer of the dashboard.
// It sits between the HTTP and CLI surfaces and the dataset, filter and
// analytics packages, so every view is computed the same way regardless of
// who asks for it.
//
// # Service Layer Responsibilities
//
//	- Resolving the shared dataset table and the "no data" state
//	- Applying filters and building the per-view aggregates
//	- Feature switches for optional views
//	- Cross-cutting concerns (spans, query metrics, logging)
//	- Error translation to package sentinels
//
// # Common Service Pattern
//
// Each DashboardService method takes a context, starts a span named after the
// view, and records the outcome on the query counters:
//
//	func (s *DashboardService) Overview(ctx context.Context, q Query) (_ Overview, err error) {
//		ctx, done := s.begin(ctx, "overview")
//		defer func() { done(err) }()
//		...
//	}
//
// # Error Handling
//
// Services return sentinel errors wrapped with %w:
//
//	ErrDatasetNotFound  no dataset file could be loaded
//	ErrFeatureDisabled  the view is turned off in configuration
//	ErrBillNotFound     the requested bill has no events
//	ErrAuthorNotFound   the requested author never appears
//	ErrInvalidInput     malformed filter or sort options
//
// Load failures other than a missing file, such as missing columns, are
// returned unchanged as *errors.AppError values.
package services
