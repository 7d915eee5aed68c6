package analytics

import (
	"log/slog"
	"strings"
	"sync"
)

// ApprovedMarker is the status fragment that marks an approved bill event
const ApprovedMarker = "aprovado"

// Classifier decides whether a status label means the bill was approved
type Classifier interface {
	IsApproved(status string) bool
}

// SubstringClassifier treats any status containing ApprovedMarker,
// ignoring case, as approved
type SubstringClassifier struct{}

// IsApproved implements Classifier
func (SubstringClassifier) IsApproved(status string) bool {
	return strings.Contains(strings.ToLower(status), ApprovedMarker)
}

// DefaultClassifier is used wherever a nil Classifier is passed
var DefaultClassifier Classifier = SubstringClassifier{}

// CatalogClassifier maps known status labels to an explicit approved flag.
// Labels missing from the catalog fall back to the substring rule and are
// logged once each, so new labels show up in the logs instead of being
// silently misclassified.
type CatalogClassifier struct {
	catalog  map[string]bool
	fallback Classifier
	logger   *slog.Logger

	mu      sync.Mutex
	unknown map[string]struct{}
}

// NewCatalogClassifier creates a classifier over catalog. Keys are exact,
// trimmed status labels.
func NewCatalogClassifier(catalog map[string]bool, logger *slog.Logger) *CatalogClassifier {
	entries := make(map[string]bool, len(catalog))
	for label, approved := range catalog {
		entries[strings.TrimSpace(label)] = approved
	}
	return &CatalogClassifier{
		catalog:  entries,
		fallback: SubstringClassifier{},
		logger:   logger.With(slog.String("component", "status_classifier")),
		unknown:  make(map[string]struct{}),
	}
}

// IsApproved implements Classifier
func (c *CatalogClassifier) IsApproved(status string) bool {
	if approved, ok := c.catalog[status]; ok {
		return approved
	}

	approved := c.fallback.IsApproved(status)

	c.mu.Lock()
	_, seen := c.unknown[status]
	if !seen {
		c.unknown[status] = struct{}{}
	}
	c.mu.Unlock()

	if !seen {
		c.logger.Warn("status label not in catalog",
			slog.String("status", status),
			slog.Bool("classified_approved", approved))
	}
	return approved
}

// Unknown returns the labels seen so far that were missing from the catalog
func (c *CatalogClassifier) Unknown() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.unknown))
	for label := range c.unknown {
		out = append(out, label)
	}
	return out
}

// NewClassifier returns a CatalogClassifier when catalog is non-empty and
// the substring classifier otherwise
func NewClassifier(catalog map[string]bool, logger *slog.Logger) Classifier {
	if len(catalog) == 0 {
		return DefaultClassifier
	}
	return NewCatalogClassifier(catalog, logger)
}

func classifierOrDefault(c Classifier) Classifier {
	if c == nil {
		return DefaultClassifier
	}
	return c
}
