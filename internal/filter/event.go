// Package filter selects feed events for display.
package filter

import (
	"path/filepath"
	"strings"

	"github.com/dyluth/factorydash/internal/feed"
)

// Criteria defines filtering criteria for feed events.
// All filters are ANDed together - an event must match ALL criteria to pass.
type Criteria struct {
	TypeGlob string // Glob pattern for the event type, empty = no filter
	Contains string // Case-insensitive substring of a bot question or reply, empty = no filter
}

// Matches returns true if the event matches all filter criteria.
// Empty criteria values are treated as "match all" for that criterion.
func (c *Criteria) Matches(e *feed.Event) bool {
	if c.TypeGlob != "" {
		matched, err := filepath.Match(c.TypeGlob, string(e.Type))
		if err != nil || !matched {
			return false
		}
	}

	if c.Contains != "" {
		// Only bot exchanges carry text
		if e.Bot == nil {
			return false
		}
		needle := strings.ToLower(c.Contains)
		if !strings.Contains(strings.ToLower(e.Bot.Question), needle) &&
			!strings.Contains(strings.ToLower(e.Bot.Reply.Message), needle) {
			return false
		}
	}

	return true
}

// HasFilters returns true if any filters are active.
func (c *Criteria) HasFilters() bool {
	return c.TypeGlob != "" || c.Contains != ""
}
