package tasks

import (
	"fmt"

	"github.com/desertthunder/tvx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchPage Phase = iota
	CachePage
	FetchDetails
	SyncPages
)

func (p Phase) String() string {
	switch p {
	case FetchPage:
		return "fetch_page"
	case CachePage:
		return "cache_page"
	case FetchDetails:
		return "fetch_details"
	case SyncPages:
		return "sync_pages"
	default:
		return ""
	}
}

func fetchPageUpdate(page int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPage,
		Step:    1,
		Total:   2,
		Message: fmt.Sprintf("Fetching shows page %d from TVmaze...", page),
	}
}

func cachePageUpdate(page int, shows []models.Show) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CachePage,
		Step:    2,
		Total:   2,
		Message: fmt.Sprintf("Cached %d shows from page %d", len(shows), page),
		Data:    shows,
	}
}

func fetchDetailsUpdate(id int, cached bool) ProgressUpdate {
	msg := fmt.Sprintf("Fetching details for show %d...", id)
	if cached {
		msg = fmt.Sprintf("Show %d details served from cache", id)
	}
	return ProgressUpdate{Phase: FetchDetails, Step: 1, Total: 1, Message: msg}
}

func syncStartedUpdate(from, to int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SyncPages,
		Step:    0,
		Total:   to - from + 1,
		Message: fmt.Sprintf("Syncing pages %d-%d...", from, to),
	}
}

func syncPageUpdate(step, total int, res PageResult) ProgressUpdate {
	var msg string
	switch {
	case res.End:
		msg = fmt.Sprintf("[%d/%d] page %d: end of index", step, total, res.Page)
	case res.Error != nil:
		msg = fmt.Sprintf("[%d/%d] ✗ page %d: %v", step, total, res.Page, res.Error)
	default:
		msg = fmt.Sprintf("[%d/%d] ✓ page %d (%d shows)", step, total, res.Page, res.Count)
	}
	return ProgressUpdate{Phase: SyncPages, Step: step, Total: total, Message: msg, Data: res}
}
