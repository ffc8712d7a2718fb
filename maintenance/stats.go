package maintenance

import (
	"math"
	"time"
)

// Stats summarises a request set for a dashboard.
type Stats struct {
	TotalRequests        int `json:"total_requests"`
	PendingRequests      int `json:"pending_requests"`
	InProgressRequests   int `json:"in_progress_requests"`
	CompletedRequests    int `json:"completed_requests"`
	HighPriorityRequests int `json:"high_priority_requests"`

	// AverageResolutionTime is in whole hours; 0 when nothing is completed.
	AverageResolutionTime int `json:"average_resolution_time"`
}

// ComputeStats derives dashboard statistics from requests. A completed request
// with no CompletedAt is measured up to now.
func ComputeStats(requests []Request, now time.Time) Stats {
	var (
		s     Stats
		hours float64
	)

	s.TotalRequests = len(requests)

	for _, r := range requests {
		switch r.Status {
		case StatusPending:
			s.PendingRequests++
		case StatusInProgress:
			s.InProgressRequests++
		case StatusCompleted:
			s.CompletedRequests++

			end := now
			if r.CompletedAt != nil {
				end = *r.CompletedAt
			}

			hours += end.Sub(r.CreatedAt).Hours()
		}

		if r.Priority == PriorityHigh || r.Priority == PriorityEmergency {
			s.HighPriorityRequests++
		}
	}

	if s.CompletedRequests > 0 {
		avg := hours / float64(s.CompletedRequests)
		s.AverageResolutionTime = int(math.Round(avg))
	}

	return s
}
