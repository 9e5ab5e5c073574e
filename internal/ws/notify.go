package ws

import (
	"encoding/json"
	"time"

	"skill-match/internal/domain/ranking"
)

const notifyTopN = 10

type RankingEntry struct {
	CandidateID  string  `json:"candidate_id"`
	OverallScore float64 `json:"overall_score"`
	Position     int     `json:"position"`
}

type RankingsUpdatedEvent struct {
	Type      string         `json:"type"`
	JobID     string         `json:"job_id"`
	Total     int            `json:"total"`
	Top       []RankingEntry `json:"top"`
	Timestamp string         `json:"timestamp"`
}

type Notifier struct {
	hub *Hub
	now func() time.Time
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub, now: time.Now}
}

func (n *Notifier) NotifyRankingsUpdated(jobID string, rankings []ranking.Ranking) {
	if n == nil || n.hub == nil || jobID == "" {
		return
	}
	evt := RankingsUpdatedEvent{
		Type:      "rankings_updated",
		JobID:     jobID,
		Total:     len(rankings),
		Top:       make([]RankingEntry, 0, min(len(rankings), notifyTopN)),
		Timestamp: n.now().UTC().Format(time.RFC3339),
	}
	for i, r := range rankings {
		if i == notifyTopN {
			break
		}
		evt.Top = append(evt.Top, RankingEntry{CandidateID: r.CandidateID, OverallScore: r.OverallScore, Position: r.Position})
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.Broadcast(jobID, b)
}
