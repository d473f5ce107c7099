// Package interaction provides the append-only activity log each pipeline
// stage writes to. Entries are read back only when the session record is
// assembled; scoring never consults them.
package interaction

import (
	"sync"
	"time"

	"github.com/mapr-agent/recommender/internal/model"
)

type Recorder struct {
	agentID string
	mu      sync.Mutex
	entries []model.Interaction
}

func NewRecorder(agentID string) *Recorder {
	return &Recorder{agentID: agentID}
}

func (r *Recorder) AgentID() string {
	return r.agentID
}

func (r *Recorder) Log(message string, data map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, model.Interaction{
		AgentID:   r.agentID,
		Message:   message,
		Timestamp: time.Now(),
		Data:      data,
	})
}

// Entries returns a copy; callers cannot mutate the log.
func (r *Recorder) Entries() []model.Interaction {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Interaction, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
