package state

import "time"

// RunRecord is the immutable snapshot handed to the persistence layer at the
// end of a run, successful or not.
type RunRecord struct {
	RunID     string    `json:"run_id"`
	TicketID  string    `json:"ticket_id,omitempty"`
	Input     Input     `json:"input_payload"`
	Final     Payload   `json:"final_payload"`
	Log       []string  `json:"log"`
	CreatedAt time.Time `json:"created_at"`
}

// Record snapshots the current state into a RunRecord. The payload and log
// are deep-copied so later mutation of the run cannot reach the record.
func (s *RunState) Record() *RunRecord {
	return &RunRecord{
		RunID:     s.RunID,
		TicketID:  s.Payload.TicketID,
		Input:     s.input,
		Final:     s.Payload.Clone(),
		Log:       s.Log(),
		CreatedAt: time.Now().UTC(),
	}
}
