package model

import "time"

// ProgressEntry is one stage on the order timeline. CompletedAt is empty while
// the stage is pending.
type ProgressEntry struct {
	Stage       OrderStatus `json:"stage"`
	CompletedAt string      `json:"completedAt"`
}

// StepState is how a timeline stage is rendered.
type StepState string

const (
	StepCompleted StepState = "completed"
	StepCurrent   StepState = "current"
	StepPending   StepState = "pending"
)

// OrderProgress is the tracker view of an order timeline.
type OrderProgress struct {
	OrderID      string          `json:"orderId"`
	CurrentIndex int             `json:"currentIndex"`
	CurrentStage OrderStatus     `json:"currentStage"`
	Steps        []ProgressStep  `json:"steps"`
	Progress     []ProgressEntry `json:"progress"`
}

// ProgressStep pairs a stage with its render state.
type ProgressStep struct {
	Stage       OrderStatus `json:"stage"`
	State       StepState   `json:"state"`
	CompletedAt string      `json:"completedAt,omitempty"`
}

// NewProgress returns the five-stage timeline with only Order Placed stamped.
func NewProgress(now time.Time) []ProgressEntry {
	progress := make([]ProgressEntry, len(ProgressStages))
	for i, stage := range ProgressStages {
		progress[i] = ProgressEntry{Stage: stage}
	}
	progress[0].CompletedAt = now.UTC().Format(time.RFC3339)
	return progress
}

// CurrentStageIndex scans from the end and returns the index of the last
// stamped stage, or 0 when nothing is stamped.
func CurrentStageIndex(progress []ProgressEntry) int {
	for i := len(progress) - 1; i >= 0; i-- {
		if progress[i].CompletedAt != "" {
			return i
		}
	}
	return 0
}

// StepStates renders every stage relative to the current one.
func StepStates(progress []ProgressEntry) []ProgressStep {
	current := CurrentStageIndex(progress)
	steps := make([]ProgressStep, len(progress))
	for i, entry := range progress {
		state := StepPending
		switch {
		case i < current:
			state = StepCompleted
		case i == current:
			state = StepCurrent
		}
		steps[i] = ProgressStep{Stage: entry.Stage, State: state, CompletedAt: entry.CompletedAt}
	}
	return steps
}

// TrackProgress builds the tracker view of an order.
func TrackProgress(order *Order) *OrderProgress {
	idx := CurrentStageIndex(order.Progress)
	var stage OrderStatus
	if idx < len(order.Progress) {
		stage = order.Progress[idx].Stage
	}
	return &OrderProgress{
		OrderID:      order.OrderID,
		CurrentIndex: idx,
		CurrentStage: stage,
		Steps:        StepStates(order.Progress),
		Progress:     order.Progress,
	}
}
