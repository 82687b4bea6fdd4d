package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/neurosim/evaluation"
	"github.com/sarchlab/neurosim/sim"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	sync.Mutex
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
	Failed     uint64    `json:"failed"`
}

// IncrementInProgress adds the number of in-progress element.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress += amount
}

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// MoveInProgressToFinished reduces the number of in progress item by a certain
// amount and increase the finished item by the same amount.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress -= amount
	b.Finished += amount
}

type progressSnapshot struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
	Failed     uint64    `json:"failed"`
}

func (b *ProgressBar) snapshot() progressSnapshot {
	b.Lock()
	defer b.Unlock()

	return progressSnapshot{
		ID:         b.ID,
		Name:       b.Name,
		StartTime:  b.StartTime,
		Total:      b.Total,
		Finished:   b.Finished,
		InProgress: b.InProgress,
		Failed:     b.Failed,
	}
}

// ProgressHook moves a progress bar as evaluations start and end.
type ProgressHook struct {
	bar *ProgressBar
}

// NewProgressHook creates a hook that updates bar.
func NewProgressHook(bar *ProgressBar) *ProgressHook {
	return &ProgressHook{bar: bar}
}

// Func updates the bar.
func (h *ProgressHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case evaluation.HookPosRunStart:
		h.bar.IncrementInProgress(1)
	case evaluation.HookPosRunEnd:
		h.bar.MoveInProgressToFinished(1)

		if res, ok := ctx.Item.(evaluation.Result); ok && res.Failed() {
			h.bar.Lock()
			h.bar.Failed++
			h.bar.Unlock()
		}
	}
}
