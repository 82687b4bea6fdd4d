package datarecording

import "github.com/sarchlab/neurosim/sim/storage"

// Tables written by a FrameRecorder.
const (
	RunTable     = "runs"
	ChannelTable = "channels"
	SampleTable  = "samples"
)

// Run describes a recorded evaluation.
type Run struct {
	ID      string
	Model   string
	Status  string
	Fitness float64
	SimTime float64
	Steps   int
}

// Channel names one column of a run's frames.
type Channel struct {
	RunID  string
	Number int
	Label  string
}

// Sample is one value of one frame.
type Sample struct {
	RunID   string
	Frame   int
	Time    float64
	Channel int
	Value   float64
}

// FrameRecorder writes the frames of evaluations.
type FrameRecorder struct {
	recorder DataRecorder
}

// NewFrameRecorder creates the run, channel and sample tables.
func NewFrameRecorder(recorder DataRecorder) *FrameRecorder {
	recorder.CreateTable(RunTable, Run{})
	recorder.CreateTable(ChannelTable, Channel{})
	recorder.CreateTable(SampleTable, Sample{})

	return &FrameRecorder{recorder: recorder}
}

// RecordRun writes a run and its frames. Data may be nil.
func (r *FrameRecorder) RecordRun(run Run, data *storage.Storage) {
	r.recorder.InsertData(RunTable, run)

	if data == nil {
		return
	}

	for i, label := range data.Labels() {
		r.recorder.InsertData(ChannelTable, Channel{run.ID, i, label})
	}

	for fi := 0; fi < data.FrameCount(); fi++ {
		f := data.Frame(fi)

		for ch, v := range f.Values() {
			r.recorder.InsertData(SampleTable, Sample{
				RunID:   run.ID,
				Frame:   fi,
				Time:    float64(f.Time()),
				Channel: ch,
				Value:   v,
			})
		}
	}
}

// Flush writes everything that is buffered.
func (r *FrameRecorder) Flush() {
	r.recorder.Flush()
}
