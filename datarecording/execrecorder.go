package datarecording

import (
	"os"
	"strings"
	"time"
)

const execTable = "exec_info"

// ExecInfo is one property of a program execution.
type ExecInfo struct {
	Property string
	Value    string
}

// ExecRecorder records how the program was run.
type ExecRecorder struct {
	recorder DataRecorder
	entries  []ExecInfo
}

// NewExecRecorder creates the exec_info table in the recorder.
func NewExecRecorder(recorder DataRecorder) *ExecRecorder {
	recorder.CreateTable(execTable, ExecInfo{})

	return &ExecRecorder{recorder: recorder}
}

// Start logs the start time, the command and the working directory.
func (e *ExecRecorder) Start() {
	e.Set("Start Time", time.Now().Format(time.RFC3339Nano))
	e.Set("Command", strings.Join(os.Args, " "))

	cwd, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	e.Set("Working Directory", cwd)
}

// Set adds a property, such as the scenario file.
func (e *ExecRecorder) Set(property, value string) {
	e.entries = append(e.entries, ExecInfo{property, value})
}

// End writes the properties along with the end time.
func (e *ExecRecorder) End() {
	e.Set("End Time", time.Now().Format(time.RFC3339Nano))

	for _, entry := range e.entries {
		e.recorder.InsertData(execTable, entry)
	}

	e.entries = nil

	e.recorder.Flush()
}
