package dispatch

// Progress statuses besides the OutcomeStatus values.
const (
	StatusBegin   = "begin"
	StatusStarted = "started"
)

// ProgressEvent is a status update from a running action.
type ProgressEvent struct {
	// Action and TaskIDs are set on the begin event only.
	Action  string
	TaskIDs []string

	TaskID  string
	Status  string // "begin", "started", or an OutcomeStatus
	Message string
}

// Reporter receives progress while an action runs.
type Reporter interface {
	// Begin announces the action and the tasks it will process.
	Begin(action string, taskIDs []string)

	// Report delivers one progress event.
	Report(ev ProgressEvent)
}

// ChannelReporter forwards progress to a channel, for the terminal UI.
type ChannelReporter struct {
	Events chan<- ProgressEvent
}

// Begin sends the begin event.
func (r *ChannelReporter) Begin(action string, taskIDs []string) {
	r.Events <- ProgressEvent{Action: action, TaskIDs: taskIDs, Status: StatusBegin}
}

// Report sends the event.
func (r *ChannelReporter) Report(ev ProgressEvent) {
	r.Events <- ev
}
