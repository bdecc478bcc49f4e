package tui

// submitDoneMsg is sent when Controller.Submit returns
type submitDoneMsg struct {
	err error
}
