package controller

import "github.com/yourusername/savevid-go/internal/domain"

// RequestState is the state of the form's single request slot
type RequestState int

const (
	StateIdle RequestState = iota
	StateLoading
	StateSuccess
	StateError
)

// String returns the string representation of RequestState
func (s RequestState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "invalid"
	}
}

// Panel is the one region visible below the form
type Panel int

const (
	PanelNone Panel = iota
	PanelLoading
	PanelResult
)

// PanelFor derives the visible panel from the request state
func PanelFor(state RequestState) Panel {
	switch state {
	case StateLoading:
		return PanelLoading
	case StateSuccess, StateError:
		return PanelResult
	default:
		return PanelNone
	}
}

// Screen is a snapshot of everything a front end needs to draw the form
type Screen struct {
	ActivePlatform domain.Platform
	Placeholder    string
	URL            string
	State          RequestState
	Panel          Panel
	SubmitEnabled  bool
	Result         *Result // nil unless Panel is PanelResult
}
