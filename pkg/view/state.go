package view

import (
	"encoding/json"
	"fmt"

	"github.com/rubiojr/ofertas/pkg/deals"
)

// LoadingState is the active state of a Controller.
type LoadingState int

const (
	Idle LoadingState = iota
	Loading
	Success
	Error
)

func (s LoadingState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("LoadingState(%d)", int(s))
	}
}

// MarshalJSON encodes the state as its lowercase name.
func (s LoadingState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// State is a snapshot of a Controller.
type State struct {
	State    LoadingState        `json:"state"`
	SearchID string              `json:"search_id,omitempty"`
	Query    string              `json:"query,omitempty"`
	Result   *deals.SearchResult `json:"result,omitempty"`
	// Message is the user facing error text, set only in the Error state.
	Message string `json:"message,omitempty"`
}

// Accepting reports whether submissions and quick categories are enabled.
func (s State) Accepting() bool {
	return s.State != Loading
}
