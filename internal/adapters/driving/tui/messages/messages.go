// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/Akashog123/textile-saas-app-sub000/internal/core/domain"
)

// QuestionAsked is sent when the user submits a question.
type QuestionAsked struct {
	Question string
}

// AnswerReceived carries the assistant's answer back to the model.
// Answer may be set together with Err when only context was retrieved.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// RefreshAcked reports the outcome of a rebuild request.
type RefreshAcked struct {
	Tenant domain.TenantID
	Ack    domain.TriggerAck
	Err    error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewChat is the transcript and prompt.
	ViewChat ViewType = iota
	// ViewMatches lists the context chunks of the last answer.
	ViewMatches
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewMatches:
		return "matches"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
