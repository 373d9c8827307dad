// internal/errors/errors.go
package appErrors

import "fmt"

// ErrCampaignNotFound is a sentinel error
type ErrCampaignNotFound struct {
	CampaignID int
}

func (e *ErrCampaignNotFound) Error() string {
	return fmt.Sprintf("campaign with ID %d not found", e.CampaignID)
}

// Helper constructor
func NewCampaignNotFound(id int) error {
	return &ErrCampaignNotFound{CampaignID: id}
}

type ErrProjectNotFound struct {
	ProjectID int
}

func (e *ErrProjectNotFound) Error() string {
	return fmt.Sprintf("project with ID %d not found", e.ProjectID)
}

func NewProjectNotFound(id int) error {
	return &ErrProjectNotFound{ProjectID: id}
}

// ValidationError carries a field-specific message; the write that raised it
// was never attempted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// InvalidStateError means the requested operation is not allowed for the
// campaign's current status.
type InvalidStateError struct {
	CampaignID int
	Status     string
	Op         string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("campaign %d cannot be %s in status %q", e.CampaignID, e.Op, e.Status)
}

// StartCampaignError wraps a failure reported by the calling collaborator.
// The campaign is unchanged from the caller's point of view.
type StartCampaignError struct {
	CampaignID int
	Message    string
}

func (e *StartCampaignError) Error() string {
	return fmt.Sprintf("start campaign %d: %s", e.CampaignID, e.Message)
}

// CollaboratorError passes a store or backend failure through verbatim.
type CollaboratorError struct {
	Op      string
	Message string
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}
