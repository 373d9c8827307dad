// internal/telephony/dialer.go
package telephony

import (
	"math/rand"
)

// CallRequest is one outbound dial handed to the AI voice backend.
type CallRequest struct {
	CampaignID int    `json:"campaign_id"`
	LeadID     int    `json:"lead_id"`
	LeadName   string `json:"lead_name"`
	Phone      string `json:"phone"`
	Script     string `json:"script"`
}

type CallResult struct {
	Outcome     string `json:"outcome"` // answered, no_answer, busy, voicemail, declined
	Transferred bool   `json:"transferred"`
	DurationSec int    `json:"duration_sec"`
}

// Dialer is the external calling collaborator. One Call is one synchronous
// request/response; retry policy lives with the caller.
type Dialer interface {
	Call(req CallRequest) (*CallResult, error)
}

//////////////////////////
// Example Mock Dialer  //
//////////////////////////

var mockOutcomes = []string{"answered", "answered", "answered", "no_answer", "busy", "voicemail", "declined"}

// MockDialer simulates the voice backend for local runs and tests.
// Roughly 40% of answered calls transfer to a human agent.
type MockDialer struct{}

func (d *MockDialer) Call(req CallRequest) (*CallResult, error) {
	outcome := mockOutcomes[rand.Intn(len(mockOutcomes))]
	transferred := outcome == "answered" && rand.Intn(100) < 40
	duration := 0
	if outcome == "answered" {
		duration = 30 + rand.Intn(240)
	}
	return &CallResult{
		Outcome:     outcome,
		Transferred: transferred,
		DurationSec: duration,
	}, nil
}

var _ Dialer = (*MockDialer)(nil)
