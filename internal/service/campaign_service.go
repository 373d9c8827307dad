// internal/service/campaign_service.go
package service

import (
	"log"
	"math"
	"regexp"
	"strings"
	"time"

	appErrors "github.com/realtycall/realtycall-backend/internal/errors"
	"github.com/realtycall/realtycall-backend/internal/model"
	"github.com/realtycall/realtycall-backend/internal/queue"
	"github.com/realtycall/realtycall-backend/internal/repository"
	"github.com/realtycall/realtycall-backend/internal/telephony"
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	ProjectRepo  repository.ProjectRepositoryInterface
	LeadRepo     repository.LeadRepositoryInterface
	CallLogRepo  repository.CallLogRepositoryInterface
	Dialer       telephony.Dialer
	Queue        queue.Queue
}

// CampaignInput is the create payload. Dates are YYYY-MM-DD, times HH:MM.
type CampaignInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ProjectID   int    `json:"project_id"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	TimeStart   string `json:"time_start"`
	TimeEnd     string `json:"time_end"`
	CallScript  string `json:"call_script"`
}

// CampaignPatch is the partial update payload; nil fields are left as-is.
type CampaignPatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ProjectID   *int    `json:"project_id"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
	TimeStart   *string `json:"time_start"`
	TimeEnd     *string `json:"time_end"`
	CallScript  *string `json:"call_script"`
	Status      *string `json:"status"`
}

type CallOutcome struct {
	LeadName    string `json:"lead_name"`
	Outcome     string `json:"outcome"`
	Transferred bool   `json:"transferred"`
}

type CallSummary struct {
	TotalCalls       int           `json:"total_calls"`
	TransferredCalls int           `json:"transferred_calls"`
	ConversionRate   int           `json:"conversion_rate"` // integer percentage
	Calls            []CallOutcome `json:"calls"`
}

type CampaignDetails struct {
	ID               int                  `json:"id"`
	Name             string               `json:"name"`
	Description      string               `json:"description,omitempty"`
	ProjectID        int                  `json:"project_id"`
	Status           model.CampaignStatus `json:"status"`
	StartDate        time.Time            `json:"start_date"`
	EndDate          time.Time            `json:"end_date"`
	TimeStart        string               `json:"time_start"`
	TimeEnd          string               `json:"time_end"`
	TotalCalls       int                  `json:"total_calls"`
	TransferredCalls int                  `json:"transferred_calls"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        *time.Time           `json:"updated_at"`
	Stats            map[string]int       `json:"stats"`
}

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

const dateLayout = "2006-01-02"

func parseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, appErrors.NewValidation(field, "must be a valid date (YYYY-MM-DD)")
	}
	return t, nil
}

// validateWindow re-checks the ordering invariants on a full record:
// end_date >= start_date, time_end strictly after time_start. Zero-padded
// 24h HH:MM strings compare correctly as strings.
func validateWindow(startDate, endDate time.Time, timeStart, timeEnd string) error {
	if endDate.Before(startDate) {
		return appErrors.NewValidation("end_date", "must not be before start_date")
	}
	if !timePattern.MatchString(timeStart) {
		return appErrors.NewValidation("time_start", "must be a valid time (HH:MM)")
	}
	if !timePattern.MatchString(timeEnd) {
		return appErrors.NewValidation("time_end", "must be a valid time (HH:MM)")
	}
	if timeEnd <= timeStart {
		return appErrors.NewValidation("time_end", "must be after time_start")
	}
	return nil
}

// CreateCampaign validates the input and creates the campaign as scheduled
// with zero call statistics. No partial creation on validation failure.
func (s *CampaignService) CreateCampaign(orgID int, in CampaignInput) (*model.Campaign, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, appErrors.NewValidation("name", "is required")
	}
	if in.ProjectID == 0 {
		return nil, appErrors.NewValidation("project_id", "is required")
	}
	for field, v := range map[string]string{
		"start_date": in.StartDate,
		"end_date":   in.EndDate,
		"time_start": in.TimeStart,
		"time_end":   in.TimeEnd,
	} {
		if strings.TrimSpace(v) == "" {
			return nil, appErrors.NewValidation(field, "is required")
		}
	}

	startDate, err := parseDate("start_date", in.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDate("end_date", in.EndDate)
	if err != nil {
		return nil, err
	}
	if err := validateWindow(startDate, endDate, in.TimeStart, in.TimeEnd); err != nil {
		return nil, err
	}

	if _, err := s.ProjectRepo.GetByID(orgID, in.ProjectID); err != nil {
		return nil, err
	}

	c := &model.Campaign{
		OrgID:       orgID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ProjectID:   in.ProjectID,
		Status:      model.StatusScheduled,
		StartDate:   startDate,
		EndDate:     endDate,
		TimeStart:   in.TimeStart,
		TimeEnd:     in.TimeEnd,
		CallScript:  in.CallScript,
	}
	if err := s.CampaignRepo.Create(c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCampaign merges the patch into the stored record and re-checks the
// window invariants on the result. A status override must be a legal
// lifecycle transition from the current status.
func (s *CampaignService) UpdateCampaign(orgID, id int, patch CampaignPatch) (*model.Campaign, error) {
	c, err := s.CampaignRepo.GetByID(orgID, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, appErrors.NewValidation("name", "is required")
		}
		c.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.ProjectID != nil {
		if _, err := s.ProjectRepo.GetByID(orgID, *patch.ProjectID); err != nil {
			return nil, err
		}
		c.ProjectID = *patch.ProjectID
	}
	if patch.StartDate != nil {
		t, err := parseDate("start_date", *patch.StartDate)
		if err != nil {
			return nil, err
		}
		c.StartDate = t
	}
	if patch.EndDate != nil {
		t, err := parseDate("end_date", *patch.EndDate)
		if err != nil {
			return nil, err
		}
		c.EndDate = t
	}
	if patch.TimeStart != nil {
		c.TimeStart = *patch.TimeStart
	}
	if patch.TimeEnd != nil {
		c.TimeEnd = *patch.TimeEnd
	}
	if patch.CallScript != nil {
		c.CallScript = *patch.CallScript
	}
	if patch.Status != nil {
		next := model.CampaignStatus(*patch.Status)
		if !model.IsValidStatus(next) {
			return nil, appErrors.NewValidation("status", "is not a known campaign status")
		}
		if next != c.Status {
			if !model.CanTransition(c.Status, next) {
				return nil, &appErrors.InvalidStateError{
					CampaignID: id,
					Status:     string(c.Status),
					Op:         "moved to " + string(next),
				}
			}
			c.Status = next
		}
	}

	if err := validateWindow(c.StartDate, c.EndDate, c.TimeStart, c.TimeEnd); err != nil {
		return nil, err
	}

	if err := s.CampaignRepo.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCampaign is irreversible. The caller must have obtained explicit
// user confirmation before invoking it. Store errors (including referential
// constraint failures) are surfaced verbatim.
func (s *CampaignService) DeleteCampaign(orgID, id int) error {
	return s.CampaignRepo.Delete(orgID, id)
}

// ListCampaigns fetches campaigns with pagination, most-recent-first
func (s *CampaignService) ListCampaigns(orgID, page, pageSize int, status string, projectID int) ([]model.Campaign, map[string]int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	offset := (page - 1) * pageSize

	ptrs, total, err := s.CampaignRepo.ListCampaigns(orgID, offset, pageSize, status, projectID)
	if err != nil {
		return nil, nil, err
	}

	campaigns := make([]model.Campaign, len(ptrs))
	for i, c := range ptrs {
		campaigns[i] = *c
	}

	totalPages := (total + pageSize - 1) / pageSize
	pagination := map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}

	return campaigns, pagination, nil
}

// GetCampaignDetailsWithStats fetches a campaign plus per-outcome call counts
func (s *CampaignService) GetCampaignDetailsWithStats(orgID, campaignID int) (*CampaignDetails, error) {
	campaign, err := s.CampaignRepo.GetByID(orgID, campaignID)
	if err != nil {
		return nil, err
	}

	stats, err := s.CallLogRepo.StatsByCampaign(campaignID)
	if err != nil {
		return nil, err
	}
	total := 0
	for _, count := range stats {
		total += count
	}
	stats["total"] = total

	return &CampaignDetails{
		ID:               campaign.ID,
		Name:             campaign.Name,
		Description:      campaign.Description,
		ProjectID:        campaign.ProjectID,
		Status:           campaign.Status,
		StartDate:        campaign.StartDate,
		EndDate:          campaign.EndDate,
		TimeStart:        campaign.TimeStart,
		TimeEnd:          campaign.TimeEnd,
		TotalCalls:       campaign.TotalCalls,
		TransferredCalls: campaign.TransferredCalls,
		CreatedAt:        campaign.CreatedAt,
		UpdatedAt:        campaign.UpdatedAt,
		Stats:            stats,
	}, nil
}

// StartCampaign dials every lead of the campaign's project through the
// voice backend and records one call log per lead. Terminal campaigns are
// rejected before the backend is contacted. Per-call dial failures are
// recorded with outcome "failed" and queued for retry; they do not abort the
// run. The service does not guard concurrent starts of the same campaign —
// the caller is expected to serialize them.
func (s *CampaignService) StartCampaign(orgID, id int) (*model.Campaign, *CallSummary, error) {
	c, err := s.CampaignRepo.GetByID(orgID, id)
	if err != nil {
		return nil, nil, err
	}
	if model.IsTerminal(c.Status) {
		return nil, nil, &appErrors.InvalidStateError{
			CampaignID: id,
			Status:     string(c.Status),
			Op:         "started",
		}
	}

	project, err := s.ProjectRepo.GetByID(orgID, c.ProjectID)
	if err != nil {
		return nil, nil, startFailed(id, err)
	}
	leads, err := s.LeadRepo.ListByProject(orgID, c.ProjectID)
	if err != nil {
		return nil, nil, startFailed(id, err)
	}

	if c.Status != model.StatusActive {
		if err := s.CampaignRepo.UpdateStatus(orgID, id, model.StatusActive); err != nil {
			return nil, nil, startFailed(id, err)
		}
		c.Status = model.StatusActive
	}

	summary := &CallSummary{Calls: []CallOutcome{}}
	for _, lead := range leads {
		script := RenderCallScript(c.CallScript, lead, project)
		cl := &model.CallLog{
			CampaignID: id,
			LeadID:     lead.ID,
			LeadName:   lead.Name,
			Phone:      lead.Phone,
			Status:     "pending",
			Script:     script,
		}
		if err := s.CallLogRepo.Create(cl); err != nil {
			log.Println("⚠️ failed to create call log for lead", lead.ID, ":", err)
			continue
		}

		res, err := s.Dialer.Call(telephony.CallRequest{
			CampaignID: id,
			LeadID:     lead.ID,
			LeadName:   lead.Name,
			Phone:      lead.Phone,
			Script:     script,
		})
		if err != nil {
			log.Println("⚠️ dial failed for lead", lead.ID, ":", err)
			cl.Status = "failed"
			cl.Outcome = "failed"
			cl.LastError = err.Error()
			if uerr := s.CallLogRepo.Update(cl); uerr != nil {
				log.Println("⚠️ failed to update call log:", uerr)
			}
			if s.Queue != nil {
				if qerr := s.Queue.Publish("call_retries", cl.ID); qerr != nil {
					log.Println("⚠️ failed to enqueue call retry for log", cl.ID, ":", qerr)
				}
			}
		} else {
			cl.Status = "completed"
			cl.Outcome = res.Outcome
			cl.Transferred = res.Transferred
			if uerr := s.CallLogRepo.Update(cl); uerr != nil {
				log.Println("⚠️ failed to update call log:", uerr)
			}
		}

		summary.Calls = append(summary.Calls, CallOutcome{
			LeadName:    lead.Name,
			Outcome:     cl.Outcome,
			Transferred: cl.Transferred,
		})
		summary.TotalCalls++
		if cl.Transferred {
			summary.TransferredCalls++
		}
	}
	summary.ConversionRate = conversionRate(summary.TransferredCalls, summary.TotalCalls)

	if err := s.CampaignRepo.UpdateCallStats(orgID, id, summary.TotalCalls, summary.TransferredCalls, model.StatusCompleted); err != nil {
		return nil, nil, startFailed(id, err)
	}
	c.Status = model.StatusCompleted
	c.TotalCalls = summary.TotalCalls
	c.TransferredCalls = summary.TransferredCalls

	return c, summary, nil
}

func conversionRate(transferred, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(transferred) / float64(total) * 100))
}

func startFailed(id int, err error) error {
	return &appErrors.StartCampaignError{CampaignID: id, Message: err.Error()}
}
