package service_test

import (
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/realtycall/realtycall-backend/internal/errors"
	"github.com/realtycall/realtycall-backend/internal/importer"
	"github.com/realtycall/realtycall-backend/internal/model"
	"github.com/realtycall/realtycall-backend/internal/service"
	"github.com/realtycall/realtycall-backend/internal/telephony"
)

// --- In-memory mocks ---

type memProjectRepo struct {
	projects map[int]*model.Project
}

func (m *memProjectRepo) Create(p *model.Project) error {
	p.ID = len(m.projects) + 1
	m.projects[p.ID] = p
	return nil
}

func (m *memProjectRepo) GetByID(orgID, id int) (*model.Project, error) {
	p, ok := m.projects[id]
	if !ok || p.OrgID != orgID {
		return nil, appErrors.NewProjectNotFound(id)
	}
	return p, nil
}

func (m *memProjectRepo) ListAll(orgID int) ([]model.Project, error) {
	return nil, nil
}

type memCampaignRepo struct {
	campaigns map[int]*model.Campaign
	nextID    int
}

func (m *memCampaignRepo) Create(c *model.Campaign) error {
	m.nextID++
	c.ID = m.nextID
	stored := *c
	m.campaigns[c.ID] = &stored
	return nil
}

func (m *memCampaignRepo) GetByID(orgID, id int) (*model.Campaign, error) {
	c, ok := m.campaigns[id]
	if !ok || c.OrgID != orgID {
		return nil, appErrors.NewCampaignNotFound(id)
	}
	copy := *c
	return &copy, nil
}

func (m *memCampaignRepo) Update(c *model.Campaign) error {
	if _, ok := m.campaigns[c.ID]; !ok {
		return appErrors.NewCampaignNotFound(c.ID)
	}
	stored := *c
	m.campaigns[c.ID] = &stored
	return nil
}

func (m *memCampaignRepo) UpdateStatus(orgID, campaignID int, status model.CampaignStatus) error {
	c, ok := m.campaigns[campaignID]
	if !ok {
		return appErrors.NewCampaignNotFound(campaignID)
	}
	c.Status = status
	return nil
}

func (m *memCampaignRepo) UpdateCallStats(orgID, campaignID, totalCalls, transferredCalls int, status model.CampaignStatus) error {
	c, ok := m.campaigns[campaignID]
	if !ok {
		return appErrors.NewCampaignNotFound(campaignID)
	}
	c.TotalCalls = totalCalls
	c.TransferredCalls = transferredCalls
	c.Status = status
	return nil
}

func (m *memCampaignRepo) Delete(orgID, id int) error {
	c, ok := m.campaigns[id]
	if !ok || c.OrgID != orgID {
		return appErrors.NewCampaignNotFound(id)
	}
	delete(m.campaigns, id)
	return nil
}

func (m *memCampaignRepo) ListCampaigns(orgID, offset, limit int, status string, projectID int) ([]*model.Campaign, int, error) {
	all := []*model.Campaign{}
	for _, c := range m.campaigns {
		if c.OrgID != orgID {
			continue
		}
		if status != "" && string(c.Status) != status {
			continue
		}
		if projectID > 0 && c.ProjectID != projectID {
			continue
		}
		all = append(all, c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })

	start := offset
	end := offset + limit
	if start >= len(all) {
		return []*model.Campaign{}, len(all), nil
	}
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

type memLeadRepo struct {
	leads []model.Lead

	bulkCalls      int
	bulkOrgID      int
	bulkCandidates []importer.LeadCandidate
	bulkProjectID  *int
	bulkBatchID    string
	bulkErr        error
}

func (m *memLeadRepo) List(orgID int, status, search string) ([]model.Lead, error) {
	return m.leads, nil
}

func (m *memLeadRepo) ListByProject(orgID, projectID int) ([]model.Lead, error) {
	out := []model.Lead{}
	for _, l := range m.leads {
		if l.OrgID == orgID && l.ProjectID != nil && *l.ProjectID == projectID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memLeadRepo) BulkCreate(orgID int, candidates []importer.LeadCandidate, projectID *int, batchID string) (int, error) {
	m.bulkCalls++
	m.bulkOrgID = orgID
	m.bulkCandidates = candidates
	m.bulkProjectID = projectID
	m.bulkBatchID = batchID
	if m.bulkErr != nil {
		return 0, m.bulkErr
	}
	return len(candidates), nil
}

type memCallLogRepo struct {
	logs   map[int]*model.CallLog
	nextID int
}

func (m *memCallLogRepo) Create(l *model.CallLog) error {
	m.nextID++
	l.ID = m.nextID
	stored := *l
	m.logs[l.ID] = &stored
	return nil
}

func (m *memCallLogRepo) GetByID(id int) (*model.CallLog, error) {
	l, ok := m.logs[id]
	if !ok {
		return nil, nil
	}
	copy := *l
	return &copy, nil
}

func (m *memCallLogRepo) Update(l *model.CallLog) error {
	stored := *l
	m.logs[l.ID] = &stored
	return nil
}

func (m *memCallLogRepo) StatsByCampaign(campaignID int) (map[string]int, error) {
	stats := map[string]int{}
	for _, l := range m.logs {
		if l.CampaignID == campaignID {
			stats[l.Outcome]++
		}
	}
	return stats, nil
}

// scriptedDialer replays a fixed sequence of results
type scriptedDialer struct {
	results []telephony.CallResult
	errs    []error
	calls   int
}

func (d *scriptedDialer) Call(req telephony.CallRequest) (*telephony.CallResult, error) {
	i := d.calls
	d.calls++
	if i < len(d.errs) && d.errs[i] != nil {
		return nil, d.errs[i]
	}
	if i < len(d.results) {
		r := d.results[i]
		return &r, nil
	}
	return &telephony.CallResult{Outcome: "answered"}, nil
}

type recordingQueue struct {
	published []any
}

func (q *recordingQueue) Publish(topic string, payload any) error {
	q.published = append(q.published, payload)
	return nil
}

func (q *recordingQueue) Subscribe(topic string, handler func(payload any) error) error {
	return nil
}

// --- Fixtures ---

type fixture struct {
	svc       *service.CampaignService
	campaigns *memCampaignRepo
	projects  *memProjectRepo
	leads     *memLeadRepo
	callLogs  *memCallLogRepo
	dialer    *scriptedDialer
	queue     *recordingQueue
}

func newFixture() *fixture {
	f := &fixture{
		campaigns: &memCampaignRepo{campaigns: map[int]*model.Campaign{}},
		projects:  &memProjectRepo{projects: map[int]*model.Project{}},
		leads:     &memLeadRepo{},
		callLogs:  &memCallLogRepo{logs: map[int]*model.CallLog{}},
		dialer:    &scriptedDialer{},
		queue:     &recordingQueue{},
	}
	f.projects.projects[1] = &model.Project{ID: 1, OrgID: 1, Name: "Sunrise Heights", Location: "Whitefield"}
	f.svc = &service.CampaignService{
		CampaignRepo: f.campaigns,
		ProjectRepo:  f.projects,
		LeadRepo:     f.leads,
		CallLogRepo:  f.callLogs,
		Dialer:       f.dialer,
		Queue:        f.queue,
	}
	return f
}

func validInput() service.CampaignInput {
	return service.CampaignInput{
		Name:      "Launch outreach",
		ProjectID: 1,
		StartDate: "2026-09-01",
		EndDate:   "2026-09-15",
		TimeStart: "10:00",
		TimeEnd:   "18:00",
	}
}

func intPtr(v int) *int       { return &v }
func strPtr(s string) *string { return &s }

func seedLeads(f *fixture, names ...string) {
	for i, name := range names {
		f.leads.leads = append(f.leads.leads, model.Lead{
			ID:        i + 1,
			OrgID:     1,
			Name:      name,
			Phone:     "+919876543210",
			ProjectID: intPtr(1),
			Status:    "new",
		})
	}
}

// --- Create ---

func TestCreateCampaignStartsScheduled(t *testing.T) {
	f := newFixture()

	c, err := f.svc.CreateCampaign(1, validInput())
	require.NoError(t, err)

	assert.Equal(t, model.StatusScheduled, c.Status)
	assert.Equal(t, 0, c.TotalCalls)
	assert.Equal(t, 0, c.TransferredCalls)
	assert.NotZero(t, c.ID)
}

func TestCreateCampaignValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*service.CampaignInput)
		field   string
	}{
		{"missing name", func(in *service.CampaignInput) { in.Name = "  " }, "name"},
		{"missing project", func(in *service.CampaignInput) { in.ProjectID = 0 }, "project_id"},
		{"missing start date", func(in *service.CampaignInput) { in.StartDate = "" }, "start_date"},
		{"bad start date", func(in *service.CampaignInput) { in.StartDate = "01/09/2026" }, "start_date"},
		{"end before start", func(in *service.CampaignInput) { in.EndDate = "2026-08-31" }, "end_date"},
		{"bad time format", func(in *service.CampaignInput) { in.TimeStart = "9am" }, "time_start"},
		{"time end equals start", func(in *service.CampaignInput) { in.TimeEnd = "10:00" }, "time_end"},
		{"time end before start", func(in *service.CampaignInput) { in.TimeEnd = "09:00" }, "time_end"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			in := validInput()
			tc.mutate(&in)

			_, err := f.svc.CreateCampaign(1, in)

			var validationErr *appErrors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tc.field, validationErr.Field)
			assert.Empty(t, f.campaigns.campaigns, "no partial creation")
		})
	}
}

func TestCreateCampaignUnknownProject(t *testing.T) {
	f := newFixture()
	in := validInput()
	in.ProjectID = 42

	_, err := f.svc.CreateCampaign(1, in)

	var notFound *appErrors.ErrProjectNotFound
	assert.ErrorAs(t, err, &notFound)
}

// --- Update ---

func TestUpdateCampaignMergedInvariants(t *testing.T) {
	f := newFixture()
	c, err := f.svc.CreateCampaign(1, validInput())
	require.NoError(t, err)

	// moving end_date before the stored start_date must fail on the merged record
	_, err = f.svc.UpdateCampaign(1, c.ID, service.CampaignPatch{EndDate: strPtr("2026-08-01")})

	var validationErr *appErrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "end_date", validationErr.Field)
}

func TestUpdateCampaignStatusTransitions(t *testing.T) {
	f := newFixture()
	c, err := f.svc.CreateCampaign(1, validInput())
	require.NoError(t, err)

	updated, err := f.svc.UpdateCampaign(1, c.ID, service.CampaignPatch{Status: strPtr("active")})
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, updated.Status)

	// scheduled -> completed is not a legal edge; neither is leaving a terminal state
	_, err = f.svc.UpdateCampaign(1, c.ID, service.CampaignPatch{Status: strPtr("scheduled")})
	var invalidState *appErrors.InvalidStateError
	assert.ErrorAs(t, err, &invalidState)

	_, err = f.svc.UpdateCampaign(1, c.ID, service.CampaignPatch{Status: strPtr("draft")})
	var validationErr *appErrors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestUpdateCampaignNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateCampaign(1, 99, service.CampaignPatch{Name: strPtr("x")})

	var notFound *appErrors.ErrCampaignNotFound
	assert.ErrorAs(t, err, &notFound)
}

// --- Delete ---

func TestDeleteCampaign(t *testing.T) {
	f := newFixture()
	c, err := f.svc.CreateCampaign(1, validInput())
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteCampaign(1, c.ID))

	var notFound *appErrors.ErrCampaignNotFound
	assert.ErrorAs(t, f.svc.DeleteCampaign(1, c.ID), &notFound)
}

// --- List ---

func TestListCampaignsPagination(t *testing.T) {
	f := newFixture()
	for i := 0; i < 5; i++ {
		_, err := f.svc.CreateCampaign(1, validInput())
		require.NoError(t, err)
	}

	page1, pagination1, err := f.svc.ListCampaigns(1, 1, 2, "", 0)
	require.NoError(t, err)
	page2, _, err := f.svc.ListCampaigns(1, 2, 2, "", 0)
	require.NoError(t, err)

	assert.Equal(t, 5, pagination1["total_count"])
	assert.Equal(t, 3, pagination1["total_pages"])
	require.Len(t, page1, 2)
	require.Len(t, page2, 2)

	// most-recent-first, no duplicates between pages
	assert.Greater(t, page1[0].ID, page1[1].ID)
	assert.Greater(t, page1[1].ID, page2[0].ID)

	page3, _, err := f.svc.ListCampaigns(1, 3, 2, "", 0)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}

// --- Start ---

func TestStartCampaignRejectsTerminalStates(t *testing.T) {
	for _, status := range []model.CampaignStatus{model.StatusCompleted, model.StatusCancelled} {
		f := newFixture()
		c, err := f.svc.CreateCampaign(1, validInput())
		require.NoError(t, err)
		f.campaigns.campaigns[c.ID].Status = status

		_, _, err = f.svc.StartCampaign(1, c.ID)

		var invalidState *appErrors.InvalidStateError
		require.ErrorAs(t, err, &invalidState)
		assert.Equal(t, 0, f.dialer.calls, "dialer must not be contacted for %s", status)
	}
}

func TestStartCampaignSummary(t *testing.T) {
	f := newFixture()
	seedLeads(f, "Ankit", "Priya", "Rahul", "Sneha")
	f.dialer.results = []telephony.CallResult{
		{Outcome: "answered", Transferred: true},
		{Outcome: "answered", Transferred: false},
		{Outcome: "no_answer", Transferred: false},
		{Outcome: "answered", Transferred: true},
	}

	c, err := f.svc.CreateCampaign(1, validInput())
	require.NoError(t, err)

	campaign, summary, err := f.svc.StartCampaign(1, c.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalCalls)
	assert.Equal(t, 2, summary.TransferredCalls)
	assert.Equal(t, 50, summary.ConversionRate)
	require.Len(t, summary.Calls, 4)
	assert.Equal(t, "Ankit", summary.Calls[0].LeadName)
	assert.True(t, summary.Calls[0].Transferred)
	assert.Equal(t, "no_answer", summary.Calls[2].Outcome)

	assert.Equal(t, model.StatusCompleted, campaign.Status)
	assert.Equal(t, 4, campaign.TotalCalls)
	assert.Equal(t, 2, campaign.TransferredCalls)

	// statistics persisted on the stored record too
	stored := f.campaigns.campaigns[c.ID]
	assert.Equal(t, model.StatusCompleted, stored.Status)
	assert.Equal(t, 4, stored.TotalCalls)
	assert.Len(t, f.callLogs.logs, 4)
}

func TestStartCampaignRoundsConversionRate(t *testing.T) {
	f := newFixture()
	seedLeads(f, "A", "B", "C")
	f.dialer.results = []telephony.CallResult{
		{Outcome: "answered", Transferred: true},
		{Outcome: "no_answer"},
		{Outcome: "busy"},
	}

	c, err := f.svc.CreateCampaign(1, validInput())
	require.NoError(t, err)

	_, summary, err := f.svc.StartCampaign(1, c.ID)
	require.NoError(t, err)

	assert.Equal(t, 33, summary.ConversionRate) // round(1/3*100)
}

func TestStartCampaignWithNoLeads(t *testing.T) {
	f := newFixture()

	c, err := f.svc.CreateCampaign(1, validInput())
	require.NoError(t, err)

	campaign, summary, err := f.svc.StartCampaign(1, c.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, summary.TotalCalls)
	assert.Equal(t, 0, summary.ConversionRate)
	assert.Equal(t, model.StatusCompleted, campaign.Status)
}

// vanishedCampaignRepo simulates the campaign row disappearing between the
// initial read and the status write, the way the store reports it.
type vanishedCampaignRepo struct {
	*memCampaignRepo
}

func (m *vanishedCampaignRepo) UpdateStatus(orgID, campaignID int, status model.CampaignStatus) error {
	delete(m.campaigns, campaignID)
	return appErrors.NewCampaignNotFound(campaignID)
}

func TestStartCampaignDeletedMidStart(t *testing.T) {
	f := newFixture()
	seedLeads(f, "Ankit")
	c, err := f.svc.CreateCampaign(1, validInput())
	require.NoError(t, err)
	f.svc.CampaignRepo = &vanishedCampaignRepo{f.campaigns}

	_, _, err = f.svc.StartCampaign(1, c.ID)

	var startErr *appErrors.StartCampaignError
	require.ErrorAs(t, err, &startErr)
	assert.Equal(t, 0, f.dialer.calls, "no dialing once the campaign is gone")
}

func TestStartCampaignQueuesFailedDialsForRetry(t *testing.T) {
	f := newFixture()
	seedLeads(f, "Ankit", "Priya")
	f.dialer.results = []telephony.CallResult{
		{Outcome: "answered", Transferred: true},
	}
	f.dialer.errs = []error{nil, errors.New("voice backend timeout")}

	c, err := f.svc.CreateCampaign(1, validInput())
	require.NoError(t, err)

	_, summary, err := f.svc.StartCampaign(1, c.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalCalls)
	assert.Equal(t, "failed", summary.Calls[1].Outcome)
	require.Len(t, f.queue.published, 1)

	logID := f.queue.published[0].(int)
	cl, err := f.callLogs.GetByID(logID)
	require.NoError(t, err)
	assert.Equal(t, "failed", cl.Status)
	assert.Equal(t, "voice backend timeout", cl.LastError)
}
