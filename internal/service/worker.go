package service

import (
	"log"

	"github.com/realtycall/realtycall-backend/internal/model"
	"github.com/realtycall/realtycall-backend/internal/telephony"
)

// CallLogStore defines the methods the retry worker needs
type CallLogStore interface {
	GetByID(id int) (*model.CallLog, error)
	Update(l *model.CallLog) error
}

// maxRetryAttempts caps how many redials a failed call log gets.
const maxRetryAttempts = 3

// RetryWorker redials failed call logs fed through its job channel
type RetryWorker struct {
	CallLogs CallLogStore
	JobChan  <-chan int
	Dialer   telephony.Dialer
}

// Constructor
func NewRetryWorker(repo CallLogStore, jobChan <-chan int, dialer telephony.Dialer) *RetryWorker {
	return &RetryWorker{
		CallLogs: repo,
		JobChan:  jobChan,
		Dialer:   dialer,
	}
}

// Retry redials one failed call log. A nil return means the job is finished:
// the call recovered, the log is gone or no longer failed, or the attempt
// limit is spent. A non-nil return means this attempt failed and the job may
// be redelivered; every failed attempt is persisted on the log's retry
// count, which is what bounds redelivery.
func (w *RetryWorker) Retry(jobID int) error {
	cl, err := w.CallLogs.GetByID(jobID)
	if err != nil {
		return err
	}
	if cl == nil || cl.Status != "failed" {
		return nil
	}
	if cl.RetryCount >= maxRetryAttempts {
		log.Println("⚠️ giving up on call log", jobID, "after", cl.RetryCount, "attempts")
		return nil
	}

	res, err := w.Dialer.Call(telephony.CallRequest{
		CampaignID: cl.CampaignID,
		LeadID:     cl.LeadID,
		LeadName:   cl.LeadName,
		Phone:      cl.Phone,
		Script:     cl.Script,
	})
	cl.RetryCount++
	if err != nil {
		cl.Status = "failed"
		cl.LastError = err.Error()
		if uerr := w.CallLogs.Update(cl); uerr != nil {
			return uerr
		}
		return err
	}

	cl.Status = "completed"
	cl.Outcome = res.Outcome
	cl.Transferred = res.Transferred
	cl.LastError = ""
	return w.CallLogs.Update(cl)
}

// Start begins processing jobs
func (w *RetryWorker) Start() {
	for jobID := range w.JobChan {
		if err := w.Retry(jobID); err != nil {
			log.Println("⚠️ call retry failed for log", jobID, ":", err)
		}
	}
}
