package service_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realtycall/realtycall-backend/internal/model"
	"github.com/realtycall/realtycall-backend/internal/service"
	"github.com/realtycall/realtycall-backend/internal/telephony"
)

type retryLogStore struct {
	mu   sync.Mutex
	logs map[int]*model.CallLog
	wg   *sync.WaitGroup
}

func (s *retryLogStore) GetByID(id int) (*model.CallLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cl, ok := s.logs[id]
	if !ok {
		return nil, nil
	}
	copy := *cl
	return &copy, nil
}

func (s *retryLogStore) Update(cl *model.CallLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *cl
	s.logs[cl.ID] = &stored
	if s.wg != nil {
		s.wg.Done()
	}
	return nil
}

func (s *retryLogStore) get(id int) model.CallLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.logs[id]
}

type fixedDialer struct {
	result *telephony.CallResult
	err    error
	calls  int
}

func (d *fixedDialer) Call(req telephony.CallRequest) (*telephony.CallResult, error) {
	d.calls++
	return d.result, d.err
}

func TestRetryWorkerCompletesFailedCall(t *testing.T) {
	var wg sync.WaitGroup
	store := &retryLogStore{
		logs: map[int]*model.CallLog{
			1: {ID: 1, CampaignID: 3, LeadID: 9, LeadName: "Ankit", Phone: "+919876543210", Status: "failed", LastError: "line busy"},
		},
		wg: &wg,
	}
	dialer := &fixedDialer{result: &telephony.CallResult{Outcome: "answered", Transferred: true}}

	jobChan := make(chan int, 1)
	worker := service.NewRetryWorker(store, jobChan, dialer)
	go worker.Start()

	wg.Add(1)
	jobChan <- 1
	wg.Wait()
	close(jobChan)

	cl := store.get(1)
	assert.Equal(t, "completed", cl.Status)
	assert.Equal(t, "answered", cl.Outcome)
	assert.True(t, cl.Transferred)
	assert.Equal(t, 1, cl.RetryCount)
	assert.Empty(t, cl.LastError)
}

func TestRetryWorkerRecordsRepeatedFailure(t *testing.T) {
	var wg sync.WaitGroup
	store := &retryLogStore{
		logs: map[int]*model.CallLog{
			7: {ID: 7, Status: "failed", LastError: "line busy", RetryCount: 1},
		},
		wg: &wg,
	}
	dialer := &fixedDialer{err: errors.New("carrier timeout")}

	jobChan := make(chan int, 1)
	worker := service.NewRetryWorker(store, jobChan, dialer)
	go worker.Start()

	wg.Add(1)
	jobChan <- 7
	wg.Wait()
	close(jobChan)

	cl := store.get(7)
	require.Equal(t, "failed", cl.Status)
	assert.Equal(t, "carrier timeout", cl.LastError)
	assert.Equal(t, 2, cl.RetryCount)
}

func TestRetryWorkerGivesUpAfterAttemptLimit(t *testing.T) {
	store := &retryLogStore{
		logs: map[int]*model.CallLog{
			5: {ID: 5, Status: "failed", LastError: "carrier timeout", RetryCount: 3},
		},
	}
	dialer := &fixedDialer{err: errors.New("carrier timeout")}
	worker := service.NewRetryWorker(store, nil, dialer)

	require.NoError(t, worker.Retry(5))

	assert.Equal(t, 0, dialer.calls, "spent logs must not be redialed")
	cl := store.get(5)
	assert.Equal(t, "failed", cl.Status)
	assert.Equal(t, 3, cl.RetryCount)
}

func TestRetryWorkerSkipsRecoveredCalls(t *testing.T) {
	store := &retryLogStore{
		logs: map[int]*model.CallLog{
			9: {ID: 9, Status: "completed", Outcome: "answered"},
		},
	}
	dialer := &fixedDialer{result: &telephony.CallResult{Outcome: "answered"}}
	worker := service.NewRetryWorker(store, nil, dialer)

	require.NoError(t, worker.Retry(9))
	assert.Equal(t, 0, dialer.calls)
}

// A persistently failing call is redelivered at most maxRetryAttempts times:
// each failed attempt bumps the persisted retry count, and once the limit is
// spent Retry reports the job finished so it gets acked instead of requeued.
func TestRetryWorkerBoundsRedelivery(t *testing.T) {
	store := &retryLogStore{
		logs: map[int]*model.CallLog{
			2: {ID: 2, Status: "failed", LastError: "line busy"},
		},
	}
	dialer := &fixedDialer{err: errors.New("line busy")}
	worker := service.NewRetryWorker(store, nil, dialer)

	for i := 1; i <= 3; i++ {
		require.Error(t, worker.Retry(2), "attempt %d should report failure for requeue", i)
		assert.Equal(t, i, store.get(2).RetryCount)
	}

	// fourth delivery: limit spent, job is done
	require.NoError(t, worker.Retry(2))
	assert.Equal(t, 3, dialer.calls)
	assert.Equal(t, 3, store.get(2).RetryCount)
}
