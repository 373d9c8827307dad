package queue

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/realtycall/realtycall-backend/internal/repository"
	"github.com/realtycall/realtycall-backend/internal/telephony"
)

// Queue interface
type Queue interface {
	Publish(topic string, payload any) error
	Subscribe(topic string, handler func(payload any) error) error
}

// InMemoryQueue is an in-memory queue with retry
type InMemoryQueue struct {
	mu       sync.Mutex
	handlers map[string][]func(payload any) error
}

// NewInMemoryQueue creates a new queue
func NewInMemoryQueue() *InMemoryQueue {
	return &InMemoryQueue{
		handlers: make(map[string][]func(payload any) error),
	}
}

// JobPayload wraps a message payload with retry info
type JobPayload struct {
	Payload    any
	RetryCount int
	MaxRetries int
}

// Publish sends a message to all subscribers
func (q *InMemoryQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	handlers := q.handlers[topic]
	q.mu.Unlock()

	if len(handlers) == 0 {
		return fmt.Errorf("no subscribers for topic %s", topic)
	}

	job := JobPayload{
		Payload:    payload,
		RetryCount: 0,
		MaxRetries: 3,
	}

	for _, handler := range handlers {
		go q.processJob(handler, job)
	}

	return nil
}

// processJob handles retries and errors
func (q *InMemoryQueue) processJob(handler func(payload any) error, job JobPayload) {
	for job.RetryCount <= job.MaxRetries {
		err := handler(job.Payload)
		if err == nil {
			return // ACK
		}

		job.RetryCount++
		log.Printf("Job failed (attempt %d/%d): %+v, error: %v\n", job.RetryCount, job.MaxRetries, job.Payload, err)

		if job.RetryCount > job.MaxRetries {
			log.Printf("Job permanently failed after %d attempts: %+v\n", job.MaxRetries, job.Payload)
			return // No requeue
		}

		// Exponential backoff before retry
		time.Sleep(time.Duration(job.RetryCount*500) * time.Millisecond)
	}
}

// Subscribe adds a handler for a topic
func (q *InMemoryQueue) Subscribe(topic string, handler func(payload any) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.handlers[topic] = append(q.handlers[topic], handler)
	return nil
}

// StartCallRetrySubscriber redials calls that failed on the first attempt.
// Payload is the call log ID published by the campaign start flow.
func StartCallRetrySubscriber(q Queue, callLogRepo repository.CallLogRepositoryInterface, dialer telephony.Dialer) {
	go func() {
		err := q.Subscribe("call_retries", func(payload any) error {
			logID, ok := payload.(int)
			if !ok {
				log.Println("⚠️ Invalid payload type, expected int")
				return nil
			}

			log.Println("📞 Retrying queued call, log ID:", logID)

			cl, err := callLogRepo.GetByID(logID)
			if err != nil {
				log.Println("⚠️ Failed to fetch call log:", err)
				return err
			}
			if cl == nil {
				log.Println("⚠️ Call log not found for ID:", logID)
				return nil // no retry
			}
			if cl.Status != "failed" {
				return nil // already recovered elsewhere
			}

			res, err := dialer.Call(telephony.CallRequest{
				CampaignID: cl.CampaignID,
				LeadID:     cl.LeadID,
				LeadName:   cl.LeadName,
				Phone:      cl.Phone,
				Script:     cl.Script,
			})
			cl.RetryCount++
			if err != nil {
				cl.LastError = err.Error()
				_ = callLogRepo.Update(cl)
				return err // triggers retry in queue
			}

			cl.Status = "completed"
			cl.Outcome = res.Outcome
			cl.Transferred = res.Transferred
			cl.LastError = ""
			if err := callLogRepo.Update(cl); err != nil {
				log.Println("⚠️ Failed to update call log:", err)
				return err // retry
			}

			log.Println("✅ Call retried successfully:", logID)
			return nil
		})

		if err != nil {
			log.Println("⚠️ Failed to start subscriber for call_retries:", err)
		}
	}()
}
