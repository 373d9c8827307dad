package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"os"

	_ "github.com/lib/pq"
	"github.com/streadway/amqp"

	"github.com/realtycall/realtycall-backend/internal/repository"
	"github.com/realtycall/realtycall-backend/internal/service"
	"github.com/realtycall/realtycall-backend/internal/telephony"
)

type QueueJob struct {
	CallLogID int `json:"call_log_id"`
}

func main() {
	// Connect to DB
	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal("failed to connect to DB:", err)
	}

	callLogRepo := &repository.CallLogRepository{DB: db}

	var dialer telephony.Dialer = &telephony.MockDialer{}
	if url := os.Getenv("VOICE_API_URL"); url != "" {
		dialer = telephony.NewClient(os.Getenv("VOICE_API_KEY"), url)
	}

	worker := service.NewRetryWorker(callLogRepo, nil, dialer)

	// Connect to RabbitMQ
	conn, err := amqp.Dial(os.Getenv("AMQP_URL"))
	if err != nil {
		log.Fatal("Failed to connect to RabbitMQ:", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatal("Failed to open a channel:", err)
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"call_retries", // name
		true,           // durable
		false,          // delete when unused
		false,          // exclusive
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		log.Fatal("Failed to declare queue:", err)
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Fatal("Failed to register consumer:", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var job QueueJob
			if err := json.Unmarshal(d.Body, &job); err != nil {
				log.Println("Invalid job:", err)
				d.Ack(false)
				continue
			}

			// Each failed attempt lands on call_logs.retry_count; once
			// the limit is spent Retry reports nil and the job is acked.
			if err := worker.Retry(job.CallLogID); err != nil {
				log.Println("Failed to retry call:", err)
				d.Nack(false, true) // requeue
				continue
			}

			d.Ack(false)
		}
	}()

	log.Println("Worker running, waiting for call retry jobs...")
	<-forever
}
