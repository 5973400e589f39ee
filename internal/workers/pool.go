package workers

import (
	"context"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/hetulpatel/cv-evaluator/internal/kafka"
	"github.com/hetulpatel/cv-evaluator/internal/logging"
	"github.com/hetulpatel/cv-evaluator/internal/queue"
)

// readRetryDelay spaces out reads after a broker error.
var readRetryDelay = time.Second

// Handler processes one decoded evaluation event.
type Handler func(context.Context, queue.Envelope) error

// MessageReader is the subset of *kafka.Reader a worker needs.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafkago.Message, error)
}

// Run starts workerCount readers in group and blocks until ctx is done.
func Run(ctx context.Context, brokers []string, topic, group string, workerCount int, handler Handler) {
	if workerCount <= 0 {
		workerCount = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			reader := kafka.NewReader(brokers, topic, group)
			defer reader.Close()
			logging.Debugf("[workers] reader %d joined %s on %s", id, group, topic)
			Consume(ctx, reader, handler)
		}(i)
	}

	<-ctx.Done()
	wg.Wait()
}

// Consume feeds every message of reader to handler until ctx is done.
// Messages that do not decode are logged and skipped.
func Consume(ctx context.Context, reader MessageReader, handler Handler) {
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logging.Errorf("[workers] read error: %v", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(readRetryDelay):
			}
			continue
		}

		env, err := queue.DecodeEvent(msg.Value)
		if err != nil {
			logging.Errorf("[workers] offset %d: %v", msg.Offset, err)
			continue
		}

		if handler != nil {
			if err := handler(ctx, env); err != nil {
				logging.Errorf("[workers] handler error for %s: %v", env.Candidate, err)
			}
		}
	}
}
