package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rentdesk/rentdesk/internal/metrics"
)

// AuditJob represents a single audit entry to be recorded.
type AuditJob struct {
	Action     string
	EntityType string
	EntityID   string
	Actor      string
	Detail     map[string]any
}

// AuditWorker buffers audit entries and writes them via a single worker goroutine.
type AuditWorker struct {
	auditor Auditor
	log     *logrus.Logger
	jobs    chan *AuditJob
}

// NewAuditWorker creates an AuditWorker with the given queue capacity.
func NewAuditWorker(auditor Auditor, log *logrus.Logger, queueSize int) *AuditWorker {
	if queueSize <= 0 {
		queueSize = 1000
	}
	return &AuditWorker{
		auditor: auditor,
		log:     log,
		jobs:    make(chan *AuditJob, queueSize),
	}
}

// Enqueue adds an audit job. Non-blocking; drops the job if the queue is full.
func (w *AuditWorker) Enqueue(job *AuditJob) {
	select {
	case w.jobs <- job:
	default:
		metrics.AuditDropped.Inc()
		w.log.WithField("action", job.Action).Warn("audit queue full, dropping entry")
	}
}

// Run processes audit jobs until the context is cancelled, then drains remaining jobs.
func (w *AuditWorker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return
		case job := <-w.jobs:
			w.process(job)
		}
	}
}

func (w *AuditWorker) drain() {
	for {
		select {
		case job := <-w.jobs:
			w.process(job)
		default:
			return
		}
	}
}

// auditWriteTimeout bounds one audit write. Jobs outlive the HTTP request
// that produced them, so they cannot use its context.
const auditWriteTimeout = 5 * time.Second

func (w *AuditWorker) process(job *AuditJob) {
	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()

	if err := w.auditor.RecordAudit(ctx, job.Action, job.EntityType, job.EntityID, job.Actor, job.Detail); err != nil {
		w.log.WithError(err).WithFields(logrus.Fields{
			"action":    job.Action,
			"entity_id": job.EntityID,
		}).Warn("audit record failed")
	}
}
