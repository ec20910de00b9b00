package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs periodic maintenance jobs, such as the offer expiry sweep.
type Scheduler struct {
	c       *cron.Cron
	log     logrus.FieldLogger
	timeout time.Duration
}

func New(log logrus.FieldLogger, jobTimeout time.Duration) *Scheduler {
	cl := cronLogger{log: log}
	return &Scheduler{
		c:       cron.New(cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		log:     log,
		timeout: jobTimeout,
	}
}

// Add registers fn under a cron spec ("@every 1m", "*/5 * * * *").
func (s *Scheduler) Add(name, spec string, fn func(ctx context.Context) error) error {
	_, err := s.c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		start := time.Now()
		if err := fn(ctx); err != nil {
			s.log.WithError(err).WithField("job", name).Error("scheduled job failed")
			return
		}
		s.log.WithFields(logrus.Fields{"job": name, "took": time.Since(start).String()}).Debug("scheduled job done")
	})
	return err
}

func (s *Scheduler) Start() { s.c.Start() }

// Stop waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.c.Stop().Done():
	case <-ctx.Done():
	}
}

// cronLogger adapts logrus to cron.Logger
type cronLogger struct{ log logrus.FieldLogger }

func (l cronLogger) Info(msg string, kv ...interface{}) {
	l.log.WithFields(fields(kv)).Debug(msg)
}

func (l cronLogger) Error(err error, msg string, kv ...interface{}) {
	l.log.WithError(err).WithFields(fields(kv)).Error(msg)
}

func fields(kv []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			f[k] = kv[i+1]
		}
	}
	return f
}
