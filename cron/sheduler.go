package cron

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// All merges jobs with the registered ones. A registered job never replaces
// a process job of the same name.
func All(jobs map[string]Job) map[string]Job {
	out := Jobs()
	for name, j := range jobs {
		out[name] = j
	}
	return out
}

// StartCron schedules jobs plus every registered job and starts the
// scheduler. A panicking job is logged and recovered.
func StartCron(jobs map[string]Job, log *zap.Logger) (*cron.Cron, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cl := cronLogger{log.Named("cron").Sugar()}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))

	all := All(jobs)
	for _, name := range Names(all) {
		j := all[name]
		run := j.Run
		if _, err := c.AddFunc(j.Schedule, func() { run() }); err != nil {
			return nil, fmt.Errorf("cron: job %s: %w", name, err)
		}
		log.Info("cron job scheduled", zap.String("job", name), zap.String("schedule", j.Schedule))
	}
	c.Start()
	return c, nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
