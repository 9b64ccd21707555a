// Package dlog wraps logrus with the per-stage diagnostic line format
// spec.md §7 requires: one line per pipeline stage announcing its
// numeric diagnostics, and a single line naming the failed step on
// error.
package dlog

import "github.com/sirupsen/logrus"

// New returns a logger that writes structured, human-readable stage
// lines to the given logrus instance (or logrus.StandardLogger() if
// nil).
func New(base *logrus.Logger) *logrus.Entry {
	if base == nil {
		base = logrus.StandardLogger()
	}
	return logrus.NewEntry(base)
}

// Stage returns a child entry tagged with the given pipeline stage name,
// for the fields that stage wants to report.
func Stage(l *logrus.Entry, name string) *logrus.Entry {
	return l.WithField("stage", name)
}

// Fail logs a single line naming the failed step, per spec.md §7
// ("Failures surface as a single line naming the failed step, and
// processing moves to the next input").
func Fail(l *logrus.Entry, stage string, err error) {
	l.WithField("stage", stage).WithError(err).Error("pipeline stage failed")
}
