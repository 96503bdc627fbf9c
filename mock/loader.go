// Package mock provides test doubles for questlog interfaces.
package mock

import "github.com/fwojciec/questlog"

// Compile-time interface verification.
var _ questlog.TaskLoader = (*TaskLoader)(nil)

// TaskLoader is a mock implementation of questlog.TaskLoader.
type TaskLoader struct {
	LoadFn func(path string) ([]questlog.Task, error)
}

func (l *TaskLoader) Load(path string) ([]questlog.Task, error) {
	return l.LoadFn(path)
}
