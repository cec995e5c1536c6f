package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/alexisbeaulieu97/voila/internal/logger"
	voilaerrors "github.com/alexisbeaulieu97/voila/pkg/errors"
)

// ErrAborted is returned by Run after a task failed. The failure itself has
// already been reported; callers only need it for the exit status.
var ErrAborted = errors.New("task aborted")

// Action performs a task. Messages it returns are added to the context
// output when it succeeds.
type Action func(ctx context.Context, execCtx *Context) ([]string, error)

// Task is one step of a command.
type Task struct {
	Title  string
	Skip   func(execCtx *Context) bool
	Action Action
}

// Runner executes task lists.
type Runner struct {
	Logger *logger.Logger
}

// NewRunner returns a Runner reporting through log.
func NewRunner(log *logger.Logger) *Runner {
	return &Runner{Logger: log}
}

// Run executes tasks in order against execCtx. Each Skip predicate is
// evaluated right before its task, after all earlier tasks have run. The
// first failing action stops the run: its error is classified and reported,
// and Run returns the output gathered so far with ErrAborted.
func (r *Runner) Run(ctx context.Context, tasks []Task, execCtx *Context) ([]string, error) {
	if execCtx == nil {
		execCtx = &Context{}
	}
	execCtx.Output = nil

	for i, task := range tasks {
		if task.Skip != nil && task.Skip(execCtx) {
			r.Logger.Debug(fmt.Sprintf("Skipping %s", taskName(i, task)))
			continue
		}

		if task.Title != "" {
			r.Logger.Info(task.Title)
		}

		if task.Action == nil {
			r.report(fmt.Errorf("%s has no action", taskName(i, task)))
			return execCtx.Output, ErrAborted
		}

		messages, err := task.Action(ctx, execCtx)
		if err != nil {
			r.report(err)
			return execCtx.Output, ErrAborted
		}
		execCtx.Output = append(execCtx.Output, messages...)
	}

	return execCtx.Output, nil
}

func (r *Runner) report(err error) {
	switch Classify(err) {
	case ClassSchema:
		r.Logger.Error(nil, fmt.Sprintf("Config validation failed: %s", schemaMessage(err)))
	case ClassDomain:
		var domainErr *voilaerrors.DomainError
		errors.As(err, &domainErr)
		r.Logger.Error(nil, domainErr.Error())
	default:
		r.Logger.WithFields(map[string]any{"type": fmt.Sprintf("%T", err)}).Error(err, fmt.Sprintf("Unexpected error: %+v", err))
	}
}

func taskName(index int, task Task) string {
	if task.Title != "" {
		return fmt.Sprintf("task %q", task.Title)
	}
	return fmt.Sprintf("task #%d", index+1)
}
