package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/devbm7/synthgen/internal/logger"
	"github.com/devbm7/synthgen/internal/models"
	"github.com/devbm7/synthgen/internal/poller"
	"github.com/devbm7/synthgen/internal/session"
)

// TaskWatch drives a workflow's polling loop behind a live view
type TaskWatch struct {
	controller *session.Controller
	workflow   *session.Workflow
	poller     *poller.Poller
	label      string
	program    *tea.Program
}

// NewTaskWatch creates a watch over the given workflow
func NewTaskWatch(controller *session.Controller, workflow *session.Workflow, p *poller.Poller, label string) *TaskWatch {
	return &TaskWatch{
		controller: controller,
		workflow:   workflow,
		poller:     p,
		label:      label,
	}
}

// watchResult carries the poll loop's outcome back to Run
type watchResult struct {
	status models.TaskStatus
	err    error
}

// Run polls the workflow to a terminal state while rendering progress.
// Pressing q stops watching (the task keeps running remotely); pressing
// c cancels the task and clears the workflow.
func (tw *TaskWatch) Run(ctx context.Context, opts ...tea.ProgramOption) (models.TaskStatus, error) {
	cancelRequested := false

	model := NewModel(tw.label, tw.workflow.TaskID,
		func() { tw.poller.Stop() },
		func() {
			cancelRequested = true
			tw.poller.Stop()
		},
	)
	tw.program = tea.NewProgram(model, opts...)

	done := make(chan watchResult, 1)
	go func() {
		status, err := tw.poller.Wait(ctx, func() (models.TaskStatus, error) {
			return tw.controller.Poll(tw.workflow)
		}, func(attempt int, status models.TaskStatus, err error) {
			tw.program.Send(StatusUpdate{Attempt: attempt, Status: status, Err: err})
			if err != nil {
				tw.program.Send(LogMessage{Message: fmt.Sprintf("poll %d failed: %v", attempt, err)})
			}
		})
		tw.program.Send(DoneMsg{Status: status, Err: err})
		done <- watchResult{status: status, err: err}
	}()

	_, runErr := tw.program.Run()

	// Stop the poll loop before reading its result so an early UI exit
	// never races the goroutine's writes
	tw.poller.Stop()
	result := <-done

	if runErr != nil {
		return result.status, fmt.Errorf("watch UI failed: %w", runErr)
	}

	if cancelRequested {
		if err := tw.controller.Cancel(tw.workflow); err != nil {
			logger.Error("Cancel during watch: %v", err)
		}
		return result.status, poller.ErrStopped
	}

	return result.status, result.err
}
