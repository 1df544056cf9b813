package planner

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/EmmeEffe/TimePlanner/internal/model"
	"github.com/EmmeEffe/TimePlanner/internal/storage"
)

// TimeShift moves a task's end boundary while keeping the day free of
// overlaps. Shifts are boundary-only: the start of the shifted task never
// moves, and at most one neighbor is touched.
type TimeShift struct {
	schedules storage.ScheduleRepository
	templates storage.TemplateRepository
	clock     Clock
	log       *log.Logger
}

func NewTimeShift(schedules storage.ScheduleRepository, templates storage.TemplateRepository, clock Clock, logger *log.Logger) *TimeShift {
	return &TimeShift{schedules: schedules, templates: templates, clock: clock, log: logger}
}

// ShiftUp extends the task's end by the given minutes. When the immediate
// successor has room it is pushed along in the same persistence call; when
// it is important or an occurrence of a currently-repeating template the
// shift is refused. Returns every task that was updated.
func (s *TimeShift) ShiftUp(ctx context.Context, task model.TimeTask, minutes int) ([]model.TimeTask, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("%w: shift must be positive, got %d", ErrShiftRejected, minutes)
	}

	neighbors, err := s.loadNeighborhood(ctx, task)
	if err != nil {
		return nil, err
	}
	next := successorOf(neighbors, task)
	candidateTo := task.Range.ShiftTo(minutes).To

	if next == nil || next.Range.From.Sub(candidateTo) >= time.Duration(minutes)*time.Minute {
		if !model.SameDay(candidateTo, task.Range.To) {
			return nil, fmt.Errorf("%w: end would move from %s to %s",
				ErrCrossDayShift, task.Range.To.Format("2006-01-02"), candidateTo.Format("2006-01-02"))
		}
		task.Range.To = candidateTo
		updated := []model.TimeTask{task}
		if err := s.schedules.UpdateTimeTasks(ctx, updated); err != nil {
			return nil, fmt.Errorf("persist shifted task: %w", err)
		}
		s.log.Debug("shifted task end", "key", task.Key, "minutes", minutes)
		return updated, nil
	}

	if next.Range.To.Sub(candidateTo) <= 0 {
		return nil, fmt.Errorf("%w: successor %d would be consumed", ErrShiftRejected, next.Key)
	}

	if next.IsImportant() {
		return nil, fmt.Errorf("%w: task %d is important", ErrImportanceConflict, next.Key)
	}
	repeating, err := s.isActiveTemplateOccurrence(ctx, *next)
	if err != nil {
		return nil, err
	}
	if repeating {
		return nil, fmt.Errorf("%w: task %d repeats from a template today", ErrImportanceConflict, next.Key)
	}

	task.Range.To = candidateTo
	pushed := *next
	pushed.Range.From = candidateTo
	updated := []model.TimeTask{task, pushed}
	if err := s.schedules.UpdateTimeTasks(ctx, updated); err != nil {
		return nil, fmt.Errorf("persist shifted pair: %w", err)
	}
	s.log.Debug("shifted task into successor", "key", task.Key, "successor", pushed.Key, "minutes", minutes)
	return updated, nil
}

// ShiftDown pulls the task's end earlier. Only the task itself changes; the
// operation fails if it would leave a non-positive duration.
func (s *TimeShift) ShiftDown(ctx context.Context, task model.TimeTask, minutes int) (model.TimeTask, error) {
	if minutes <= 0 {
		return model.TimeTask{}, fmt.Errorf("%w: shift must be positive, got %d", ErrShiftRejected, minutes)
	}

	candidateTo := task.Range.ShiftTo(-minutes).To
	if candidateTo.Sub(task.Range.From) <= 0 {
		return model.TimeTask{}, fmt.Errorf("%w: task %d would have no duration", ErrShiftRejected, task.Key)
	}
	task.Range.To = candidateTo
	if err := s.schedules.UpdateTimeTasks(ctx, []model.TimeTask{task}); err != nil {
		return model.TimeTask{}, fmt.Errorf("persist shrunk task: %w", err)
	}
	s.log.Debug("shrunk task end", "key", task.Key, "minutes", minutes)
	return task, nil
}

// loadNeighborhood flattens the tasks of the day before, of, and after the
// task's schedule day, sorted by start time. The extra days cover neighbors
// of cross-midnight tasks.
func (s *TimeShift) loadNeighborhood(ctx context.Context, task model.TimeTask) ([]model.TimeTask, error) {
	from := model.ShiftDay(task.Date, -1)
	to := model.ShiftDay(task.Date, 1)
	schedules, err := s.schedules.FetchSchedulesByRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load schedules around %s: %w", task.Date.Format("2006-01-02"), err)
	}
	all := make([]model.TimeTask, 0)
	for _, schedule := range schedules {
		all = append(all, schedule.Tasks...)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Range.From.Before(all[j].Range.From)
	})
	return all, nil
}

// successorOf returns the earliest task starting at or after the shifted
// task's current end, or nil when the timeline is open.
func successorOf(tasks []model.TimeTask, task model.TimeTask) *model.TimeTask {
	for i := range tasks {
		if tasks[i].Key == task.Key {
			continue
		}
		if !tasks[i].Range.From.Before(task.Range.To) {
			return &tasks[i]
		}
	}
	return nil
}

func (s *TimeShift) isActiveTemplateOccurrence(ctx context.Context, task model.TimeTask) (bool, error) {
	if s.templates == nil {
		return false, nil
	}
	templates, err := s.templates.FetchAllTemplates(ctx)
	if err != nil {
		return false, fmt.Errorf("load templates: %w", err)
	}
	now := s.clock()
	for _, tpl := range templates {
		if tpl.EqualsTask(task) && tpl.FiresOn(now) {
			return true, nil
		}
	}
	return false, nil
}
