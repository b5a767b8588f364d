package usecase

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-task-repository/task"
)

// Repository is the subset of TasksRepository the commands use.
type Repository interface {
	GetTasks(ctx context.Context, forceUpdate bool) ([]task.Task, error)
	GetTask(ctx context.Context, id string, forceUpdate bool) (task.Task, error)
	SaveTask(ctx context.Context, t task.Task) error
	CompleteTaskByID(ctx context.Context, id string) error
	ActivateTaskByID(ctx context.Context, id string) error
	DeleteTask(ctx context.Context, id string) error
	ClearCompletedTasks(ctx context.Context) error
}

type GetTasksRequest struct {
	ForceUpdate bool
	Filter      task.FilterType
}

type GetTasksResponse struct {
	Tasks []task.Task
}

type GetTaskRequest struct {
	ID          string `json:"id"`
	ForceUpdate bool   `json:"force_update"`
}

func (r GetTaskRequest) Validate() error {
	return invalidRequest(validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
	))
}

type GetTaskResponse struct {
	Task task.Task
}

type SaveTaskRequest struct {
	Task task.Task
}

type SaveTaskResponse struct {
	Task task.Task
}

// TaskIDRequest identifies the task a command acts on.
type TaskIDRequest struct {
	ID string `json:"id"`
}

func (r TaskIDRequest) Validate() error {
	return invalidRequest(validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
	))
}

type GetStatisticsRequest struct {
	ForceUpdate bool
}

type GetStatisticsResponse struct {
	Statistics task.Statistics
}

// Empty is the request or response of commands that carry no data.
type Empty struct{}

// UseCases groups every command over one repository.
type UseCases struct {
	GetTasks            *Command[GetTasksRequest, GetTasksResponse]
	GetTask             *Command[GetTaskRequest, GetTaskResponse]
	SaveTask            *Command[SaveTaskRequest, SaveTaskResponse]
	CompleteTask        *Command[TaskIDRequest, Empty]
	ActivateTask        *Command[TaskIDRequest, Empty]
	DeleteTask          *Command[TaskIDRequest, Empty]
	ClearCompletedTasks *Command[Empty, Empty]
	GetStatistics       *Command[GetStatisticsRequest, GetStatisticsResponse]
}

// New builds every command over repo. Nil schedulers default to Immediate.
func New(repo Repository, background, delivery Scheduler) *UseCases {
	return &UseCases{
		GetTasks:            NewGetTasks(repo, background, delivery),
		GetTask:             NewGetTask(repo, background, delivery),
		SaveTask:            NewSaveTask(repo, background, delivery),
		CompleteTask:        NewCompleteTask(repo, background, delivery),
		ActivateTask:        NewActivateTask(repo, background, delivery),
		DeleteTask:          NewDeleteTask(repo, background, delivery),
		ClearCompletedTasks: NewClearCompletedTasks(repo, background, delivery),
		GetStatistics:       NewGetStatistics(repo, background, delivery),
	}
}

// NewGetTasks lists tasks and applies the request filter.
func NewGetTasks(repo Repository, background, delivery Scheduler) *Command[GetTasksRequest, GetTasksResponse] {
	return newCommand(background, delivery, func(ctx context.Context, req GetTasksRequest) (GetTasksResponse, error) {
		tasks, err := repo.GetTasks(ctx, req.ForceUpdate)
		if err != nil {
			return GetTasksResponse{}, err
		}
		return GetTasksResponse{Tasks: task.Filter(tasks, req.Filter)}, nil
	})
}

func NewGetTask(repo Repository, background, delivery Scheduler) *Command[GetTaskRequest, GetTaskResponse] {
	return newCommand(background, delivery, func(ctx context.Context, req GetTaskRequest) (GetTaskResponse, error) {
		if err := req.Validate(); err != nil {
			return GetTaskResponse{}, err
		}
		t, err := repo.GetTask(ctx, req.ID, req.ForceUpdate)
		if err != nil {
			return GetTaskResponse{}, err
		}
		return GetTaskResponse{Task: t}, nil
	})
}

func NewSaveTask(repo Repository, background, delivery Scheduler) *Command[SaveTaskRequest, SaveTaskResponse] {
	return newCommand(background, delivery, func(ctx context.Context, req SaveTaskRequest) (SaveTaskResponse, error) {
		if err := repo.SaveTask(ctx, req.Task); err != nil {
			return SaveTaskResponse{}, err
		}
		return SaveTaskResponse{Task: req.Task}, nil
	})
}

func NewCompleteTask(repo Repository, background, delivery Scheduler) *Command[TaskIDRequest, Empty] {
	return byID(background, delivery, repo.CompleteTaskByID)
}

func NewActivateTask(repo Repository, background, delivery Scheduler) *Command[TaskIDRequest, Empty] {
	return byID(background, delivery, repo.ActivateTaskByID)
}

func NewDeleteTask(repo Repository, background, delivery Scheduler) *Command[TaskIDRequest, Empty] {
	return byID(background, delivery, repo.DeleteTask)
}

func NewClearCompletedTasks(repo Repository, background, delivery Scheduler) *Command[Empty, Empty] {
	return newCommand(background, delivery, func(ctx context.Context, _ Empty) (Empty, error) {
		return Empty{}, repo.ClearCompletedTasks(ctx)
	})
}

// NewGetStatistics counts active and completed tasks.
func NewGetStatistics(repo Repository, background, delivery Scheduler) *Command[GetStatisticsRequest, GetStatisticsResponse] {
	return newCommand(background, delivery, func(ctx context.Context, req GetStatisticsRequest) (GetStatisticsResponse, error) {
		tasks, err := repo.GetTasks(ctx, req.ForceUpdate)
		if err != nil {
			return GetStatisticsResponse{}, err
		}
		return GetStatisticsResponse{Statistics: task.Stats(tasks)}, nil
	})
}

func byID(background, delivery Scheduler, op func(context.Context, string) error) *Command[TaskIDRequest, Empty] {
	return newCommand(background, delivery, func(ctx context.Context, req TaskIDRequest) (Empty, error) {
		if err := req.Validate(); err != nil {
			return Empty{}, err
		}
		return Empty{}, op(ctx, req.ID)
	})
}

func invalidRequest(err error) error {
	if err == nil {
		return nil
	}
	return goerrors.FromOzzoValidation(err, "invalid request").
		WithTextCode(task.TextCodeInvalidTask)
}
