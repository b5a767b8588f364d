// Package usecase wraps TasksRepository operations as commands.
//
// Every command can be run synchronously with Run, or scheduled with Execute:
// the work runs on the background Scheduler and the Callback fires exactly
// once on the delivery Scheduler.
//
//	uc := usecase.New(repo, usecase.NewPool(4, 64), usecase.Immediate{})
//	uc.GetTasks.Execute(ctx, usecase.GetTasksRequest{Filter: task.ActiveTasks},
//		usecase.Callback[usecase.GetTasksResponse]{
//			OnSuccess: func(resp usecase.GetTasksResponse) { render(resp.Tasks) },
//			OnError:   func(err error) { report(err) },
//		})
package usecase
