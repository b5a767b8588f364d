// Package remote exposes task data sources over HTTP.
//
// Client implements task.DataSource against a REST+JSON API and NewHandler
// serves any task.DataSource over the same API:
//
//	GET    /tasks                    list every task
//	DELETE /tasks                    delete every task
//	DELETE /tasks?completed=true     delete completed tasks
//	GET    /tasks/:id                fetch one task
//	PUT    /tasks/:id                upsert a task (JSON body)
//	POST   /tasks/:id/complete       upsert the task as completed (JSON body)
//	POST   /tasks/:id/activate       upsert the task as active (JSON body)
//	DELETE /tasks/:id                delete one task
//
// Errors are returned as go-errors responses: {"error": {"category": ...,
// "text_code": ..., "message": ...}}. The client maps 404 to task.NotFound
// and 5xx or transport failures to task.SourceUnavailable.
package remote
