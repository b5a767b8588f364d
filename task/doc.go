// Package task defines the to-do task entity, the DataSource contract shared by
// every task store, and the error kinds those stores report.
//
// # Overview
//
// A Task is a value. Completing or activating a task returns a new Task with
// the same ID; callers replace the stored value by ID rather than mutating it:
//
//	t := task.New("Buy milk", "2 liters")
//	done := t.Complete()
//	// t.Completed == false, done.Completed == true, done.ID == t.ID
//
// # Data sources
//
// DataSource is implemented identically by the local store, the remote store
// and the in-memory store. The repository in package repositorycache depends
// only on this interface.
//
// # Errors
//
// Stores report three kinds of failure, all built on go-errors categories so
// they carry text codes and metadata when logged:
//
//   - NotFound: the requested ID is absent in the consulted source
//   - SourceUnavailable: the medium behind the source could not be reached
//   - InvalidTask: a task with neither title nor description was saved
//
// Use IsNotFound, IsSourceUnavailable and IsInvalidTask to classify errors.
package task
