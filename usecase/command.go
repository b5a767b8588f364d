package usecase

import "context"

// Callback receives the outcome of a scheduled command. Exactly one of the
// functions is called; nil functions are skipped.
type Callback[Resp any] struct {
	OnSuccess func(Resp)
	OnError   func(error)
}

func (cb Callback[Resp]) deliver(resp Resp, err error) {
	if err != nil {
		if cb.OnError != nil {
			cb.OnError(err)
		}
		return
	}
	if cb.OnSuccess != nil {
		cb.OnSuccess(resp)
	}
}

// Command is a single repository operation bound to its schedulers.
type Command[Req, Resp any] struct {
	run        func(context.Context, Req) (Resp, error)
	background Scheduler
	delivery   Scheduler
}

func newCommand[Req, Resp any](background, delivery Scheduler, run func(context.Context, Req) (Resp, error)) *Command[Req, Resp] {
	if background == nil {
		background = Immediate{}
	}
	if delivery == nil {
		delivery = Immediate{}
	}
	return &Command[Req, Resp]{
		run:        run,
		background: background,
		delivery:   delivery,
	}
}

// Run executes the command on the calling goroutine.
func (c *Command[Req, Resp]) Run(ctx context.Context, req Req) (Resp, error) {
	return c.run(ctx, req)
}

// Execute runs the command on the background scheduler and delivers the
// result to cb on the delivery scheduler.
func (c *Command[Req, Resp]) Execute(ctx context.Context, req Req, cb Callback[Resp]) {
	c.background.Schedule(func() {
		resp, err := c.run(ctx, req)
		c.delivery.Schedule(func() {
			cb.deliver(resp, err)
		})
	})
}
