// Copyright © 2022-2025 Obol Labs Inc. Licensed under the terms of a Business Source License 1.1

// Package forkjoin provides an API for "doing work
// concurrently (fork) and then waiting for the results (join)".
package forkjoin

import (
	"context"
	"sync"

	"github.com/obolnetwork/attester/app/errors"
)

const (
	defaultWorkers  = 8
	defaultInputBuf = 100
)

// Fork enqueues the input to be processed asynchronously.
// It may block while the input buffer is full and panics if called after Join.
type Fork[I any] func(I)

// Join closes the input queue and returns the results channel.
// It panics if called more than once.
type Join[I, O any] func() Results[I, O]

// Work defines the work function signature workers will call.
type Work[I, O any] func(ctx context.Context, input I) (output O, err error)

// Results contains enqueued results.
type Results[I, O any] <-chan Result[I, O]

// Result contains the input and resulting output from the work function.
type Result[I, O any] struct {
	Input  I
	Output O
	Err    error
}

// Flatten blocks and returns all the outputs when all completed and
// the first "real error".
//
// A real error is the error that triggered the fail fast, all subsequent
// results will contain context cancelled errors.
func (r Results[I, O]) Flatten() ([]O, error) {
	var (
		resp []O
		errs firstErrs
	)
	for result := range r {
		resp = append(resp, result.Output)
		errs.add(result.Err)
	}

	return resp, errs.first()
}

// firstErrs tracks the first context cancelled error and the first other error.
type firstErrs struct {
	ctxErr   error
	otherErr error
}

func (f *firstErrs) add(err error) {
	if err == nil {
		return
	}

	if errors.Is(err, context.Canceled) {
		if f.ctxErr == nil {
			f.ctxErr = err
		}
	} else if f.otherErr == nil {
		f.otherErr = err
	}
}

func (f *firstErrs) first() error {
	if f.otherErr != nil {
		return f.otherErr
	}

	return f.ctxErr
}

type options struct {
	inputBuf     int
	workers      int
	waitOnCancel bool
}

type Option func(*options)

// WithWaitOnCancel returns an option configuring a forkjoin to wait for all workers to return when canceling.
// By default cancel only cancels the worker context and drops remaining results.
func WithWaitOnCancel() Option {
	return func(o *options) {
		o.waitOnCancel = true
	}
}

// WithWorkers returns an option configuring a forkjoin with w number of workers.
func WithWorkers(w int) Option {
	return func(o *options) {
		o.workers = w
	}
}

// WithInputBuffer returns an option overriding the default input buffer of 100.
func WithInputBuffer(i int) Option {
	return func(o *options) {
		o.inputBuf = i
	}
}

// New returns fork, join, and cancel functions with generic input type I and output type O.
//
// It fails fast: the first error cancels all active work function contexts
// and remaining inputs are not executed, their results contain context cancelled errors.
//
// Usage:
//
//	fork, join, cancel := forkjoin.New[TxHash, *Tx](ctx, fetchTx)
//	defer cancel()
//
//	for _, hash := range hashes {
//	  fork(hash)
//	}
//
//	txs, err := join().Flatten()
func New[I, O any](rootCtx context.Context, work Work[I, O], opts ...Option) (Fork[I], Join[I, O], context.CancelFunc) {
	o := options{
		workers:  defaultWorkers,
		inputBuf: defaultInputBuf,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		wg         sync.WaitGroup
		zero       O
		input      = make(chan I, o.inputBuf)
		results    = make(chan Result[I, O])
		dropOutput = make(chan struct{})
		done       = make(chan struct{})
	)

	workCtx, cancelWorkers := context.WithCancel(rootCtx)

	// Results are sent asynchronously since the results channel is unbuffered.
	enqueue := func(in I, out O, err error) {
		go func() {
			defer wg.Done()
			select {
			case results <- Result[I, O]{Input: in, Output: out, Err: err}:
			case <-dropOutput:
			}
		}()
	}

	for range o.workers {
		go func() {
			for in := range input {
				if workCtx.Err() != nil {
					enqueue(in, zero, workCtx.Err())
					continue
				}

				out, err := work(workCtx, in)
				if err != nil {
					cancelWorkers()
				}

				enqueue(in, out, err)
			}
		}()
	}

	fork := func(i I) {
		var added bool
		defer func() {
			// Also covers the panic when input is already closed.
			if !added {
				wg.Done()
			}
		}()

		wg.Add(1)
		select {
		case input <- i:
			added = true
		case <-rootCtx.Done():
		}
	}

	join := func() Results[I, O] {
		close(input)

		go func() {
			wg.Wait()
			close(results)
			close(done)
		}()

		return results
	}

	cancel := func() {
		close(dropOutput)
		cancelWorkers()
		if o.waitOnCancel {
			<-done
		}
	}

	return fork, join, cancel
}

// NewWithInputs is a convenience function that calls New and then forks all the inputs
// returning the join result and a cancel function.
func NewWithInputs[I, O any](ctx context.Context, work Work[I, O], inputs []I, opts ...Option,
) (Results[I, O], context.CancelFunc) {
	fork, join, cancel := New[I, O](ctx, work, opts...)
	for _, input := range inputs {
		fork(input)
	}

	return join(), cancel
}

// Map applies work to all inputs concurrently and returns the outputs in input order.
// It blocks until all workers returned and returns the first real error, see Flatten.
func Map[I, O any](ctx context.Context, work Work[I, O], inputs []I, opts ...Option) ([]O, error) {
	type indexed struct {
		idx int
		in  I
	}

	indexedWork := func(ctx context.Context, in indexed) (O, error) {
		return work(ctx, in.in)
	}

	indexedInputs := make([]indexed, 0, len(inputs))
	for i, in := range inputs {
		indexedInputs = append(indexedInputs, indexed{idx: i, in: in})
	}

	opts = append(opts, WithWaitOnCancel(), WithInputBuffer(len(inputs)))
	results, cancel := NewWithInputs(ctx, indexedWork, indexedInputs, opts...)
	defer cancel()

	var errs firstErrs
	resp := make([]O, len(inputs))
	for result := range results {
		resp[result.Input.idx] = result.Output
		errs.add(result.Err)
	}

	if err := errs.first(); err != nil {
		return nil, err
	} else if ctx.Err() != nil {
		// Inputs not forked due to cancellation have no result.
		return nil, ctx.Err()
	}

	return resp, nil
}
