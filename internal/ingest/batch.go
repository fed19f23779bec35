// Copyright (c) 2026 The fsctl Authors.
// SPDX-License-Identifier: Apache-2.0

package ingest

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/errgroup"
)

// IngestOptions controls one IngestBatch call.
type IngestOptions struct {
	// MaxParallelWriters bounds concurrent writers. Values below 1 mean 1.
	MaxParallelWriters int
	// Wait blocks IngestBatch until every row is acknowledged or failed.
	// When false IngestBatch returns as soon as the writers are started and
	// the caller uses Result.Wait or Result.Done.
	Wait bool
}

// Result is the outcome of one IngestBatch call. Attempted and Resource are
// set before IngestBatch returns; every other field is final only once Done
// is closed.
type Result struct {
	Resource     string
	Attempted    int
	Ingested     int
	Failures     []RowFailure
	PollAttempts int
	Elapsed      time.Duration

	done chan struct{}
}

// Done is closed when all writers have finished.
func (r *Result) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until all writers have finished and returns r.
func (r *Result) Wait() *Result {
	<-r.done
	return r
}

// Err returns a *PartialIngestionError when any row failed, nil otherwise.
// It waits for completion.
func (r *Result) Err() error {
	r.Wait()
	if len(r.Failures) == 0 {
		return nil
	}
	return &PartialIngestionError{
		Resource:  r.Resource,
		Attempted: r.Attempted,
		Ingested:  r.Ingested,
		Failures:  r.Failures,
	}
}

// FailedRows returns the rows that were not written, in batch order, ready
// to be resubmitted.
func (r *Result) FailedRows() Batch {
	r.Wait()
	rows := make(Batch, 0, len(r.Failures))
	for _, f := range r.Failures {
		rows = append(rows, f.Row)
	}
	return rows
}

// Partition splits batch into min(writers, len(batch)) contiguous groups
// whose sizes differ by at most one, larger groups first. Concatenating the
// groups in order reproduces batch. The groups share batch's backing array.
func Partition(batch Batch, writers int) []Batch {
	if writers < 1 {
		writers = 1
	}
	n := len(batch)
	if n == 0 {
		return nil
	}
	if writers > n {
		writers = n
	}

	size, extra := n/writers, n%writers
	parts := make([]Batch, 0, writers)
	start := 0
	for i := 0; i < writers; i++ {
		end := start + size
		if i < extra {
			end++
		}
		parts = append(parts, batch[start:end:end])
		start = end
	}
	return parts
}

// workerResult is what one writer goroutine hands back. Each worker owns its
// own slot so no counters are shared.
type workerResult struct {
	offset int
	write  WriteResult
}

// IngestBatch writes batch to h with up to opts.MaxParallelWriters workers.
// It does not check readiness; call AwaitReady first. Row failures are
// collected on the Result and never returned as an error, and a failing
// worker does not stop the others.
func (in *Ingestor) IngestBatch(ctx context.Context, h Handle, batch Batch, opts IngestOptions) *Result {
	res := &Result{
		Resource:  h.Name,
		Attempted: len(batch),
		done:      make(chan struct{}),
	}

	parts := Partition(batch, opts.MaxParallelWriters)
	log.WithFields(log.Fields{
		"resource": h.Name,
		"rows":     len(batch),
		"writers":  len(parts),
	}).Infof("ingesting batch into %s", h)

	start := in.now()
	run := func() {
		defer close(res.done)

		results := make([]workerResult, len(parts))
		var g errgroup.Group
		g.SetLimit(max(opts.MaxParallelWriters, 1))

		offset := 0
		for i, part := range parts {
			partOffset := offset
			offset += len(part)
			g.Go(func() error {
				results[i] = workerResult{offset: partOffset, write: in.writePartition(ctx, h, i, part)}
				return nil
			})
		}
		_ = g.Wait()

		res.merge(results)
		res.Elapsed = in.now().Sub(start)

		entry := log.WithFields(log.Fields{
			"resource":  h.Name,
			"attempted": res.Attempted,
			"ingested":  res.Ingested,
			"failed":    len(res.Failures),
			"elapsed":   res.Elapsed.Round(time.Millisecond),
		})
		if len(res.Failures) > 0 {
			entry.Warn("batch partially ingested")
		} else {
			entry.Info("batch ingested")
		}
	}

	if opts.Wait {
		run()
	} else {
		go run()
	}
	return res
}

// writePartition calls the writer for one partition and accounts for rows the
// writer neither acknowledged nor reported. Acknowledgements carry no row
// index, so unaccounted rows are taken from the end of the partition,
// skipping rows already reported as failed.
func (in *Ingestor) writePartition(ctx context.Context, h Handle, worker int, part Batch) WriteResult {
	wr := in.writer.WriteRows(ctx, h.Name, part)
	wr.Acknowledged = min(max(wr.Acknowledged, 0), max(len(part)-len(wr.Failed), 0))

	if missing := len(part) - wr.Acknowledged - len(wr.Failed); missing > 0 {
		failed := make(map[int]bool, len(wr.Failed))
		for _, f := range wr.Failed {
			failed[f.Index] = true
		}
		for i := len(part) - 1; i >= 0 && missing > 0; i-- {
			if failed[i] {
				continue
			}
			wr.Failed = append(wr.Failed, RowFailure{
				Index: i,
				Row:   part[i],
				Err:   fmt.Errorf("%w: worker %d", ErrUnacknowledged, worker),
			})
			missing--
		}
	}
	if n := len(wr.Failed); n > 0 {
		log.WithFields(log.Fields{
			"resource": h.Name,
			"worker":   worker,
			"failed":   n,
		}).WithError(wr.Failed[0].Err).Warn("writer reported failures")
	}
	return wr
}

func (r *Result) merge(results []workerResult) {
	for _, wr := range results {
		r.Ingested += wr.write.Acknowledged
		for _, f := range wr.write.Failed {
			f.Index += wr.offset
			r.Failures = append(r.Failures, f)
		}
	}
	sort.SliceStable(r.Failures, func(i, j int) bool {
		return r.Failures[i].Index < r.Failures[j].Index
	})
}
