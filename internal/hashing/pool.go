package hashing

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/kotae42/romaudit-cli/internal/catalog"
	"github.com/kotae42/romaudit-cli/internal/fingerprint"
)

// Result carries one file's digests, or the per-file error that prevented
// them. A batch never fails as a whole.
type Result struct {
	Identity  fingerprint.Identity
	Digests   catalog.HashSet
	FromCache bool
	Err       error
}

// Pool distributes hashing across a bounded set of workers. Each worker
// processes one file fully before taking the next.
type Pool struct {
	Algorithms    []catalog.Algorithm
	BufferSize    int
	MmapThreshold int64
	Workers       int
	Cache         *fingerprint.Cache
}

func (p *Pool) workerCount() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Run hashes the supplied identities and streams results on the returned
// channel, which closes when the batch is drained or ctx is cancelled.
// Cancellation is cooperative: it is observed between files, never mid-file.
func (p *Pool) Run(ctx context.Context, identities []fingerprint.Identity) <-chan Result {
	jobs := make(chan fingerprint.Identity)
	results := make(chan Result, p.workerCount())

	var group errgroup.Group
	for i := 0; i < p.workerCount(); i++ {
		group.Go(func() error {
			for id := range jobs {
				results <- p.process(id)
				if ctx.Err() != nil {
					return nil
				}
			}
			return nil
		})
	}

	go func() {
		defer close(jobs)
		for _, id := range identities {
			select {
			case jobs <- id:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = group.Wait()
		close(results)
	}()

	return results
}

func (p *Pool) process(id fingerprint.Identity) Result {
	if p.Cache != nil {
		if digests, ok := p.Cache.Lookup(id); ok && covers(digests, p.Algorithms) {
			return Result{Identity: id, Digests: digests, FromCache: true}
		}
	}

	digests, err := File(id.Path, id.Size, p.Algorithms, p.BufferSize, p.MmapThreshold)
	if err != nil {
		return Result{Identity: id, Err: err}
	}
	if p.Cache != nil {
		p.Cache.Store(id, digests)
	}
	return Result{Identity: id, Digests: digests}
}

func covers(digests catalog.HashSet, algos []catalog.Algorithm) bool {
	for _, algo := range algos {
		if _, ok := digests[algo]; !ok {
			return false
		}
	}
	return true
}
