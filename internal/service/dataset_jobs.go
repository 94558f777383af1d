package service

import (
	"context"
	"sync"

	"context-builder/internal/domain"
)

// ingestJob is one queued unit of background work on a dataset.
type ingestJob struct {
	datasetID string
	documents []domain.Document
	removed   []string
	ticket    *jobTicket
}

// keyedMutex hands out one mutex per dataset id. Entries are dropped once
// nobody holds or waits on them.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// jobQueue runs jobs for the same dataset one after another, in the order
// they were enqueued. Jobs for different datasets do not wait on each other.
type jobQueue struct {
	mu    sync.Mutex
	tails map[string]chan struct{}
}

type jobTicket struct {
	q    *jobQueue
	key  string
	prev <-chan struct{}
	done chan struct{}
}

func (q *jobQueue) enqueue(key string) *jobTicket {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.tails == nil {
		q.tails = make(map[string]chan struct{})
	}
	t := &jobTicket{q: q, key: key, prev: q.tails[key], done: make(chan struct{})}
	q.tails[key] = t.done
	return t
}

// wait blocks until every earlier job for the same dataset has released.
func (t *jobTicket) wait(ctx context.Context) error {
	if t.prev == nil {
		return nil
	}
	select {
	case <-t.prev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// superseded reports whether a later job is queued behind this one.
func (t *jobTicket) superseded() bool {
	t.q.mu.Lock()
	defer t.q.mu.Unlock()
	return t.q.tails[t.key] != t.done
}

func (t *jobTicket) release() {
	t.q.mu.Lock()
	if t.q.tails[t.key] == t.done {
		delete(t.q.tails, t.key)
	}
	t.q.mu.Unlock()
	close(t.done)
}
