// Package queue defines the durable job queue's storage-agnostic contract:
// the Engine state machine (enqueue, lease, complete, fail-with-retry,
// reclaim) and the read-only Inspector views (get, stats, list, purge).
//
// # Overview
//
// The package separates the queue's behavior from its persistence. Engine
// and Inspector are interfaces; package store provides a bun/SQLite backed
// implementation. This mirrors how the durable queue this package is
// descended from kept its Pusher/Puller/Observer contracts independent of
// any one storage backend.
//
// # Delivery Semantics
//
// The queue provides at-least-once delivery. A job may be delivered more
// than once if a consumer crashes before completing it, or if its lease
// expires before completion. Consumers must therefore be idempotent.
//
// Visibility Timeout (Lease Model)
//
// When a job is dequeued, it transitions from Queued to Processing and
// receives a visibility timeout (LeaseUntil = now + LeaseMS). While
// the lease is valid, the job is not eligible for dequeuing by another
// consumer. If the lease expires before Complete or Fail is called, the
// job becomes eligible again — this reclaim does not increment Attempts;
// only an explicit Fail does.
//
// # State Machine
//
//	Queued     -> Processing                (Dequeue)
//	Processing -> Done                      (Complete)
//	Processing -> Queued                    (Fail, attempts remain)
//	Processing -> Failed                    (Fail, attempts exhausted)
//	Processing -> Processing                (reclaim: expired lease re-leased)
//
// Queued and Failed/Done are respectively the initial and terminal states.
//
// # Retry Policy
//
// Fail computes nextAttempts = attempts+1 and looks up a fixed backoff
// schedule (10s / 60s / 300s, see backoff.go). If nextAttempts is still
// under MaxAttempts the job returns to Queued with NextRunAt set to
// now+backoff; otherwise it becomes Failed.
//
// # Concurrency Model
//
// A single logical queue instance ("main") serializes all mutations
// through the Store's single-writer discipline (see package store). Reads
// may run concurrently with writes but observe a snapshot at least as
// recent as their dispatch. Two concurrent Dequeue calls never return the
// same job.
package queue
