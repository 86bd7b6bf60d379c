// Package job defines the stateful representation of a unit of work within
// the queue lifecycle.
//
// A Job carries both producer-supplied data (Type, Target) and the
// state-machine fields the queue itself owns: Status, Attempts, LeaseUntil,
// NextRunAt, Result and Error. These are maintained exclusively by the
// Engine and Inspector interfaces in package queue.
//
// Job values are snapshots. They are returned by Engine and Inspector
// methods and must not be constructed or mutated directly by calling code;
// state transitions happen only through the Engine interface.
package job
