package node

import (
	"sync/atomic"
	"time"
)

// Node is the runtime state of one selected asset during a single run.
// Structure lives in the dag package; a Node only tracks progress.
type Node struct {
	// Name is the asset name, unique within the run.
	Name string
	// Error stores the failure or skip reason once the node is terminal.
	Error error
	// Started and Finished bracket the materialization, zero when skipped.
	Started  time.Time
	Finished time.Time

	// depCount is an atomic counter for unfinished dependencies.
	depCount atomic.Int32
	// state is the node's current execution state, managed atomically.
	state atomic.Int32
}

// New creates a pending node with the given number of unmet dependencies.
func New(name string, deps int) *Node {
	n := &Node{Name: name}
	n.depCount.Store(int32(deps))
	return n
}

// State represents the execution state of a node in the graph.
type State int32

const (
	// Pending indicates the node is waiting for its dependencies to complete.
	Pending State = iota
	// Running indicates the node is currently being executed by a worker.
	Running
	// Succeeded indicates the node has completed execution successfully.
	Succeeded
	// Failed indicates the node's materialization returned an error.
	Failed
	// Skipped indicates the node never ran because an upstream node failed
	// or the run was cancelled.
	Skipped
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in reports.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == Succeeded || s == Failed || s == Skipped
}

// DepCount atomically returns the current number of unmet dependencies.
func (n *Node) DepCount() int32 {
	return n.depCount.Load()
}

// DecrementDepCount atomically decrements the dependency counter and returns the new value.
func (n *Node) DecrementDepCount() int32 {
	return n.depCount.Add(-1)
}

// GetState atomically retrieves the node's execution state.
func (n *Node) GetState() State {
	return State(n.state.Load())
}

// Start moves a pending node to Running. It returns false if the node was
// already claimed or skipped.
func (n *Node) Start() bool {
	if !n.state.CompareAndSwap(int32(Pending), int32(Running)) {
		return false
	}
	n.Started = time.Now()
	return true
}

// Succeed moves a running node to Succeeded.
func (n *Node) Succeed() bool {
	if !n.state.CompareAndSwap(int32(Running), int32(Succeeded)) {
		return false
	}
	n.Finished = time.Now()
	return true
}

// Fail moves a running node to Failed and records the cause.
func (n *Node) Fail(err error) bool {
	if !n.state.CompareAndSwap(int32(Running), int32(Failed)) {
		return false
	}
	n.Error = err
	n.Finished = time.Now()
	return true
}

// Skip marks a pending node as skipped. Only the first caller wins, so the
// executor can release the node's wait slot exactly once.
func (n *Node) Skip(err error) bool {
	if !n.state.CompareAndSwap(int32(Pending), int32(Skipped)) {
		return false
	}
	n.Error = err
	return true
}
