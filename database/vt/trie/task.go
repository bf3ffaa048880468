// Copyright (c) 2025 Sonic Operations Ltd
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at soniclabs.com/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package trie

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Commitments are filled in parallel by executing a tree of tasks. Every task
// recomputes the commitment of one node and may have a parent task, the
// recomputation of the parent node, that waits for it. A parent becomes ready
// once its last pending child has completed.
//
// runTasks expects the full list of tasks, closed under dependencies and
// listing children before their parents. Neither property is checked; a
// missing dependency leads to a deadlock.

// task is the recomputation of a single node's commitment.
type task struct {
	action     func()
	pending    atomic.Int32 // < number of children not yet completed
	parentTask *task        // < nil for the task of the topmost dirty node
}

// newTask creates a task that becomes ready after the given number of
// children have completed.
func newTask(action func(), numChildren int) *task {
	t := &task{action: action}
	t.pending.Store(int32(numChildren))
	return t
}

// run performs the task's action and returns the parent task if this was the
// parent's last pending child. Otherwise nil is returned.
func (t *task) run() *task {
	t.action()
	parent := t.parentTask
	if parent == nil || parent.pending.Add(-1) != 0 {
		return nil
	}
	return parent
}

// sequentialTaskLimit is the size of a task list below which the tasks are
// executed in list order on the calling goroutine.
const sequentialTaskLimit = 20

// runTasks executes all tasks, using up to one goroutine per CPU, and returns
// once all of them are complete.
func runTasks(tasks []*task) {
	if len(tasks) < sequentialTaskLimit {
		for _, task := range tasks {
			task.action()
		}
		return
	}

	// Only tasks without children are queued. Every other task is picked up
	// by the goroutine completing its last child.
	ready := make(chan *task, len(tasks))
	for _, task := range tasks {
		if task.pending.Load() == 0 {
			ready <- task
		}
	}
	close(ready)

	var done sync.WaitGroup
	done.Add(len(tasks))
	work := func() {
		for next := range ready {
			for next != nil {
				next = next.run()
				done.Done()
			}
		}
	}
	for range max(runtime.NumCPU()-1, 1) {
		go work()
	}
	work()
	done.Wait()
}
