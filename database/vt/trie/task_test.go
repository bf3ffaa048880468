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
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTask_Run_PerformsActionAndReturnsNoParentIfThereIsNone(t *testing.T) {
	require := require.New(t)
	counter := 0
	tk := newTask(func() { counter++ }, 0)
	require.Nil(tk.run())
	require.Equal(1, counter)
}

func TestTask_Run_ReturnsParentOnlyAfterLastChildCompleted(t *testing.T) {
	require := require.New(t)

	parent := newTask(func() {}, 3)
	children := []*task{newTask(func() {}, 0), newTask(func() {}, 0), newTask(func() {}, 0)}
	for _, child := range children {
		child.parentTask = parent
	}

	require.Nil(children[0].run())
	require.EqualValues(2, parent.pending.Load())
	require.Nil(children[1].run())
	require.EqualValues(1, parent.pending.Load())
	require.Same(parent, children[2].run())
	require.EqualValues(0, parent.pending.Load())
}

func TestRunTasks_ChainIsExecutedInOrder(t *testing.T) {
	// Sizes cover the sequential and the parallel execution.
	for _, n := range []int{1, 5, sequentialTaskLimit, 100} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			var executed atomic.Int32
			tasks := make([]*task, n)
			for i := range n {
				numChildren := 1
				if i == 0 {
					numChildren = 0
				}
				tasks[i] = newTask(func() {
					require.EqualValues(t, i, executed.Load())
					executed.Add(1)
				}, numChildren)
				if i > 0 {
					tasks[i-1].parentTask = tasks[i]
				}
			}
			runTasks(tasks)
			require.EqualValues(t, n, executed.Load())
		})
	}
}

func TestRunTasks_ParentRunsAfterAllChildren(t *testing.T) {
	for _, fanOut := range []int{0, 1, 10, 256} {
		t.Run(fmt.Sprintf("fanOut=%d", fanOut), func(t *testing.T) {
			var completed atomic.Int32
			rootDone := false
			root := newTask(func() {
				require.EqualValues(t, fanOut, completed.Load())
				rootDone = true
			}, fanOut)

			tasks := make([]*task, 0, fanOut+1)
			for range fanOut {
				child := newTask(func() { completed.Add(1) }, 0)
				child.parentTask = root
				tasks = append(tasks, child)
			}
			tasks = append(tasks, root)

			runTasks(tasks)
			require.True(t, rootDone)
		})
	}
}

func TestRunTasks_TwoLevelTreeCompletesAllTasks(t *testing.T) {
	require := require.New(t)

	const groups, perGroup = 16, 16
	var leaves, middles atomic.Int32
	root := newTask(func() {
		require.EqualValues(groups*perGroup, leaves.Load())
		require.EqualValues(groups, middles.Load())
	}, groups)

	tasks := []*task{}
	for range groups {
		middle := newTask(func() { middles.Add(1) }, perGroup)
		middle.parentTask = root
		for range perGroup {
			leaf := newTask(func() { leaves.Add(1) }, 0)
			leaf.parentTask = middle
			tasks = append(tasks, leaf)
		}
		tasks = append(tasks, middle)
	}
	tasks = append(tasks, root)

	runTasks(tasks)
	require.EqualValues(groups, middles.Load())
}
