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
	"github.com/0xsoniclabs/verkle/go/database/vt/commit"
)

// commitmentState tracks whether the cached commitment of a node reflects the
// node's current content.
type commitmentState byte

const (
	dirty commitmentState = iota // < commitment and field are outdated
	clean                        // < commitment and field are up to date
)

// Positions of the leaf commitment vector.
const (
	leafMarkerIndex    = 0
	leafKeyLowIndex    = 1
	leafKeyHighIndex   = 2
	leafValueLowIndex  = 3
	leafValueHighIndex = 4
	leafVectorLength   = 5
)

// ---- Nodes ----

// node is an interface for trie nodes, which can be either inner or leaf
// nodes. Empty positions are represented by nil.
type node interface {
	get(key Key, depth byte) (Value, bool)

	// insert stores the value without touching any commitments. Every node on
	// the path is marked dirty. The resulting node replacing the receiver is
	// returned together with a flag indicating whether a new key was added.
	insert(key Key, value Value, depth byte) (node, bool)

	// update stores the value while keeping all commitments on the path up to
	// date. It fails with ErrDirtyPath without modifying the trie if any
	// node on the path is dirty. Besides the replacement node and the added
	// flag, the change of the node's commitment field is returned.
	update(key Key, value Value, depth byte) (node, commit.Value, bool, error)

	// addMissingCommitments recomputes the commitments of all dirty nodes in
	// the subtree rooted by this node, bottom-up.
	addMissingCommitments()

	// collectCommitTasks requests the node to append tasks required to be
	// performed to update its commitment. The resulting list should list the
	// tasks in order of dependencies, i.e., when processing the list from start
	// to end, tasks producing inputs for other tasks should appear before
	// tasks consuming those inputs. Furthermore, the last task in the list
	// should be the task that updates this node's commitment. When this task is
	// completed, this node's commitment must be up to date.
	collectCommitTasks(tasks *[]*task)

	getCommitment() commit.Commitment
	getField() commit.Value
	isClean() bool
}

// ---- Inner nodes ----

// inner is the type of an inner node in the Verkle trie. It contains an array
// of 256 child nodes, indexed by one byte of the key. Its commitment is the
// commitment to the fields of its children, where empty children contribute
// zero.
type inner struct {
	children   [commit.VectorSize]node
	commitment commit.Commitment
	field      commit.Value
	state      commitmentState
}

// newInner creates an empty inner node. Its commitment is the identity, which
// is the correct commitment of an inner node without children.
func newInner() *inner {
	return &inner{
		commitment: commit.Identity(),
		state:      clean,
	}
}

func (i *inner) get(key Key, depth byte) (Value, bool) {
	next := i.children[key[depth]]
	if next == nil {
		return Value{}, false
	}
	return next.get(key, depth+1)
}

func (i *inner) insert(key Key, value Value, depth byte) (node, bool) {
	i.state = dirty
	pos := key[depth]
	next := i.children[pos]
	if next == nil {
		i.children[pos] = newLeaf(key, value)
		return i, true
	}
	var added bool
	i.children[pos], added = next.insert(key, value, depth+1)
	return i, added
}

func (i *inner) update(key Key, value Value, depth byte) (node, commit.Value, bool, error) {
	if i.state != clean {
		return i, commit.Value{}, false, ErrDirtyPath
	}
	pos := key[depth]
	var (
		delta commit.Value
		added bool
	)
	if next := i.children[pos]; next == nil {
		leaf := newLeaf(key, value)
		leaf.addMissingCommitments()
		i.children[pos] = leaf
		delta = leaf.field
		added = true
	} else {
		replacement, childDelta, childAdded, err := next.update(key, value, depth+1)
		if err != nil {
			return i, commit.Value{}, false, err
		}
		i.children[pos] = replacement
		delta = childDelta
		added = childAdded
	}

	// The child field is the value at position pos of this node's vector.
	old := i.field
	i.commitment = i.commitment.UpdateByDelta(pos, delta)
	i.field = i.commitment.ToValue()
	return i, i.field.Sub(old), added, nil
}

func (i *inner) addMissingCommitments() {
	if i.state == clean {
		return
	}
	for _, child := range i.children {
		if child != nil {
			child.addMissingCommitments()
		}
	}
	i.recompute()
}

// recompute sets the commitment of this node from the fields of its children,
// which must all be clean.
func (i *inner) recompute() {
	values := [commit.VectorSize]commit.Value{}
	for j, child := range i.children {
		if child != nil {
			values[j] = child.getField()
		}
	}
	i.commitment = commit.Commit(values)
	i.field = i.commitment.ToValue()
	i.state = clean
}

func (i *inner) collectCommitTasks(tasks *[]*task) {
	if i.state == clean {
		return
	}

	// The last task of every dirty child finalizes that child's commitment.
	childTasks := make([]*task, 0, commit.VectorSize)
	for _, child := range i.children {
		if child == nil {
			continue
		}
		lengthBefore := len(*tasks)
		child.collectCommitTasks(tasks)
		if len(*tasks) > lengthBefore {
			childTasks = append(childTasks, (*tasks)[len(*tasks)-1])
		}
	}

	aggTask := newTask(i.recompute, len(childTasks))
	for _, childTask := range childTasks {
		childTask.parentTask = aggTask
	}
	*tasks = append(*tasks, aggTask)
}

func (i *inner) getCommitment() commit.Commitment {
	return i.commitment
}

func (i *inner) getField() commit.Value {
	return i.field
}

func (i *inner) isClean() bool {
	return i.state == clean
}

// ---- Leaf nodes ----

// leaf is the type of a leaf node in the Verkle trie. It holds a single
// key/value pair.
type leaf struct {
	key        Key
	value      Value
	commitment commit.Commitment
	field      commit.Value
	state      commitmentState
}

// newLeaf creates a new dirty leaf node for the given pair.
func newLeaf(key Key, value Value) *leaf {
	return &leaf{key: key, value: value}
}

// leafVector returns the vector a leaf commits to:
//
//	[1, key[:16], key[16:], value[:16], value[16:], 0, ...]
//
// where all 16-byte halves are interpreted as little-endian integers.
func leafVector(key Key, value Value) [commit.VectorSize]commit.Value {
	res := [commit.VectorSize]commit.Value{}
	res[leafMarkerIndex] = commit.NewValue(1)
	res[leafKeyLowIndex] = commit.NewValueFromLittleEndianBytes(key[:16])
	res[leafKeyHighIndex] = commit.NewValueFromLittleEndianBytes(key[16:])
	res[leafValueLowIndex], res[leafValueHighIndex] = valueHalves(value)
	return res
}

// valueHalves returns the field encoding of a value.
func valueHalves(value Value) (low, high commit.Value) {
	return commit.NewValueFromLittleEndianBytes(value[:16]),
		commit.NewValueFromLittleEndianBytes(value[16:])
}

func (l *leaf) get(key Key, _ byte) (Value, bool) {
	if key != l.key {
		return Value{}, false
	}
	return l.value, true
}

func (l *leaf) insert(key Key, value Value, depth byte) (node, bool) {
	if key == l.key {
		l.value = value
		l.state = dirty
		return l, false
	}

	// This leaf needs to be split. Both keys share the first depth bytes,
	// they are re-inserted into a new inner node one level deeper.
	res := &inner{}
	res.children[l.key[depth]] = l
	return res.insert(key, value, depth)
}

func (l *leaf) update(key Key, value Value, depth byte) (node, commit.Value, bool, error) {
	if l.state != clean {
		return l, commit.Value{}, false, ErrDirtyPath
	}

	if key == l.key {
		oldLow, oldHigh := valueHalves(l.value)
		newLow, newHigh := valueHalves(value)
		l.value = value
		l.commitment = l.commitment.
			Update(leafValueLowIndex, oldLow, newLow).
			Update(leafValueHighIndex, oldHigh, newHigh)
		old := l.field
		l.field = l.commitment.ToValue()
		return l, l.field.Sub(old), false, nil
	}

	// Split the leaf, the new inner chain is committed locally. This leaf is
	// clean and keeps its commitment.
	replacement, _ := l.insert(key, value, depth)
	replacement.addMissingCommitments()
	return replacement, replacement.getField().Sub(l.field), true, nil
}

func (l *leaf) addMissingCommitments() {
	if l.state == clean {
		return
	}
	l.commitment = commit.Commit(leafVector(l.key, l.value))
	l.field = l.commitment.ToValue()
	l.state = clean
}

func (l *leaf) collectCommitTasks(tasks *[]*task) {
	if l.state == clean {
		return
	}
	*tasks = append(*tasks, newTask(l.addMissingCommitments, 0))
}

func (l *leaf) getCommitment() commit.Commitment {
	return l.commitment
}

func (l *leaf) getField() commit.Value {
	return l.field
}

func (l *leaf) isClean() bool {
	return l.state == clean
}
