//
//Copyright [2016] [SnapRoute Inc]
//
//Licensed under the Apache License, Version 2.0 (the "License");
//you may not use this file except in compliance with the License.
//You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//	 Unless required by applicable law or agreed to in writing, software
//	 distributed under the License is distributed on an "AS IS" BASIS,
//	 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//	 See the License for the specific language governing permissions and
//	 limitations under the License.
//
// _______  __       __________   ___      _______.____    __    ____  __  .___________.  ______  __    __
// |   ____||  |     |   ____\  \ /  /     /       |\   \  /  \  /   / |  | |           | /      ||  |  |  |
// |  |__   |  |     |  |__   \  V  /     |   (----` \   \/    \/   /  |  | `---|  |----`|  ,----'|  |__|  |
// |   __|  |  |     |   __|   >   <       \   \      \            /   |  |     |  |     |  |     |   __   |
// |  |     |  `----.|  |____ /  .  \  .----)   |      \    /\    /    |  |     |  |     |  `----.|  |  |  |
// |__|     |_______||_______/__/ \__\ |_______/        \__/  \__/     |__|     |__|      \______||__|  |__|
//

// table.go
package intern

import (
	"sync"
)

// Value is content that can live in a Table. HashKey must be stable for the
// lifetime of the value and Equal must compare content, not identity.
type Value interface {
	HashKey() uint32
	Equal(Value) bool
}

type entry struct {
	val    Value
	refcnt uint32
}

// Table is a refcounted, content addressed store. Intern deduplicates equal
// content and hands back the canonical instance; Unintern releases one
// reference and removes the entry when the last reference drops. A table is
// safe for concurrent use.
type Table struct {
	rwMutex *sync.RWMutex
	buckets map[uint32][]*entry
	alloc   func(Value) Value
}

// NewTable creates a table. alloc is invoked on a lookup miss to build the
// table owned copy of the candidate; pass nil to store candidates as given.
func NewTable(alloc func(Value) Value) *Table {
	return &Table{
		rwMutex: &sync.RWMutex{},
		buckets: make(map[uint32][]*entry),
		alloc:   alloc,
	}
}

func (t *Table) find(val Value) (uint32, int, *entry) {
	key := val.HashKey()
	for idx, item := range t.buckets[key] {
		if item.val.Equal(val) {
			return key, idx, item
		}
	}
	return key, -1, nil
}

// Intern returns the canonical instance for val with its refcount bumped.
// On a miss the candidate (or its alloc copy) is inserted with refcount 1;
// on a hit the candidate is discarded.
func (t *Table) Intern(val Value) Value {
	t.rwMutex.Lock()
	defer t.rwMutex.Unlock()

	key, _, item := t.find(val)
	if item != nil {
		item.refcnt++
		return item.val
	}

	owned := val
	if t.alloc != nil {
		owned = t.alloc(val)
	}
	t.buckets[key] = append(t.buckets[key], &entry{val: owned, refcnt: 1})
	return owned
}

// Unintern drops one reference to the entry matching val. It returns true
// when the entry was removed from the table.
func (t *Table) Unintern(val Value) bool {
	t.rwMutex.Lock()
	defer t.rwMutex.Unlock()

	key, idx, item := t.find(val)
	if item == nil {
		return false
	}

	item.refcnt--
	if item.refcnt > 0 {
		return false
	}

	bucket := t.buckets[key]
	bucket[idx] = bucket[len(bucket)-1]
	bucket = bucket[:len(bucket)-1]
	if len(bucket) == 0 {
		delete(t.buckets, key)
	} else {
		t.buckets[key] = bucket
	}
	return true
}

// RefCount reports the refcount of the entry matching val, 0 when absent.
func (t *Table) RefCount(val Value) uint32 {
	t.rwMutex.RLock()
	defer t.rwMutex.RUnlock()

	_, _, item := t.find(val)
	if item == nil {
		return 0
	}
	return item.refcnt
}

// Lookup returns the canonical instance without touching the refcount.
func (t *Table) Lookup(val Value) (Value, bool) {
	t.rwMutex.RLock()
	defer t.rwMutex.RUnlock()

	_, _, item := t.find(val)
	if item == nil {
		return nil, false
	}
	return item.val, true
}

// Count reports the number of live entries.
func (t *Table) Count() int {
	t.rwMutex.RLock()
	defer t.rwMutex.RUnlock()

	count := 0
	for _, bucket := range t.buckets {
		count += len(bucket)
	}
	return count
}

// Walk calls fn for every live entry with its refcount.
func (t *Table) Walk(fn func(val Value, refcnt uint32)) {
	t.rwMutex.RLock()
	defer t.rwMutex.RUnlock()

	for _, bucket := range t.buckets {
		for _, item := range bucket {
			fn(item.val, item.refcnt)
		}
	}
}

// Shutdown drops every entry regardless of refcount.
func (t *Table) Shutdown() {
	t.rwMutex.Lock()
	defer t.rwMutex.Unlock()
	t.buckets = make(map[uint32][]*entry)
}
