// Package rostertest provides an in-memory roster.Tx for tests.
package rostertest

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/solutyics/sales-distributor-aturab/internal/roster"
)

// ErrInjected is returned by an operation named in Memory.FailOn
var ErrInjected = errors.New("injected failure")

// Memory is a roster.Tx over maps. Owners must be registered with AddOwner and
// members with AddMember; a member with an empty owner is unassigned.
type Memory struct {
	mu       sync.Mutex
	owners   map[roster.Relation]map[string]int
	members  map[roster.Relation]map[string]string
	FailOn   string
	Calls    []string
	Attached [][]string
}

// New returns an empty Memory
func New() *Memory {
	return &Memory{
		owners:  map[roster.Relation]map[string]int{},
		members: map[roster.Relation]map[string]string{},
	}
}

// AddOwner registers an owner with a counter value
func (m *Memory) AddOwner(rel roster.Relation, ownerID string, counter int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.owners[rel] == nil {
		m.owners[rel] = map[string]int{}
	}
	m.owners[rel][ownerID] = counter
}

// AddMember registers a member, optionally pointing at ownerID
func (m *Memory) AddMember(rel roster.Relation, memberID, ownerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.members[rel] == nil {
		m.members[rel] = map[string]string{}
	}
	m.members[rel][memberID] = ownerID
}

// RemoveMember forgets a member, as when its row is deleted
func (m *Memory) RemoveMember(rel roster.Relation, memberID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.members[rel], memberID)
}

// Counter returns the stored counter of an owner
func (m *Memory) Counter(rel roster.Relation, ownerID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.owners[rel][ownerID]
}

// Owner returns the owner a member points at, empty when unassigned
func (m *Memory) Owner(rel roster.Relation, memberID string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.members[rel][memberID]
}

// Roster returns the sorted members of an owner
func (m *Memory) Roster(rel roster.Relation, ownerID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rosterLocked(rel, ownerID)
}

// Unassigned returns the sorted members pointing at no owner
func (m *Memory) Unassigned(rel roster.Relation) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rosterLocked(rel, "")
}

// Snapshot copies all state, for rollback in fakes that model transactions
func (m *Memory) Snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	owners := map[roster.Relation]map[string]int{}
	for rel, o := range m.owners {
		owners[rel] = map[string]int{}
		for k, v := range o {
			owners[rel][k] = v
		}
	}
	members := map[roster.Relation]map[string]string{}
	for rel, mm := range m.members {
		members[rel] = map[string]string{}
		for k, v := range mm {
			members[rel][k] = v
		}
	}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.owners = owners
		m.members = members
	}
}

func (m *Memory) rosterLocked(rel roster.Relation, ownerID string) []string {
	out := make([]string, 0)
	for id, owner := range m.members[rel] {
		if owner == ownerID {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (m *Memory) call(op string) error {
	m.Calls = append(m.Calls, op)
	if m.FailOn == op {
		return ErrInjected
	}
	return nil
}

func (m *Memory) LockOwner(_ context.Context, _ roster.Relation, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.call("LockOwner")
}

func (m *Memory) Members(_ context.Context, rel roster.Relation, ownerID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("Members"); err != nil {
		return nil, err
	}
	return m.rosterLocked(rel, ownerID), nil
}

func (m *Memory) Detach(_ context.Context, rel roster.Relation, ownerID string, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("Detach"); err != nil {
		return 0, err
	}
	var n int64
	for _, id := range ids {
		if owner, ok := m.members[rel][id]; ok && owner == ownerID {
			m.members[rel][id] = ""
			n++
		}
	}
	return n, nil
}

func (m *Memory) Owners(_ context.Context, rel roster.Relation, ownerID string, ids []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("Owners"); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	out := make([]string, 0)
	for _, id := range ids {
		owner := m.members[rel][id]
		if owner != "" && owner != ownerID && !seen[owner] {
			seen[owner] = true
			out = append(out, owner)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) Attach(_ context.Context, rel roster.Relation, ownerID string, ids []string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("Attach"); err != nil {
		return 0, err
	}
	m.Attached = append(m.Attached, append([]string(nil), ids...))
	var n int64
	for _, id := range ids {
		if _, ok := m.members[rel][id]; ok {
			m.members[rel][id] = ownerID
			n++
		}
	}
	return n, nil
}

func (m *Memory) CountMembers(_ context.Context, rel roster.Relation, ownerID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("CountMembers"); err != nil {
		return 0, err
	}
	return len(m.rosterLocked(rel, ownerID)), nil
}

func (m *Memory) SetCounter(_ context.Context, rel roster.Relation, ownerID string, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.call("SetCounter"); err != nil {
		return err
	}
	if _, ok := m.owners[rel][ownerID]; ok {
		m.owners[rel][ownerID] = n
	}
	return nil
}

var _ roster.Tx = (*Memory)(nil)
