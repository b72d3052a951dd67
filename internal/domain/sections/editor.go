package sections

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var ErrIndexOutOfRange = errors.New("section index out of range")

// Editor applies list operations to a section list. It never mutates the list
// it is given: every operation returns a replacement list the caller must keep.
// The only state it owns is the per-section expanded flag, keyed by id.
type Editor struct {
	catalog  Catalog
	expanded map[string]bool
	newID    func() string
}

func NewEditor(catalog Catalog) *Editor {
	return &Editor{
		catalog:  catalog,
		expanded: map[string]bool{},
		newID:    uuid.NewString,
	}
}

func (e *Editor) Catalog() Catalog {
	return e.catalog
}

// Add appends a new empty section of the given type. Unknown types leave the
// list unchanged.
func (e *Editor) Add(list []Section, sectionType string) []Section {
	entry, ok := e.catalog.Lookup(sectionType)
	if !ok {
		return list
	}

	s := Section{
		ID:      e.newID(),
		Type:    entry.Type,
		Name:    entry.Name,
		Content: json.RawMessage(`{}`),
	}

	out := make([]Section, 0, len(list)+1)
	out = append(out, list...)
	out = append(out, s)

	e.expanded[s.ID] = true
	return out
}

func (e *Editor) Remove(list []Section, id string) []Section {
	out := make([]Section, 0, len(list))
	for _, s := range list {
		if s.ID != id {
			out = append(out, s)
		}
	}
	delete(e.expanded, id)
	return out
}

// Duplicate inserts a copy of list[index] right after it, with a new id.
func (e *Editor) Duplicate(list []Section, index int) ([]Section, error) {
	if index < 0 || index >= len(list) {
		return list, fmt.Errorf("duplicate %d of %d: %w", index, len(list), ErrIndexOutOfRange)
	}

	dup := list[index].clone()
	dup.ID = e.newID()

	out := make([]Section, 0, len(list)+1)
	out = append(out, list[:index+1]...)
	out = append(out, dup)
	out = append(out, list[index+1:]...)

	e.expanded[dup.ID] = true
	return out, nil
}

// Reorder moves the section at src to dst, shifting the ones in between.
// A drop outside the list (either index out of range) is ignored.
func (e *Editor) Reorder(list []Section, src, dst int) []Section {
	n := len(list)
	if src < 0 || src >= n || dst < 0 || dst >= n {
		return list
	}

	out := make([]Section, 0, n)
	out = append(out, list[:src]...)
	out = append(out, list[src+1:]...)

	moved := list[src]
	out = append(out[:dst], append([]Section{moved}, out[dst:]...)...)
	return out
}

func (e *Editor) Toggle(id string) {
	if e.expanded[id] {
		delete(e.expanded, id)
		return
	}
	e.expanded[id] = true
}

func (e *Editor) IsExpanded(id string) bool {
	return e.expanded[id]
}

// Expanded returns the ids of expanded sections that are still in list, in
// list order.
func (e *Editor) Expanded(list []Section) []string {
	out := []string{}
	for _, s := range list {
		if e.expanded[s.ID] {
			out = append(out, s.ID)
		}
	}
	return out
}
