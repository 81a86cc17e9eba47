// Package domain holds the corpus and situation types for the decision
// framework: values (why), principles (how), SOPs (recurring procedures),
// and the situations evaluated against them.
package domain

import "sort"

// Value is a core belief used to weight alignment scoring. Priority 1 is
// the highest.
type Value struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Priority    int    `yaml:"priority" json:"priority"`
	IsCore      bool   `yaml:"is_core" json:"is_core"`
}

// ValueSet is the complete value system, immutable after load.
type ValueSet struct {
	Values []Value `yaml:"values" json:"values"`
}

// ByID returns the value with the given id, or false.
func (vs *ValueSet) ByID(id string) (Value, bool) {
	for _, v := range vs.Values {
		if v.ID == id {
			return v, true
		}
	}
	return Value{}, false
}

// Core returns the core values sorted by priority (highest first).
func (vs *ValueSet) Core() []Value {
	core := make([]Value, 0, len(vs.Values))
	for _, v := range vs.Values {
		if v.IsCore {
			core = append(core, v)
		}
	}
	sort.SliceStable(core, func(i, j int) bool { return core[i].Priority < core[j].Priority })
	return core
}

// Len returns the number of values in the set.
func (vs *ValueSet) Len() int { return len(vs.Values) }
