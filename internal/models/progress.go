package models

import "slices"

// CompletedSet is the ordered, duplicate-free list of item IDs marked done.
//
// Duplicates are rejected by [CompletedSet.Add]; a set decoded from disk is taken as-is.
type CompletedSet []string

// Contains reports whether id is marked done.
func (s CompletedSet) Contains(id string) bool {
	return slices.Contains(s, id)
}

// Add appends id when absent and reports whether the set changed.
func (s *CompletedSet) Add(id string) bool {
	if s.Contains(id) {
		return false
	}
	*s = append(*s, id)
	return true
}

// Remove drops every occurrence of id and reports whether the set changed.
func (s *CompletedSet) Remove(id string) bool {
	n := len(*s)
	*s = slices.DeleteFunc(*s, func(v string) bool { return v == id })
	return len(*s) != n
}

// IDs returns a copy of the set that is never nil, so it serializes as `[]`.
func (s CompletedSet) IDs() []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// Partition splits items into pending and completed, preserving order.
func (s CompletedSet) Partition(items []ContentItem) (pending, done []ContentItem) {
	lookup := make(map[string]struct{}, len(s))
	for _, id := range s {
		lookup[id] = struct{}{}
	}
	for _, item := range items {
		if _, ok := lookup[item.ID]; ok {
			done = append(done, item)
		} else {
			pending = append(pending, item)
		}
	}
	return pending, done
}

// GroupBySubject buckets items by subject name, returning the names in first-seen order.
func GroupBySubject(items []ContentItem) ([]string, map[string][]ContentItem) {
	var order []string
	groups := map[string][]ContentItem{}
	for _, item := range items {
		if _, ok := groups[item.SubjectName]; !ok {
			order = append(order, item.SubjectName)
		}
		groups[item.SubjectName] = append(groups[item.SubjectName], item)
	}
	return order, groups
}
