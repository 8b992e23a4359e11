package domain

import "sort"

// Topic is a short natural-language string naming a concept or skill.
// Topics are compared by exact string match; no normalisation is applied.
type Topic = string

// TopicSet accumulates topics with exact-match deduplication.
type TopicSet struct {
	items map[Topic]struct{}
}

// NewTopicSet creates an empty topic set.
func NewTopicSet() *TopicSet {
	return &TopicSet{items: make(map[Topic]struct{})}
}

// Add inserts topics into the set. Returns how many were new.
func (s *TopicSet) Add(topics ...Topic) int {
	added := 0
	for _, t := range topics {
		if _, ok := s.items[t]; ok {
			continue
		}
		s.items[t] = struct{}{}
		added++
	}
	return added
}

// Len returns the number of unique topics.
func (s *TopicSet) Len() int {
	return len(s.items)
}

// Sorted returns the topics in deterministic (byte-wise) order.
func (s *TopicSet) Sorted() []Topic {
	out := make([]Topic, 0, len(s.items))
	for t := range s.items {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
