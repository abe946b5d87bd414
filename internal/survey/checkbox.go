package survey

import "strings"

// ItemCounter counts selected checkbox options. Labels iterate in the order
// they were first seen, which keeps fuzzy tool matching reproducible.
type ItemCounter struct {
	labels []string
	counts map[string]int
}

// NewItemCounter returns an empty counter.
func NewItemCounter() *ItemCounter {
	return &ItemCounter{counts: map[string]int{}}
}

// Add increments label by one.
func (c *ItemCounter) Add(label string) {
	if _, ok := c.counts[label]; !ok {
		c.labels = append(c.labels, label)
	}
	c.counts[label]++
}

// Count returns the occurrences of label, or 0.
func (c *ItemCounter) Count(label string) int {
	if c == nil {
		return 0
	}
	return c.counts[label]
}

// Labels returns the distinct labels in first-seen order.
func (c *ItemCounter) Labels() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.labels...)
}

// Len returns the number of distinct labels.
func (c *ItemCounter) Len() int {
	if c == nil {
		return 0
	}
	return len(c.labels)
}

// Map copies the counts into a plain map.
func (c *ItemCounter) Map() map[string]int {
	out := make(map[string]int, c.Len())
	for _, l := range c.Labels() {
		out[l] = c.counts[l]
	}
	return out
}

// Aggregate splits multi-select cells on ", " and counts each trimmed option,
// skipping empty cells and options that contain an exclusion keyword. An
// option repeated inside one cell counts once, so no label exceeds the
// number of cells.
func Aggregate(cells []string) *ItemCounter {
	c := NewItemCounter()
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		seen := map[string]bool{}
		for _, item := range strings.Split(cell, CheckboxDelimiter) {
			item = strings.TrimSpace(item)
			if seen[item] || isExcluded(item) {
				continue
			}
			seen[item] = true
			c.Add(item)
		}
	}
	return c
}

func isExcluded(item string) bool {
	return containsAny(item, ExcludeKeywords)
}
