package memory

import (
	"sort"
	"strings"
)

// Rank filters and orders records for prompt composition.
//
// A record is a candidate when it belongs to the thread's invocation, or the
// query appears case-insensitively in its text or matches one of its tags.
// When contextTags is non-empty the record's tags must also intersect it.
// Candidates are ordered by descending priority; among equal priorities,
// records whose text contains the query sort first, otherwise the stable
// input order is kept. At most limit records are returned.
//
// Rank is a pure function of its inputs: identical records and arguments
// always produce the identical result.
func Rank(records []Record, invocation, query string, contextTags []string, limit int) []Record {
	if limit <= 0 {
		return nil
	}

	q := strings.ToLower(strings.TrimSpace(query))

	var candidates []Record
	for _, r := range records {
		if !matchesInvocationOrQuery(r, invocation, q) {
			continue
		}
		if len(contextTags) > 0 && !intersectsTags(r, contextTags) {
			continue
		}
		candidates = append(candidates, r)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority > candidates[j].Priority
		}
		if q != "" {
			// Direct text hits outrank same-priority non-hits.
			return textContains(candidates[i], q) && !textContains(candidates[j], q)
		}
		return false
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// matchesInvocationOrQuery implements the candidate filter's first clause.
// An empty query matches nothing on its own; invocation still applies.
func matchesInvocationOrQuery(r Record, invocation, q string) bool {
	if r.Invocation == invocation {
		return true
	}
	if q == "" {
		return false
	}
	if textContains(r, q) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.ToLower(tag) == q {
			return true
		}
	}
	return false
}

func textContains(r Record, q string) bool {
	return strings.Contains(strings.ToLower(r.Text), q)
}

func intersectsTags(r Record, contextTags []string) bool {
	for _, tag := range contextTags {
		if r.HasTag(tag) {
			return true
		}
	}
	return false
}
