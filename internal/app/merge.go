package app

import "consumer_trends/internal/domain"

// MergeByKey concatenates existing and incoming and drops every record whose
// key appears again later, so the last occurrence wins and stays where it sat
// in the concatenation. An empty key is an ordinary value: keyless records
// collapse into the last one, as every RecordStore backend does.
func MergeByKey(existing, incoming []domain.Record) ([]domain.Record, domain.MergeStats) {
	all := make([]domain.Record, 0, len(existing)+len(incoming))
	all = append(all, existing...)
	all = append(all, incoming...)

	last := make(map[string]int, len(all))
	for i, r := range all {
		last[r.Key] = i
	}

	out := make([]domain.Record, 0, len(last))
	for i, r := range all {
		if last[r.Key] != i {
			continue
		}
		out = append(out, r)
	}

	st := domain.MergeStats{
		Existing: len(existing),
		Incoming: len(incoming),
		Total:    len(out),
	}
	before := make(map[string]struct{}, len(existing))
	for _, r := range existing {
		before[r.Key] = struct{}{}
	}
	seen := make(map[string]struct{}, len(incoming))
	for _, r := range incoming {
		if _, dup := seen[r.Key]; dup {
			continue
		}
		seen[r.Key] = struct{}{}
		if _, ok := before[r.Key]; ok {
			st.Replaced++
		} else {
			st.Inserted++
		}
	}
	return out, st
}
