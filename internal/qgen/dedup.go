package qgen

// dedup removes exact-string repeats, keeping the first occurrence.
// It returns the unique values and the number removed.
func dedup(questions []string) ([]string, int) {
	seen := make(map[string]struct{}, len(questions))
	out := make([]string, 0, len(questions))
	for _, q := range questions {
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out, len(questions) - len(out)
}
