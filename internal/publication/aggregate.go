package publication

// Dedupe concatenates the per-term identifier lists in term order and drops
// later duplicates, keeping the first occurrence. Each individual search
// already returns results most-recent-first, so preserving first-seen order
// approximates recency across terms; no secondary reordering happens here.
func Dedupe(idsPerTerm [][]string) []string {
	seen := make(map[string]bool)
	var unique []string
	for _, ids := range idsPerTerm {
		for _, id := range ids {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			unique = append(unique, id)
		}
	}
	return unique
}
