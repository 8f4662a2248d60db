package health

// Recommendations derives the ordered recommendation list from the combined
// deductions of both scorers. Input order is preserved (hardware
// cpu→memory→disk, then application zombie→integration→backup→update);
// identical messages are merged into their first occurrence so repeated
// templates do not flood the list. An empty deduction set yields an empty
// list, never a placeholder.
func Recommendations(deds []Deduction) []string {
	out := make([]string, 0, len(deds))
	seen := make(map[string]bool, len(deds))
	for _, d := range deds {
		if d.Message == "" || seen[d.Message] {
			continue
		}
		seen[d.Message] = true
		out = append(out, d.Message)
	}
	return out
}
