package remote

// Record is any remote entity with a stable identifier
type Record interface {
	RecordID() string
}

// DedupeByID drops records whose id was already seen, keeping the first
// occurrence and the original order. Records with an empty id are kept.
func DedupeByID[T Record](items []T) []T {
	seen := make(map[string]bool, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		id := item.RecordID()
		if id != "" {
			if seen[id] {
				continue
			}
			seen[id] = true
		}
		out = append(out, item)
	}
	return out
}
