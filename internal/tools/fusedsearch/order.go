package fusedsearch

// orderRecords assigns final rank positions. DataForSEO's native order is
// treated as ground truth, Brave-only results follow in Brave's native
// order, and any record neither walk reached is emitted in creation order so
// nothing is ever silently dropped. Positions are a contiguous 1..N
// sequence. Within one source's raw list the first occurrence of a key wins;
// later duplicates were already folded in by the fusion engine.
func orderRecords(m *mergeSet, primary, secondary SourceOutcome) []*MergedRecord {
	ordered := make([]*MergedRecord, 0, len(m.records))
	emitted := make(map[string]bool, len(m.records))

	emit := func(key string) {
		record, ok := m.records[key]
		if !ok || emitted[key] {
			return
		}
		emitted[key] = true
		ordered = append(ordered, record)
	}

	for _, raw := range primary.contributed() {
		if raw.URL == "" {
			continue
		}
		emit(NormaliseURL(raw.URL).Value)
	}
	for _, raw := range secondary.contributed() {
		if raw.URL == "" {
			continue
		}
		emit(NormaliseURL(raw.URL).Value)
	}
	for _, key := range m.creationOrder {
		emit(key)
	}

	for i, record := range ordered {
		record.Position = i + 1
		record.finaliseFoundBy()
	}
	return ordered
}
