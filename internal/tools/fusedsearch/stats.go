package fusedsearch

// computeStats derives per-source counts and overlap figures from the raw
// outcomes and the merged sequence. Failed and skipped sources count as 0.
// The cost stays nil unless DataForSEO actually reported one; it is never
// defaulted to 0.
func computeStats(primary, secondary SourceOutcome, merged []*MergedRecord) Stats {
	stats := Stats{
		DataForSEOCount: len(primary.contributed()),
		BraveCount:      len(secondary.contributed()),
		TotalUnique:     len(merged),
	}

	for _, record := range merged {
		if len(record.sources) > 1 {
			stats.Common++
		}
	}

	if primary.Status == OutcomeSuccess {
		stats.DataForSEOCost = primary.Cost
	}
	return stats
}
