package fusedsearch

// mergeSet holds the deduplicated records keyed by canonical URL, plus the
// order keys were first created in. Output ordering never relies on map
// iteration order; the creation order is only a safety net for records the
// per-source walks somehow miss.
type mergeSet struct {
	records       map[string]*MergedRecord
	creationOrder []string
}

// fuse folds the raw results of both sources into one record per canonical
// URL. DataForSEO is the privileged source: its field values win whenever it
// saw the page, while Brave only fills fields the record is missing. Failure
// and Skipped outcomes simply contribute no results.
func fuse(primary, secondary SourceOutcome) *mergeSet {
	m := &mergeSet{records: make(map[string]*MergedRecord)}
	m.fold(primary.contributed(), SourceDataForSEO, true)
	m.fold(secondary.contributed(), SourceBrave, false)
	return m
}

func (m *mergeSet) fold(results []RawResult, source string, privileged bool) {
	for _, raw := range results {
		// malformed upstream item, dropped silently
		if raw.URL == "" {
			continue
		}

		key := NormaliseURL(raw.URL).Value
		record, exists := m.records[key]
		if !exists {
			m.records[key] = &MergedRecord{
				Title:       raw.Title,
				URL:         raw.URL,
				Description: raw.Description,
				Domain:      raw.Domain,
				Type:        raw.Type,
				sources:     map[string]struct{}{source: {}},
			}
			m.creationOrder = append(m.creationOrder, key)
			continue
		}

		record.sources[source] = struct{}{}
		if privileged {
			record.overwrite(raw)
		} else {
			record.fillGaps(raw)
		}
	}
}
