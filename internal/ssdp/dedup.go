package ssdp

// deduplicator collapses repeated replies into the canonical result set.
// Devices often repeat identical replies across retry rounds or answer once
// per network interface; the first reply for each identity wins and later
// ones are discarded. Insertion order is the session's only ordering
// guarantee: it reflects the arrival order of the first reply from each
// unique service.
type deduplicator struct {
	seen    map[string]struct{}
	records []*ServiceRecord
}

func newDeduplicator() *deduplicator {
	return &deduplicator{
		seen: make(map[string]struct{}),
	}
}

// add inserts rec unless a record with the same identity has already been
// seen. Records without USN or Location have no stable identity and are
// always inserted. Returns true if the record was kept.
func (d *deduplicator) add(rec *ServiceRecord) bool {
	key := rec.key()
	if key != "" {
		if _, dup := d.seen[key]; dup {
			return false
		}
		d.seen[key] = struct{}{}
	}
	d.records = append(d.records, rec)
	return true
}

// result returns the accumulated unique records in first-seen order
func (d *deduplicator) result() []*ServiceRecord {
	return d.records
}
