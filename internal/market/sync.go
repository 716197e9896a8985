package market

// Subscriber is a destination for broadcast payloads. Send must not block:
// it reports false when the payload was dropped (slow or dead peer). A
// dropped payload never aborts the cycle for remaining subscribers.
type Subscriber interface {
	Send(payload []byte) bool
}

// subscriberRecord tracks per-subscriber sync state. A subscriber whose
// record lacks the flag receives a full snapshot on the next broadcast
// instead of an increment.
type subscriberRecord struct {
	hasFullSnapshot bool
}

// syncRegistry is the subscriber registry, keyed by connection identity.
// It owns no price or candle data. Mutated only by attach/detach and read
// by the broadcast path, always under the engine mutex.
type syncRegistry struct {
	records map[Subscriber]*subscriberRecord
}

func newSyncRegistry() *syncRegistry {
	return &syncRegistry{records: make(map[Subscriber]*subscriberRecord)}
}

func (r *syncRegistry) add(sub Subscriber) *subscriberRecord {
	rec := &subscriberRecord{}
	r.records[sub] = rec
	return rec
}

func (r *syncRegistry) remove(sub Subscriber) {
	delete(r.records, sub)
}

func (r *syncRegistry) count() int { return len(r.records) }

func (r *syncRegistry) each(fn func(Subscriber, *subscriberRecord)) {
	for sub, rec := range r.records {
		fn(sub, rec)
	}
}
