package ebus

// AggregatorFunc observes every routed message and may publish derived
// topics back onto the bus.
type AggregatorFunc func(bus *Bus, topic string, value float64)

// Aggregator derives new topics from published ones, such as the delta
// between two feeds.
type Aggregator struct {
	fun AggregatorFunc
}

// RegisterAggregator adds aggregators to the bus, skipping any already
// registered.
func (b *Bus) RegisterAggregator(aggs ...*Aggregator) {
	b.aggMu.Lock()
	defer b.aggMu.Unlock()
outer:
	for _, agg := range aggs {
		for _, existing := range b.aggs {
			if existing == agg {
				continue outer
			}
		}
		b.aggs = append(b.aggs, agg)
	}
}

// DiffAggregator publishes second minus first on out each time both
// inputs have updated since the last emission.
func DiffAggregator(first, second, out string) *Aggregator {
	var haveFirst, haveSecond bool
	var firstValue, secondValue float64
	return &Aggregator{
		fun: func(bus *Bus, topic string, value float64) {
			switch topic {
			case first:
				firstValue = value
				haveFirst = true
			case second:
				secondValue = value
				haveSecond = true
			}
			if haveFirst && haveSecond {
				bus.Publish(out, secondValue-firstValue)
				haveFirst, haveSecond = false, false
			}
		},
	}
}
