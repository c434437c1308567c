package service

// metricsSink is the slice of the StatsD client services emit through.
// A nil sink disables emission.
type metricsSink interface {
	Count(name string, value int64, tags map[string]string)
}
