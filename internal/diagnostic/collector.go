package diagnostic

// Collector receives problems from a reconciler. Implementations are not
// required to be safe for concurrent use.
type Collector interface {
	Accept(p Problem)
}

// CollectorFunc adapts a function to the Collector interface.
type CollectorFunc func(p Problem)

// Accept calls f(p).
func (f CollectorFunc) Accept(p Problem) {
	f(p)
}

// ProblemList collects problems in the order they are accepted.
type ProblemList struct {
	problems []Problem
}

// NewProblemList creates an empty ProblemList.
func NewProblemList() *ProblemList {
	return &ProblemList{}
}

// Accept appends p to the list.
func (l *ProblemList) Accept(p Problem) {
	l.problems = append(l.problems, p)
}

// Problems returns the collected problems.
func (l *ProblemList) Problems() []Problem {
	return l.problems
}

// Len returns the number of collected problems.
func (l *ProblemList) Len() int {
	return len(l.problems)
}

// OfType returns the collected problems of the given type.
func (l *ProblemList) OfType(t ProblemType) []Problem {
	var result []Problem

	for _, p := range l.problems {
		if p.Type == t {
			result = append(result, p)
		}
	}

	return result
}

// DedupCollector forwards problems to a delegate, dropping any problem that
// has the same type, message, and region as one already forwarded.
type DedupCollector struct {
	delegate Collector
	seen     map[problemKey]struct{}
}

// NewDedupCollector wraps delegate with duplicate filtering.
func NewDedupCollector(delegate Collector) *DedupCollector {
	return &DedupCollector{
		delegate: delegate,
		seen:     make(map[problemKey]struct{}),
	}
}

// Accept forwards p unless an identical problem was already forwarded.
func (c *DedupCollector) Accept(p Problem) {
	k := p.key()
	if _, ok := c.seen[k]; ok {
		return
	}

	c.seen[k] = struct{}{}
	c.delegate.Accept(p)
}

// Reset forgets previously seen problems.
func (c *DedupCollector) Reset() {
	clear(c.seen)
}
