package ledger

// Record is a single committed privacy expenditure.
//
// Epsilon must be strictly positive and Delta must lie in [0, 1). The
// accountant validates both before a record reaches the ledger; the
// ledger stores whatever it is given.
type Record struct {
	// Epsilon is the privacy loss parameter spent by one mechanism run.
	Epsilon float64

	// Delta is the failure probability spent by one mechanism run.
	Delta float64
}

// Ledger is an ordered, append-only sequence of spend records.
//
// Insertion order is preserved but is not significant for composition,
// which is order-independent. The zero value is an empty ledger ready
// for use.
type Ledger struct {
	records []Record
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append adds a record to the end of the ledger.
//
// Append is unconditional: the ledger performs no budget check. Callers
// must decide admissibility before committing a record.
func (l *Ledger) Append(r Record) {
	l.records = append(l.records, r)
}

// Records returns a snapshot copy of all committed records in insertion
// order. The returned slice is owned by the caller; later appends do not
// affect it.
func (l *Ledger) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of committed records.
func (l *Ledger) Len() int {
	return len(l.records)
}
