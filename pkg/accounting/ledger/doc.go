// Package ledger provides the append-only record of committed privacy
// expenditures.
//
// # Overview
//
// A Ledger is an ordered sequence of (epsilon, delta) records, one per
// committed spend. Records are only ever appended: privacy loss, once
// incurred, cannot be returned, so no deletion or mutation operation
// exists.
//
// # Ownership
//
// Every Ledger is exclusively owned by a single accountant, which
// serializes access to it. The Ledger itself performs no locking and no
// budget checking - admission decisions belong to the owner.
package ledger
