// Package ops implements every operation exposed by the HTTP, MCP and CLI
// surfaces. Each operation takes a context and a store.Store and returns
// *errors.SiftError values on failure.
package ops

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/sift/internal/record"
)

// RecordList is a set of records together with its size.
type RecordList struct {
	Data  []*record.Record `json:"data"`
	Count int              `json:"count"`
}

func newRecordList(records []*record.Record) RecordList {
	if records == nil {
		records = []*record.Record{}
	}
	return RecordList{Data: records, Count: len(records)}
}

var (
	entropyMu sync.Mutex
	entropy   io.Reader = ulid.Monotonic(rand.Reader, 0)
)

// newID returns a ULID for now. IDs minted in the same millisecond
// still sort in creation order.
func newID(now time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(now), entropy).String()
}
