package ids

import (
	"fmt"
	mathrand "math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// New returns a lexicographically sortable identifier suitable for storage keys.
func New() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Parse validates an externally supplied identifier and returns its canonical
// form. A parse failure means the value is malformed, which callers treat
// differently from a well-formed identifier that resolves to no record.
func Parse(raw string) (string, error) {
	id, err := ulid.ParseStrict(raw)
	if err != nil {
		return "", fmt.Errorf("malformed identifier %q", raw)
	}
	return id.String(), nil
}
