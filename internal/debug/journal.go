package debug

import (
	"net/url"
	"sync/atomic"
	"time"
)

// Journal records HTTP exchanges. A nil *Journal records nothing.
type Journal struct {
	entries *Ring[Entry]
	nextID  atomic.Uint64
	now     func() time.Time
}

// NewJournal creates a Journal holding at most capacity entries.
func NewJournal(capacity int) *Journal {
	return &Journal{entries: NewRing[Entry](capacity), now: time.Now}
}

// Record adds an exchange. The query string and any userinfo in rawURL are dropped.
func (j *Journal) Record(method, rawURL string, status int, d time.Duration, err error) {
	if j == nil {
		return
	}

	e := Entry{
		ID:        j.nextID.Add(1),
		Timestamp: j.now(),
		Method:    method,
		Status:    status,
		Duration:  d,
	}
	e.Host, e.Path = Redact(rawURL)
	if err != nil {
		e.Error = err.Error()
	}

	j.entries.Add(e)
}

// Redact reduces rawURL to its host and path, dropping scheme, userinfo,
// query and fragment. Use it wherever a request URL is logged.
func Redact(rawURL string) (host, path string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "<invalid url>"
	}
	return u.Host, u.Path
}

// Entries returns every entry, oldest first.
func (j *Journal) Entries() []Entry {
	return j.entries.All()
}

// Recent returns the last n entries, newest first.
func (j *Journal) Recent(n int) []Entry {
	return j.entries.Last(n)
}

// Failures returns the failed entries, oldest first.
func (j *Journal) Failures() []Entry {
	return j.entries.Find(func(e Entry) bool { return e.Failed() })
}

// Clear empties the journal.
func (j *Journal) Clear() {
	j.entries.Clear()
}

// Viewer is the UI binding for a Journal.
type Viewer struct {
	journal *Journal
}

// NewViewer creates a Viewer over j.
func NewViewer(j *Journal) *Viewer {
	return &Viewer{journal: j}
}

// Entries returns every entry, oldest first.
func (v *Viewer) Entries() []Entry { return v.journal.Entries() }

// Failures returns the failed entries, oldest first.
func (v *Viewer) Failures() []Entry { return v.journal.Failures() }

// Clear empties the journal.
func (v *Viewer) Clear() { v.journal.Clear() }
