package location

import (
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// DefaultField is the query field holding the zero-based slide index.
const DefaultField = "slide"

// Address is the host's address state: a bag of named string fields whose
// updates replace the current entry rather than pushing a new one.
type Address interface {
	Get(field string) (string, bool)
	Replace(field, value string)
}

// Sync mirrors the current slide into one Address field.
type Sync struct {
	addr  Address
	field string
	total int
}

func NewSync(addr Address, field string, total int) *Sync {
	if strings.TrimSpace(field) == "" {
		field = DefaultField
	}
	return &Sync{addr: addr, field: field, total: total}
}

func (s *Sync) WriteCurrent(index int) {
	if s.addr == nil {
		return
	}
	s.addr.Replace(s.field, strconv.Itoa(index))
}

// ReadInitial returns the startup slide if the field holds a decimal integer in [0, total).
func (s *Sync) ReadInitial() (int, bool) {
	if s.addr == nil {
		return 0, false
	}
	raw, ok := s.addr.Get(s.field)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 || n >= s.total {
		return 0, false
	}
	return n, true
}

// URLAddress keeps the fields in a URL's query. OnReplace, when set, is told
// the new URL after each replace so a browser can call history.replaceState.
type URLAddress struct {
	mu        sync.Mutex
	u         url.URL
	OnReplace func(u string)
}

func NewURLAddress(raw string) (*URLAddress, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &URLAddress{u: *u}, nil
}

func (a *URLAddress) Get(field string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	q := a.u.Query()
	if !q.Has(field) {
		return "", false
	}
	return q.Get(field), true
}

func (a *URLAddress) Replace(field, value string) {
	a.mu.Lock()
	q := a.u.Query()
	q.Set(field, value)
	a.u.RawQuery = q.Encode()
	s := a.u.String()
	cb := a.OnReplace
	a.mu.Unlock()
	if cb != nil {
		cb(s)
	}
}

// String returns the current URL.
func (a *URLAddress) String() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.u.String()
}

// MemoryAddress is an Address without a backing store.
type MemoryAddress map[string]string

func (m MemoryAddress) Get(field string) (string, bool) {
	v, ok := m[field]
	return v, ok
}

func (m MemoryAddress) Replace(field, value string) { m[field] = value }
