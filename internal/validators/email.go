package validators

import (
	"net"
	"strings"
	"sync"
)

// NormalizeEmail trims and lowercases an address; it returns "" when there is no usable
// local part or domain.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return ""
	}
	return email
}

// DomainChecker reports whether an address's domain can receive mail. Answers are cached
// for the life of the process.
type DomainChecker struct {
	lookupMX func(string) ([]*net.MX, error)
	lookupIP func(string) ([]net.IP, error)

	mu    sync.Mutex
	cache map[string]bool
}

func NewDomainChecker() *DomainChecker {
	return &DomainChecker{
		lookupMX: net.LookupMX,
		lookupIP: net.LookupIP,
		cache:    map[string]bool{},
	}
}

func (d *DomainChecker) Deliverable(email string) bool {
	email = NormalizeEmail(email)
	if email == "" {
		return false
	}
	domain := email[strings.LastIndex(email, "@")+1:]

	d.mu.Lock()
	ok, seen := d.cache[domain]
	d.mu.Unlock()
	if seen {
		return ok
	}

	ok = d.resolve(domain)

	d.mu.Lock()
	d.cache[domain] = ok
	d.mu.Unlock()
	return ok
}

func (d *DomainChecker) resolve(domain string) bool {
	if mx, err := d.lookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}
	if ips, err := d.lookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}
	return false
}
