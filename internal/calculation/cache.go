package calculation

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/elderplan/carefund/internal/domain"
	json "github.com/goccy/go-json"
)

// fingerprintEnvelope is the canonical shape hashed for memoization. The
// rules version is part of the key, so a result computed under a stale
// version can never be served after a newer one is activated.
type fingerprintEnvelope struct {
	RulesVersion string                  `json:"rules_version"`
	Needs        domain.NeedsProfile     `json:"needs"`
	Financial    domain.FinancialProfile `json:"financial"`
	CareType     string                  `json:"care_type"`
	WeeklyCost   string                  `json:"weekly_cost"`
	Deferred     string                  `json:"deferred"`
	AsOf         string                  `json:"as_of"`
	Admission    string                  `json:"admission,omitempty"`
}

// Fingerprint derives a deterministic key for a request under one rules
// version. Map keys marshal in sorted order, so the encoding is canonical.
func Fingerprint(req *domain.AssessmentRequest, rulesVersion string) (string, error) {
	envelope := fingerprintEnvelope{
		RulesVersion: rulesVersion,
		Needs:        req.NeedsProfile(),
		Financial:    req.FinancialProfile(),
		CareType:     req.CareType,
		WeeklyCost:   req.WeeklyCareCost.String(),
		Deferred:     req.DeferredWeekly().String(),
		AsOf:         req.AsOfDate.UTC().Format(time.RFC3339),
	}
	if req.AdmissionDate != nil {
		envelope.Admission = req.AdmissionDate.UTC().Format(time.RFC3339)
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint request: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

type cacheEntry struct {
	result  *domain.AssessmentResult
	expires time.Time
}

// ResultCache memoizes assessment results with a bounded time-to-live.
// Cached results are shared read-only; callers must not mutate them.
type ResultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewResultCache creates a cache whose entries expire after ttl.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached result for a fingerprint, evicting it if expired.
func (c *ResultCache) Get(fingerprint string) (*domain.AssessmentResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[fingerprint]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expires) {
		delete(c.entries, fingerprint)
		return nil, false
	}
	return entry.result, true
}

// Put stores a result under its fingerprint.
func (c *ResultCache) Put(fingerprint string, result *domain.AssessmentResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fingerprint] = cacheEntry{result: result, expires: c.now().Add(c.ttl)}
}

// Len reports the number of live entries, evicting expired ones first.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if c.now().After(entry.expires) {
			delete(c.entries, key)
		}
	}
	return len(c.entries)
}
