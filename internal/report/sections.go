// Package report holds the narrative-section model for a reporting
// instance. Sections are the free-text chapters of a national report; the
// readiness calculator treats empty required sections as blockers when
// section completeness is enabled.
package report

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"nbms/internal/sentinel"
	id "nbms/pkg/domain"
)

// DefaultRequiredSections lists the narrative sections a national report
// must fill before it is export-ready. Deployments can override the list
// through configuration.
var DefaultRequiredSections = []string{
	"section_i_priorities",
	"section_ii_implementation",
	"section_iii_assessment",
	"section_iv_support_needs",
}

// Section is one narrative chapter of a reporting instance.
type Section struct {
	InstanceID id.InstanceID
	Key        string
	Content    string
	UpdatedBy  *id.UserID
	UpdatedAt  time.Time
}

// Filled reports whether the section carries real content. Whitespace-only
// text does not count.
func (s Section) Filled() bool {
	return strings.TrimSpace(s.Content) != ""
}

// SectionStore persists narrative sections.
type SectionStore interface {
	Get(ctx context.Context, instanceID id.InstanceID, key string) (*Section, error)
	Upsert(ctx context.Context, section *Section) error
	ListByInstance(ctx context.Context, instanceID id.InstanceID) ([]Section, error)
}

// InMemorySectionStore is a thread-safe section store for tests and
// single-node runs.
type InMemorySectionStore struct {
	mu       sync.RWMutex
	sections map[id.InstanceID]map[string]Section
}

func NewInMemorySectionStore() *InMemorySectionStore {
	return &InMemorySectionStore{sections: make(map[id.InstanceID]map[string]Section)}
}

func (s *InMemorySectionStore) Get(_ context.Context, instanceID id.InstanceID, key string) (*Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	section, ok := s.sections[instanceID][key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &section, nil
}

func (s *InMemorySectionStore) Upsert(_ context.Context, section *Section) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byKey, ok := s.sections[section.InstanceID]
	if !ok {
		byKey = make(map[string]Section)
		s.sections[section.InstanceID] = byKey
	}
	byKey[section.Key] = *section
	return nil
}

func (s *InMemorySectionStore) ListByInstance(_ context.Context, instanceID id.InstanceID) ([]Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var sections []Section
	for _, section := range s.sections[instanceID] {
		sections = append(sections, section)
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].Key < sections[j].Key })
	return sections, nil
}

// Completeness checks an instance's sections against a required list. It
// satisfies the readiness calculator's section-reader port.
type Completeness struct {
	store    SectionStore
	required []string
}

// NewCompleteness builds the checker. An empty required list falls back to
// DefaultRequiredSections.
func NewCompleteness(store SectionStore, required []string) *Completeness {
	if len(required) == 0 {
		required = DefaultRequiredSections
	}
	return &Completeness{store: store, required: required}
}

// MissingSections returns the required section keys that are absent or
// empty for the instance, sorted for stable output.
func (c *Completeness) MissingSections(ctx context.Context, instanceID id.InstanceID) ([]string, error) {
	sections, err := c.store.ListByInstance(ctx, instanceID)
	if err != nil {
		return nil, err
	}
	filled := make(map[string]bool, len(sections))
	for _, section := range sections {
		if section.Filled() {
			filled[section.Key] = true
		}
	}

	var missing []string
	for _, key := range c.required {
		if !filled[key] {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing, nil
}
