package workflow

import (
	"context"
	"errors"

	governance "nbms/internal/governance/models"
	"nbms/internal/sentinel"
)

// IndicatorCatalog serves typed indicator lookups over the object store for
// readers that work on indicators rather than the governed-object interface.
type IndicatorCatalog struct {
	store *InMemoryObjectStore
}

func NewIndicatorCatalog(store *InMemoryObjectStore) *IndicatorCatalog {
	return &IndicatorCatalog{store: store}
}

// ListAll returns every stored indicator, unfiltered.
func (c *IndicatorCatalog) ListAll(ctx context.Context) ([]*governance.Indicator, error) {
	objects, err := c.store.ListByKind(ctx, governance.KindIndicator)
	if err != nil {
		return nil, err
	}
	indicators := make([]*governance.Indicator, 0, len(objects))
	for _, obj := range objects {
		if indicator, ok := obj.(*governance.Indicator); ok {
			indicators = append(indicators, indicator)
		}
	}
	return indicators, nil
}

// ListByRefs resolves refs to indicators. Refs that resolve to nothing or
// to a non-indicator are skipped: an approval may outlive its object.
func (c *IndicatorCatalog) ListByRefs(ctx context.Context, refs []governance.Ref) ([]*governance.Indicator, error) {
	indicators := make([]*governance.Indicator, 0, len(refs))
	for _, ref := range refs {
		obj, err := c.store.Get(ctx, ref)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if indicator, ok := obj.(*governance.Indicator); ok {
			indicators = append(indicators, indicator)
		}
	}
	return indicators, nil
}
