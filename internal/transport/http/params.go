package httptransport

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	governance "nbms/internal/governance/models"
	"nbms/internal/sentinel"
	id "nbms/pkg/domain"
	dErrors "nbms/pkg/domain-errors"
)

// refFromRequest parses the {kind}/{objectID} pair every object-scoped
// route carries.
func refFromRequest(r *http.Request) (governance.Ref, error) {
	kind, err := governance.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		return governance.Ref{}, err
	}
	objectID, err := id.ParseObjectID(chi.URLParam(r, "objectID"))
	if err != nil {
		return governance.Ref{}, err
	}
	return governance.Ref{Kind: kind, ID: objectID}, nil
}

func instanceIDFromRequest(r *http.Request) (id.InstanceID, error) {
	return id.ParseInstanceID(chi.URLParam(r, "instanceID"))
}

// getObject loads a governed object, translating the store's sentinel into
// a domain not-found. Stores speak sentinels; the wire speaks coded errors.
func (h *Handler) getObject(ctx context.Context, ref governance.Ref) (governance.Governed, error) {
	obj, err := h.deps.Objects.Get(ctx, ref)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "object not found: "+ref.String())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load object")
	}
	return obj, nil
}

// getInstance loads a reporting instance with the same translation.
func (h *Handler) getInstance(ctx context.Context, instanceID id.InstanceID) (*governance.ReportingInstance, error) {
	inst, err := h.deps.Instances.Get(ctx, instanceID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "reporting instance not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load reporting instance")
	}
	return inst, nil
}
