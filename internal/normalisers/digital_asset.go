package normalisers

import (
	"context"

	"github.com/custodia-labs/ocesync/internal/core/domain"
)

// DigitalAsset replaces a digital asset's native link list with its self URL.
type DigitalAsset struct{}

// Name returns the pass name.
func (DigitalAsset) Name() string { return "digitalAsset" }

// Apply sets fields.native to the href of the last link whose rel is "self",
// or "" when there is none. Records of other kinds are left unchanged.
// A digital asset without a native link list is a shape error.
func (DigitalAsset) Apply(_ context.Context, rec *domain.Record) ([]domain.Problem, error) {
	if !rec.IsDigitalAsset() {
		return nil, nil
	}

	fields := rec.Map(domain.AttrFields)
	if fields == nil {
		return nil, &domain.ShapeError{RecordID: rec.ID(), Path: "fields"}
	}
	native, _ := fields[domain.AttrNative].(map[string]any)
	links, ok := native[domain.AttrLinks].([]any)
	if !ok {
		return nil, &domain.ShapeError{RecordID: rec.ID(), Path: "fields.native.links"}
	}

	href := ""
	for _, l := range links {
		link, ok := l.(map[string]any)
		if !ok || link["rel"] != "self" {
			continue
		}
		href, _ = link["href"].(string)
	}
	fields[domain.AttrNative] = href

	return nil, nil
}
