package domain

import "strings"

// Attribute names the sync pipeline reads or writes on a record.
const (
	AttrID           = "id"
	AttrOceID        = "oceId"
	AttrType         = "type"
	AttrOceType      = "oceType"
	AttrFields       = "fields"
	AttrOceFields    = "oceFields"
	AttrTypeCategory = "typeCategory"
	AttrName         = "name"
	AttrUpdatedDate  = "updatedDate"
	AttrCreatedDate  = "createdDate"
	AttrLinks        = "links"
	AttrNative       = "native"
	AttrRenditions   = "renditions"
	AttrFileNodeID   = "fileNodeId"
	AttrStaticURL    = "staticURL"
)

// AssetTypeName is the discriminator shared by every record once types are fixed.
const AssetTypeName = "oceAsset"

// Server-side classification values for digital assets.
const (
	DigitalAssetTypeCategory = "DigitalAssetType"
	DigitalAssetType         = "DigitalAsset"
	CustomRenditionType      = "customrendition"
)

// RawItem is a content item exactly as decoded from the item endpoint.
// A nil RawItem stands for a JSON null body.
type RawItem map[string]any

// SanitizeType removes every hyphen from the item's type name.
// Downstream indexing rejects hyphenated type names. Non-string types are left alone.
func (i RawItem) SanitizeType() {
	if t, ok := i[AttrType].(string); ok {
		i[AttrType] = strings.ReplaceAll(t, "-", "")
	}
}

// AssetKind classifies a record. It is resolved once during normalisation
// and carried on the record afterwards.
type AssetKind int

const (
	// KindUnclassified is the zero value before type fixing has run.
	KindUnclassified AssetKind = iota

	// KindOther is any content item that is not a digital asset.
	KindOther

	// KindDigitalAsset is an item with a native binary and renditions.
	KindDigitalAsset
)

// String returns the kind name.
func (k AssetKind) String() string {
	switch k {
	case KindOther:
		return "other"
	case KindDigitalAsset:
		return "digital-asset"
	default:
		return "unclassified"
	}
}

// Record is a content item moving through normalisation.
// Attributes holds the item's top-level JSON attributes and is mutated
// in place by each pass.
type Record struct {
	Attributes map[string]any
	Kind       AssetKind
}

// NewRecord wraps a raw item. The attribute map is shared, not copied.
func NewRecord(item RawItem) *Record {
	attrs := map[string]any(item)
	if attrs == nil {
		attrs = make(map[string]any)
	}
	return &Record{Attributes: attrs}
}

// ID returns the record's current id attribute.
func (r *Record) ID() string {
	return r.String(AttrID)
}

// String returns a string attribute, or "" when absent or not a string.
func (r *Record) String(key string) string {
	s, _ := r.Attributes[key].(string)
	return s
}

// Map returns a nested object attribute, or nil when absent.
func (r *Record) Map(key string) map[string]any {
	m, _ := r.Attributes[key].(map[string]any)
	return m
}

// IsDigitalAsset reports whether the record was classified as a digital asset.
func (r *Record) IsDigitalAsset() bool {
	return r.Kind == KindDigitalAsset
}

// Renditions returns the rendition objects of a digital asset.
// Entries that are not objects are skipped.
func (r *Record) Renditions() []map[string]any {
	list, _ := r.Attributes[AttrRenditions].([]any)
	out := make([]map[string]any, 0, len(list))
	for _, v := range list {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Classify resolves the asset kind from server classification attributes.
// typeCategory wins when present; otherwise the original type name decides.
func Classify(typeCategory, oceType string) AssetKind {
	if typeCategory == DigitalAssetTypeCategory {
		return KindDigitalAsset
	}
	if typeCategory == "" && oceType == DigitalAssetType {
		return KindDigitalAsset
	}
	return KindOther
}

// UnwrapDate returns the value of a {value, timezone} date pair.
func UnwrapDate(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	value, vok := m["value"].(string)
	_, tok := m["timezone"].(string)
	if !vok || !tok {
		return "", false
	}
	return value, true
}

// ReservedAttributes lists attributes a flattened field must not overwrite.
var ReservedAttributes = map[string]struct{}{
	AttrID:           {},
	AttrOceID:        {},
	AttrType:         {},
	AttrOceType:      {},
	AttrOceFields:    {},
	AttrTypeCategory: {},
	AttrName:         {},
	AttrUpdatedDate:  {},
	AttrFileNodeID:   {},
	"internal":       {},
	"parent":         {},
	"children":       {},
}

// IsReserved reports whether name is a reserved record attribute.
func IsReserved(name string) bool {
	_, ok := ReservedAttributes[name]
	return ok
}
