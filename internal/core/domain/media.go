package domain

import (
	"fmt"
	"strings"
)

// RenditionPolicy selects which renditions are synchronised besides the native binary.
type RenditionPolicy string

const (
	// RenditionsAll includes system and custom renditions.
	RenditionsAll RenditionPolicy = "all"

	// RenditionsCustom includes only renditions typed customrendition.
	RenditionsCustom RenditionPolicy = "custom"

	// RenditionsNone includes the native binary only.
	RenditionsNone RenditionPolicy = "none"
)

// ParseRenditionPolicy validates a configured policy. Empty means custom.
func ParseRenditionPolicy(s string) (RenditionPolicy, error) {
	switch p := RenditionPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return RenditionsCustom, nil
	case RenditionsAll, RenditionsCustom, RenditionsNone:
		return p, nil
	default:
		return "", fmt.Errorf("%w: renditions must be all, custom or none, got %q", ErrInvalidInput, s)
	}
}

// Includes reports whether a rendition of the given type is selected.
func (p RenditionPolicy) Includes(renditionType string) bool {
	switch p {
	case RenditionsAll:
		return true
	case RenditionsCustom:
		return renditionType == CustomRenditionType
	default:
		return false
	}
}

// MediaEntry describes one binary of a digital asset to synchronise.
type MediaEntry struct {
	// Key is the cache key, unique per asset and rendition.
	Key string

	// Name is the display name used when registering the file.
	Name string

	// Rendition is the rendition name, empty for the native binary.
	Rendition string

	// URL is the binary's source location on the content server.
	URL string

	// StaticName is the file name used in static mode.
	StaticName string

	// StaticSubDir is the directory below the static root, empty for the native binary.
	StaticSubDir string

	// Target receives the resulting file handle or static URL.
	// It is the attribute map of the owning record or rendition and is not owned by the entry.
	Target map[string]any
}

// MediaKeyPrefix prefixes every media cache key.
const MediaKeyPrefix = "oce-media-"

// NativeMediaKey returns the cache key of an asset's native binary.
func NativeMediaKey(assetID string) string {
	return MediaKeyPrefix + assetID + "-native"
}

// RenditionMediaKey returns the cache key of one rendition of an asset.
// Rendition keys live under their own segment so a rendition named
// "native" cannot share the native binary's key.
func RenditionMediaKey(assetID, rendition string) string {
	return MediaKeyPrefix + assetID + "-rendition-" + rendition
}

// CacheEntry is the persisted record of a previously fetched binary.
type CacheEntry struct {
	FileNodeID  string `json:"fileNodeId"`
	UpdatedDate string `json:"updatedDate"`
}

// ValidFor reports whether the entry can be reused for an asset last
// modified at updatedDate. Dates are compared as strings.
func (e *CacheEntry) ValidFor(updatedDate string) bool {
	return e != nil && e.FileNodeID != "" && e.UpdatedDate == updatedDate
}

// FileHandle identifies a registered file node.
type FileHandle struct {
	NodeID string
	Path   string
}

// RemoteFileRequest asks the registry side to fetch and register a binary.
type RemoteFileRequest struct {
	URL     string
	Name    string
	Headers map[string]string
	Fields  map[string]string
}

// Rendition labels stored on file nodes.
const (
	RenditionOriginal = "original"
	RenditionCustom   = "custom"
)

// RenditionLabel derives the rendition field of a file node from its URL and
// name. It returns "" for URLs outside the content server.
func RenditionLabel(contentServer, url, name string) string {
	if contentServer == "" || !strings.HasPrefix(url, contentServer) {
		return ""
	}
	switch {
	case strings.Contains(url, "responsiveimage"):
		prefix, _, _ := strings.Cut(name, "-")
		return prefix
	case strings.Contains(url, "customrendition"):
		return RenditionCustom
	default:
		return RenditionOriginal
	}
}
