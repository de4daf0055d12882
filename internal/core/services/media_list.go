package services

import (
	"regexp"

	"github.com/custodia-labs/ocesync/internal/core/domain"
)

// extSuffix matches the three-character extension stripped from display names.
var extSuffix = regexp.MustCompile(`\..{3}$`)

// StaticOptions configures static delivery. A nil *StaticOptions means registry mode.
type StaticOptions struct {
	RootDir   string
	URLPrefix string
}

// mediaList builds the entries to synchronise for one digital asset: the
// native binary first, then the selected renditions in list order.
// In static mode it also writes staticURL onto the asset and each selected
// rendition. Renditions without a usable format are reported and skipped.
func mediaList(rec *domain.Record, policy domain.RenditionPolicy, static *StaticOptions) ([]domain.MediaEntry, []domain.Problem) {
	id := rec.ID()
	fileName := rec.String(domain.AttrName)
	name := extSuffix.ReplaceAllString(fileName, "")

	var problems []domain.Problem
	entries := []domain.MediaEntry{{
		Key:        domain.NativeMediaKey(id),
		Name:       name,
		URL:        rec.String(domain.AttrNative),
		StaticName: fileName,
		Target:     rec.Attributes,
	}}
	if static != nil {
		rec.Attributes[domain.AttrStaticURL] = static.URLPrefix + "/" + static.RootDir + "/" + fileName
	}

	if policy == domain.RenditionsNone {
		return entries, nil
	}

	for _, r := range rec.Renditions() {
		rname, _ := r[domain.AttrName].(string)
		rtype, _ := r[domain.AttrType].(string)
		if !policy.Includes(rtype) {
			continue
		}

		url, ok := renditionURL(r)
		if !ok || rname == "" {
			problems = append(problems, domain.Problem{
				Kind:   domain.ErrorKindShape,
				Op:     "media list",
				Target: id,
				Err:    &domain.ShapeError{RecordID: id, Path: "renditions[" + rname + "].formats"},
			})
			continue
		}

		entries = append(entries, domain.MediaEntry{
			Key:          domain.RenditionMediaKey(id, rname),
			Name:         rname + "-" + name,
			Rendition:    rname,
			URL:          url,
			StaticName:   fileName,
			StaticSubDir: rname,
			Target:       r,
		})
		if static != nil {
			r[domain.AttrStaticURL] = static.URLPrefix + "/" + static.RootDir + "/" + rname + "/" + fileName
		}
	}
	return entries, problems
}

// renditionURL returns formats[0].links[0].href of a rendition.
func renditionURL(r map[string]any) (string, bool) {
	formats, _ := r["formats"].([]any)
	if len(formats) == 0 {
		return "", false
	}
	format, _ := formats[0].(map[string]any)
	links, _ := format[domain.AttrLinks].([]any)
	if len(links) == 0 {
		return "", false
	}
	link, _ := links[0].(map[string]any)
	href, _ := link["href"].(string)
	return href, href != ""
}
