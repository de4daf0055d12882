package normalisers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ocesync/internal/core/domain"
)

// prefixMinter is a deterministic IDMinter for tests.
type prefixMinter struct{}

func (prefixMinter) MintID(seed string) string { return "node:" + seed }

// mockPass records the order it sees records in.
type mockPass struct {
	name     string
	seen     *[]string
	problems []domain.Problem
	err      error
}

func (m *mockPass) Name() string { return m.name }

func (m *mockPass) Apply(_ context.Context, rec *domain.Record) ([]domain.Problem, error) {
	if m.err != nil {
		return nil, m.err
	}
	*m.seen = append(*m.seen, m.name+":"+rec.ID())
	return m.problems, nil
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	require.NotNil(t, p)
	assert.Equal(t, 0, p.Len())

	p.Add(CleanUp{})
	assert.Equal(t, 1, p.Len())
}

func TestDefault_Order(t *testing.T) {
	p := Default(prefixMinter{}, "tok")
	assert.Equal(t, []string{
		"cleanUp", "standardizeDates", "fixTypes", "digitalAsset", "moveFieldsUp", "createIds",
	}, p.Names())
}

func TestPipeline_Normalise_PassCompletesBeforeNext(t *testing.T) {
	var seen []string
	p := NewPipeline(
		&mockPass{name: "a", seen: &seen},
		&mockPass{name: "b", seen: &seen},
	)

	_, _, err := p.Normalise(context.Background(), []domain.RawItem{{"id": "1"}, {"id": "2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a:1", "a:2", "b:1", "b:2"}, seen)
}

func TestPipeline_Normalise_DropsNullItems(t *testing.T) {
	p := NewPipeline()

	records, problems, err := p.Normalise(context.Background(), []domain.RawItem{nil, {"id": "1"}, nil})
	require.NoError(t, err)
	assert.Empty(t, problems)
	require.Len(t, records, 1)
	assert.Equal(t, "1", records[0].ID())
}

func TestPipeline_Normalise_PassError(t *testing.T) {
	boom := errors.New("boom")
	p := NewPipeline(&mockPass{name: "bad", err: boom})

	records, _, err := p.Normalise(context.Background(), []domain.RawItem{{"id": "1"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "pass bad")
	assert.Nil(t, records)
}

func TestPipeline_Normalise_CollectsProblems(t *testing.T) {
	var seen []string
	problem := domain.Problem{Kind: domain.ErrorKindCollision, Op: "x"}
	p := NewPipeline(&mockPass{name: "a", seen: &seen, problems: []domain.Problem{problem}})

	_, problems, err := p.Normalise(context.Background(), []domain.RawItem{{"id": "1"}, {"id": "2"}})
	require.NoError(t, err)
	assert.Len(t, problems, 2)
}

func TestPipeline_Normalise_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Default(prefixMinter{}, "tok").Normalise(ctx, []domain.RawItem{{"id": "1"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func digitalAssetItem() domain.RawItem {
	return domain.RawItem{
		"id":           "CONT1",
		"type":         "Image",
		"typeCategory": "DigitalAssetType",
		"name":         "photo.jpg",
		"createdDate":  map[string]any{"value": "2021-01-01T00:00:00Z", "timezone": "UTC"},
		"updatedDate":  map[string]any{"value": "2022-01-01T00:00:00Z", "timezone": "UTC"},
		"links":        []any{map[string]any{"rel": "self", "href": "https://srv/items/CONT1"}},
		"fields": map[string]any{
			"native": map[string]any{
				"links": []any{
					map[string]any{"rel": "self", "href": "https://srv/native/photo.jpg"},
					map[string]any{"rel": "canonical", "href": "https://srv/canonical"},
				},
			},
			"renditions": []any{},
			"size":       float64(1024),
			"caption":    nil,
		},
	}
}

func TestDefault_NormalisesDigitalAsset(t *testing.T) {
	records, problems, err := Default(prefixMinter{}, "tok").Normalise(
		context.Background(), []domain.RawItem{digitalAssetItem()})
	require.NoError(t, err)
	assert.Empty(t, problems)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, domain.KindDigitalAsset, rec.Kind)
	assert.Equal(t, "node:oce-CONT1-tok", rec.ID())
	assert.Equal(t, "CONT1", rec.String(domain.AttrOceID))
	assert.Equal(t, domain.AssetTypeName, rec.String(domain.AttrType))
	assert.Equal(t, "Image", rec.String(domain.AttrOceType))
	assert.Equal(t, "2022-01-01T00:00:00Z", rec.String(domain.AttrUpdatedDate))
	assert.Equal(t, "https://srv/native/photo.jpg", rec.String(domain.AttrNative))
	assert.Equal(t, float64(1024), rec.Attributes["size"])

	assert.NotContains(t, rec.Attributes, domain.AttrFields)
	assert.NotContains(t, rec.Attributes, domain.AttrLinks)
	assert.NotContains(t, rec.Attributes, domain.AttrCreatedDate)
	assert.NotContains(t, rec.Attributes, "caption")

	oceFields := rec.Map(domain.AttrOceFields)
	require.NotNil(t, oceFields)
	assert.Equal(t, "https://srv/native/photo.jpg", oceFields[domain.AttrNative])
}

func TestDefault_IDsAreDeterministic(t *testing.T) {
	first, _, err := Default(prefixMinter{}, "tok").Normalise(
		context.Background(), []domain.RawItem{digitalAssetItem()})
	require.NoError(t, err)

	second, _, err := Default(prefixMinter{}, "tok").Normalise(
		context.Background(), []domain.RawItem{digitalAssetItem()})
	require.NoError(t, err)

	assert.Equal(t, first[0].ID(), second[0].ID())

	other, _, err := Default(prefixMinter{}, "other").Normalise(
		context.Background(), []domain.RawItem{digitalAssetItem()})
	require.NoError(t, err)
	assert.NotEqual(t, first[0].ID(), other[0].ID())
}

func TestDefault_DigitalAssetWithoutNativeAborts(t *testing.T) {
	item := digitalAssetItem()
	delete(item["fields"].(map[string]any), "native")

	_, _, err := Default(prefixMinter{}, "tok").Normalise(context.Background(), []domain.RawItem{item})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrShape)
}
