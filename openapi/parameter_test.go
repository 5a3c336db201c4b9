package openapi

import (
	"testing"

	"github.com/Gobd/apischema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapParameter_MissingName(t *testing.T) {
	m := newMapper(V30(), NopLogger{})
	_, err := m.mapParameter(apischema.String(), LocationPath, false, "")
	require.ErrorIs(t, err, ErrUnnamedParameter)

	var nameErr *UnnamedParameterError
	require.ErrorAs(t, err, &nameErr)
	assert.Equal(t, LocationPath, nameErr.Location)
}

func TestMapParameter_MetadataGoesOnParameter(t *testing.T) {
	m := newMapper(V30(), NopLogger{})
	s := apischema.String().UUID().OpenAPI(apischema.Metadata{
		Name:        "ItemID",
		Description: "item identifier",
		Example:     "0b9d7c1e-9c4f-4a53-9a8e-3f0c2d1e2f00",
	})

	ref, err := m.mapParameter(s, LocationPath, false, "id")
	require.NoError(t, err)
	p := ref.Value
	require.NotNil(t, p)
	assert.Equal(t, "id", p.Name)
	assert.Equal(t, "path", p.In)
	assert.True(t, p.Required)
	assert.Equal(t, "item identifier", p.Description)
	assert.Equal(t, "0b9d7c1e-9c4f-4a53-9a8e-3f0c2d1e2f00", p.Example)
	assert.Empty(t, p.Schema.Value.Description)
	assert.Equal(t, "uuid", p.Schema.Value.Format)
}

func TestMapParameter_Required(t *testing.T) {
	m := newMapper(V30(), NopLogger{})
	for name, tc := range map[string]struct {
		schema apischema.Schema
		want   bool
	}{
		"plain":    {apischema.String(), true},
		"optional": {apischema.String().Optional(), false},
		"nullable": {apischema.String().Nullable(), false},
	} {
		t.Run(name, func(t *testing.T) {
			ref, err := m.mapParameter(tc.schema, LocationQuery, false, "q")
			require.NoError(t, err)
			assert.Equal(t, tc.want, ref.Value.Required)
		})
	}
}

func TestMapParameter_Registry(t *testing.T) {
	m := newMapper(V30(), NopLogger{})
	limit := apischema.Number().Int().Min(1).Max(100).Optional().
		OpenAPI(apischema.Metadata{Name: "limit"})

	ref, err := m.mapParameter(limit, LocationQuery, true, "")
	require.NoError(t, err)
	require.NotNil(t, ref.Value)
	require.Contains(t, m.refs.parameters, "limit")

	ref, err = m.mapParameter(apischema.String(), LocationQuery, true, "limit")
	require.NoError(t, err)
	assert.Equal(t, "#/components/parameters/limit", ref.Ref)
	assert.Nil(t, ref.Value)
}

func TestMapParameterContainer(t *testing.T) {
	m := newMapper(V30(), NopLogger{})
	q := apischema.Object(
		apischema.Field("page", apischema.Number().Int().Optional()),
		apischema.Field("sort", apischema.Enum("asc", "desc")),
		apischema.Field("skipped", nil),
	)

	params, err := m.mapParameterContainer(q, LocationQuery)
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, "page", params[0].Value.Name)
	assert.False(t, params[0].Value.Required)
	assert.Equal(t, "sort", params[1].Value.Name)
	assert.True(t, params[1].Value.Required)
	assert.Empty(t, m.refs.parameters)
}

func TestMapParameterContainer_NotObject(t *testing.T) {
	m := newMapper(V30(), NopLogger{})
	_, err := m.mapParameterContainer(apischema.String(), LocationPath)
	require.Error(t, err)

	params, err := m.mapParameterContainer(nil, LocationPath)
	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestLocation_Valid(t *testing.T) {
	assert.True(t, LocationCookie.Valid())
	assert.False(t, Location("body").Valid())
}

func TestMapParameter_TypeOverride(t *testing.T) {
	m := newMapper(V30(), NopLogger{})
	s := apischema.WithMetadata(apischema.Unknown(), apischema.Metadata{Type: "integer", Description: "page number"})

	ref, err := m.mapParameter(s, LocationQuery, false, "page")
	require.NoError(t, err)
	p := ref.Value
	assert.Equal(t, "page number", p.Description)
	require.NotNil(t, p.Schema.Value.Type)
	assert.True(t, p.Schema.Value.Type.Is("integer"))
	assert.Empty(t, p.Schema.Value.Description)

	ref, err = m.mapParameter(s.Nullable(), LocationQuery, false, "page")
	require.NoError(t, err)
	assert.False(t, ref.Value.Required)
	assert.True(t, ref.Value.Schema.Value.Type.Is("integer"))
	assert.True(t, ref.Value.Schema.Value.Nullable)
}
