package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParcelBoundaryPolygon(t *testing.T) {
	// roughly 111m x 111m near Nashik
	raw := json.RawMessage(`{"type":"Polygon","coordinates":[[[73.79,19.99],[73.791,19.99],[73.791,19.991],[73.79,19.991],[73.79,19.99]]]}`)

	parcel, err := ParseParcelBoundary(raw)
	require.NoError(t, err)
	assert.InDelta(t, 73.7905, parcel.Longitude, 1e-6)
	assert.InDelta(t, 19.9905, parcel.Latitude, 1e-6)
	assert.InDelta(t, 11_600, parcel.AreaSqm, 800)
	assert.Contains(t, string(parcel.Boundary), `"Polygon"`)
}

func TestParseParcelBoundaryRejectsPoint(t *testing.T) {
	_, err := ParseParcelBoundary(json.RawMessage(`{"type":"Point","coordinates":[73.79,19.99]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Polygon or MultiPolygon")
}

func TestParseParcelBoundaryRejectsOpenRing(t *testing.T) {
	_, err := ParseParcelBoundary(json.RawMessage(`{"type":"Polygon","coordinates":[[[73.79,19.99],[73.791,19.99],[73.791,19.991],[73.79,19.991]]]}`))
	require.Error(t, err)
}

func TestParseParcelBoundaryRejectsProjectedCoordinates(t *testing.T) {
	_, err := ParseParcelBoundary(json.RawMessage(`{"type":"Polygon","coordinates":[[[500000,2200000],[500100,2200000],[500100,2200100],[500000,2200000]]]}`))
	require.Error(t, err)
}

func TestTextSanitizerStripsMarkup(t *testing.T) {
	s := NewTextSanitizer()

	assert.Equal(t, "Boundary wall & gate missing", s.Clean(" <b>Boundary wall</b> & gate <script>x()</script>missing "))
	assert.Nil(t, s.CleanPtr("<p>  </p>"))
	require.NotNil(t, s.CleanOptional(ptr("ok")))
}
