package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetScheme(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/tax/schemes/legacy", nil), rec)
	c.SetParamNames("version")
	c.SetParamValues("legacy")

	require.NoError(t, GetScheme(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got SchemeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	assert.Equal(t, "legacy", got.Version)
	require.Len(t, got.Bands, 6)

	first := 300_000.0
	assert.Equal(t, BandOutput{Label: "First 300,000", Rate: 0.07, Width: &first}, got.Bands[0])
	assert.Equal(t, BandOutput{Label: "Above 3,200,000", Rate: 0.24}, got.Bands[5])
	assert.Equal(t, "200,000 + 20% of annual gross income", got.Relief)
}

func TestGetSchemeNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/tax/schemes/x", nil), rec)
	c.SetParamNames("version")
	c.SetParamValues("x")

	require.NoError(t, GetScheme(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListSchemes(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/tax/schemes", nil), rec)

	require.NoError(t, ListSchemes(c))

	var got []SchemeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))

	require.Len(t, got, 2)
	assert.Equal(t, "legacy", got[0].Version)
	assert.Equal(t, "nta2025", got[1].Version)
	assert.Equal(t, 0.0, got[1].Bands[0].Rate)
	assert.Nil(t, got[1].Bands[5].Width)
}
