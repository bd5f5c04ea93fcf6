package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/AnnaCarter465/paye-calculator/tax"
)

type BandOutput struct {
	Label string  `json:"label"`
	Rate  float64 `json:"rate"`
	// Width is nil for the open top band.
	Width *float64 `json:"width"`
}

type SchemeResponse struct {
	Version string       `json:"version"`
	Name    string       `json:"name"`
	Bands   []BandOutput `json:"bands"`
	Relief  string       `json:"relief"`
}

var reliefDescriptions = map[tax.Version]string{
	tax.VersionLegacy:  "200,000 + 20% of annual gross income",
	tax.VersionNTA2025: "max(200,000, 1% of annual gross income) + 20% of annual gross income",
}

func newSchemeResponse(s tax.Scheme) SchemeResponse {
	resp := SchemeResponse{
		Version: string(s.Version()),
		Name:    s.Name(),
		Relief:  reliefDescriptions[s.Version()],
	}

	for _, b := range s.Bands() {
		out := BandOutput{Label: b.Label, Rate: money(b.Rate)}

		if !b.IsUnbounded() {
			w := money(b.Width)
			out.Width = &w
		}

		resp.Bands = append(resp.Bands, out)
	}

	return resp
}

func ListSchemes(c echo.Context) error {
	var resp []SchemeResponse

	for _, s := range tax.Schemes() {
		resp = append(resp, newSchemeResponse(s))
	}

	return c.JSON(http.StatusOK, resp)
}

func GetScheme(c echo.Context) error {
	s, err := tax.SchemeFor(c.Param("version"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ResponseMsg{
			Message: "Scheme not found",
		})
	}

	return c.JSON(http.StatusOK, newSchemeResponse(s))
}
