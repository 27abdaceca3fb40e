package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"

	"market-pulse/internal/types"
)

func newServer(t *testing.T, status int, body string) (*httptest.Server, *[]string) {
	t.Helper()
	var keywords []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		keywords = append(keywords, r.URL.Query().Get("keywords"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &keywords
}

func TestSearch(t *testing.T) {
	srv, keywords := newServer(t, http.StatusOK, `{
		"bestMatches": [
			{"1. symbol": "TSCO.LON", "2. name": "Tesco PLC", "4. region": "United Kingdom", "9. matchScore": "0.7273"},
			{"1. symbol": "TSCDF", "2. name": "Tesco plc", "4. region": "United States", "9. matchScore": "0.7143"}
		]
	}`)

	matches, err := New(srv.URL, "test-key").Search(context.Background(), "Tesco shares rise ")

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(matches))
	assert.Equal(t, "TSCO.LON", matches[0].Symbol)
	assert.Equal(t, "Tesco PLC", matches[0].Name)
	assert.Equal(t, "United Kingdom", matches[0].Region)
	assert.Equal(t, 0.7273, *matches[0].Score)
	// keywords are sent untrimmed
	assert.Equal(t, []string{"Tesco shares rise "}, *keywords)
}

func TestSearchNoMatches(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"bestMatches": []}`)

	matches, err := New(srv.URL, "test-key").Search(context.Background(), "Markets edge lower")

	assert.Equal(t, nil, err)
	assert.Equal(t, 0, len(matches))
}

func TestSearchSoftFailure(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`)

	_, err := New(srv.URL, "test-key").Search(context.Background(), "Infosys")

	sf, ok := types.AsSoftFailure(err)
	assert.Equal(t, true, ok)
	assert.Equal(t, Name, sf.Provider)
	assert.Equal(t, true, errors.Is(err, types.ErrRateLimited))
}

func TestSearchHTTP429(t *testing.T) {
	srv, _ := newServer(t, http.StatusTooManyRequests, `{}`)

	_, err := New(srv.URL, "test-key").Search(context.Background(), "Infosys")

	assert.Equal(t, true, errors.Is(err, types.ErrRateLimited))
}

func TestSearchServerErrorIsTransient(t *testing.T) {
	srv, _ := newServer(t, http.StatusBadGateway, `bad gateway`)

	_, err := New(srv.URL, "test-key").Search(context.Background(), "Infosys")

	assert.Equal(t, true, errors.Is(err, types.ErrTransient))
}

func TestSearchMalformed(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `<html>maintenance</html>`)

	_, err := New(srv.URL, "test-key").Search(context.Background(), "Infosys")

	assert.Equal(t, true, errors.Is(err, types.ErrMalformed))
}

func TestOverviewReturnsRawBody(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"Symbol": "IBM", "Name": "International Business Machines", "PERatio": "22.5"}`)

	raw, err := New(srv.URL, "test-key").Overview(context.Background(), "IBM")

	assert.Equal(t, nil, err)
	assert.Equal(t, "IBM", raw["Symbol"])
	assert.Equal(t, "22.5", raw["PERatio"])
}

func TestDetectSoftFailure(t *testing.T) {
	assert.Equal(t, (*types.SoftFailure)(nil), DetectSoftFailure(map[string]any{"Symbol": "IBM"}))

	sf := DetectSoftFailure(map[string]any{"Information": "  The   demo key\nis limited. "})
	assert.Equal(t, "The demo key is limited.", sf.Message)

	sf = DetectSoftFailure(map[string]any{"Error Message": "Invalid API call."})
	assert.Equal(t, "Invalid API call.", sf.Message)
}
