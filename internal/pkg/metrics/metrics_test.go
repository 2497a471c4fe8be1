package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()
	m.ShareResolved(OutcomeResolved)
	m.ShareResolved(OutcomeResolved)
	m.ShareResolved(OutcomeExpired)
	m.LinkCreated(true)
	m.LinkRenewed()
	m.EmailSent(errors.New("smtp down"))

	body := scrape(t, m)
	assert.Contains(t, body, `tinybox_share_resolutions_total{outcome="resolved"} 2`)
	assert.Contains(t, body, `tinybox_share_resolutions_total{outcome="expired"} 1`)
	assert.Contains(t, body, `tinybox_share_links_created_total{kind="permanent"} 1`)
	assert.Contains(t, body, `tinybox_share_links_renewed_total 1`)
	assert.Contains(t, body, `tinybox_share_emails_sent_total{result="error"} 1`)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ShareResolved(OutcomeNotFound)
		m.LinkCreated(false)
		m.ObserveHTTP(http.MethodGet, "/ping", 200, time.Millisecond)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/share/:token", 200, 5*time.Millisecond)

	assert.Contains(t, scrape(t, m), `tinybox_http_requests_total{method="GET",path="/share/:token",status="200"} 1`)
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}
