package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCountersAndHandler(t *testing.T) {
	before := testutil.ToFloat64(Bids.WithLabelValues("accepted"))
	Bids.WithLabelValues("accepted").Inc()
	require.Equal(t, before+1, testutil.ToFloat64(Bids.WithLabelValues("accepted")))

	LoansCreated.WithLabelValues("form").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	require.True(t, strings.Contains(string(body), "credify_bids_total"))
	require.True(t, strings.Contains(string(body), `credify_loans_created_total{source="form"}`))
}
