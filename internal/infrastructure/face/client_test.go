package face

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCompare_Success(t *testing.T) {
	var got compareRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/compare", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"success":true,"similarity":88.5,"match":true,"raw_similarity":0.61}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)
	res, err := c.Compare(context.Background(), "doc", "live")
	require.NoError(t, err)
	require.Equal(t, "doc", got.AadhaarFaceImage)
	require.Equal(t, "live", got.LiveImage)
	require.True(t, res.Success)
	require.True(t, res.Match)
	require.Equal(t, 88.5, res.Similarity)
	require.Equal(t, 75.0, res.Threshold)
	require.Equal(t, 0.61, res.RawSimilarity)
	require.Equal(t, "insightface-buffalo_l-hf", res.Method)
}

func TestCompare_ServiceErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(strings.Repeat("x", 500)))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Compare(context.Background(), "a", "b")
	require.Error(t, err)
	require.Contains(t, err.Error(), "returned 502")
	require.Less(t, len(err.Error()), 260)
}

func TestCompare_NotSuccessful(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"error":"No face found in live image"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Compare(context.Background(), "a", "b")
	require.EqualError(t, err, "No face found in live image")
}

func TestCompare_Timeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(done)

	_, err := NewClient(srv.URL, 50*time.Millisecond).Compare(context.Background(), "a", "b")
	require.ErrorIs(t, err, ErrTimeout)
}
