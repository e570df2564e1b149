package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProxyFunc(t *testing.T) {
	fn := NewProxyFunc("http://proxy:3128", "http://secure-proxy:3128", "internal.example, .corp")

	req := &http.Request{URL: &url.URL{Scheme: "https", Host: "raw.githubusercontent.com"}}
	u, err := fn(req)
	require.NoError(t, err)
	assert.Equal(t, "secure-proxy:3128", u.Host)

	req = &http.Request{URL: &url.URL{Scheme: "http", Host: "data.example.org"}}
	u, err = fn(req)
	require.NoError(t, err)
	assert.Equal(t, "proxy:3128", u.Host)

	for _, host := range []string{"internal.example", "files.internal.example", "svc.corp"} {
		req = &http.Request{URL: &url.URL{Scheme: "https", Host: host}}
		u, err = fn(req)
		require.NoError(t, err)
		assert.Nil(t, u, host)
	}
}

func TestProductToken(t *testing.T) {
	assert.Equal(t, "cirrhosis-dashboard", ProductToken("cirrhosis-dashboard/0.1 (+https://example.com)"))
	assert.Equal(t, "", ProductToken(""))
}

func TestRobotsChecker(t *testing.T) {
	var robotsFetches atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsFetches.Add(1)
			_, _ = fmt.Fprint(w, "User-agent: cirrhosis-dashboard\nDisallow: /private/\n")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := NewRobotsChecker("cirrhosis-dashboard/0.1", server.Client())
	ctx := context.Background()

	ok, err := checker.Allowed(ctx, server.URL+"/owner/repo/main/data.csv")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = checker.Allowed(ctx, server.URL+"/private/data.csv")
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, int32(1), robotsFetches.Load(), "robots.txt should be fetched once per host")
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	checker := NewRobotsChecker("cirrhosis-dashboard/0.1", server.Client())
	ok, err := checker.Allowed(context.Background(), server.URL+"/data.csv")
	require.NoError(t, err)
	assert.True(t, ok)
}
