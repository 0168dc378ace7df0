package clientinfo

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTrustedProxies(t *testing.T, list string) {
	t.Helper()
	require.NoError(t, SetTrustedProxies(list))
	t.Cleanup(func() { _ = SetTrustedProxies(DefaultTrustedProxies) })
}

func TestParseTrustedProxies(t *testing.T) {
	nets, err := ParseTrustedProxies(" 10.0.0.0/8, 203.0.113.5 ,::1,")
	require.NoError(t, err)
	require.Len(t, nets, 3)
	assert.Equal(t, "203.0.113.5/32", nets[1].String())
	assert.Equal(t, "::1/128", nets[2].String())

	nets, err = ParseTrustedProxies("")
	require.NoError(t, err)
	assert.Empty(t, nets)

	for _, bad := range []string{"proxy.local", "10.0.0.0/40", "300.1.1.1"} {
		_, err := ParseTrustedProxies(bad)
		assert.Error(t, err, bad)
	}
}

func TestIP_RotatingForwardedForFromUntrustedPeer(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		r.RemoteAddr = "198.51.100.20:4000"
		r.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		seen[IP(r)] = true
	}
	assert.Equal(t, map[string]bool{"198.51.100.20": true}, seen)
}

func TestIP_ConfiguredProxy(t *testing.T) {
	useTrustedProxies(t, "198.51.100.20")

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.RemoteAddr = "198.51.100.20:4000"
	r.Header.Set("X-Forwarded-For", "203.0.113.1")
	assert.Equal(t, "203.0.113.1", IP(r))

	// A private peer is no longer trusted once the list is replaced.
	r.RemoteAddr = "10.0.0.2:4000"
	assert.Equal(t, "10.0.0.2", IP(r))
}

func TestIP_NoTrustedProxies(t *testing.T) {
	useTrustedProxies(t, "")

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.RemoteAddr = "127.0.0.1:4000"
	r.Header.Set("X-Forwarded-For", "203.0.113.1")
	r.Header.Set("X-Real-IP", "203.0.113.2")
	assert.Equal(t, "127.0.0.1", IP(r))
}
