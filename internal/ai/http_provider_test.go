package ai

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maowbot/maowbot/internal/httpclient"
)

type fakeRoundTripper struct {
	statusCode int
	body       string
	calls      int
	lastReq    *http.Request
}

func (f *fakeRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	f.calls++
	f.lastReq = req
	return &http.Response{
		StatusCode: f.statusCode,
		Body:       io.NopCloser(bytes.NewBufferString(f.body)),
		Header:     make(http.Header),
	}, nil
}

func TestHTTPProviderParsesChatCompletionResponse(t *testing.T) {
	t.Parallel()

	rt := &fakeRoundTripper{statusCode: 200, body: `{"choices":[{"message":{"role":"assistant","content":"hi there"}}]}`}
	p := NewHTTPProvider(HTTPProviderConfig{Name: "groq", BaseURL: "http://fake.local/v1", APIKey: "sk-test"})
	p.WithHTTPClient(httpclient.New(httpclient.DefaultConfig()).WithHTTPClient(&http.Client{Transport: rt, Timeout: time.Second}))

	reply, err := p.GenerateChat(context.Background(), ChatRequest{Model: "llama3", Messages: []Message{{Role: "user", Content: "hi"}}})
	require.NoError(t, err)
	require.Equal(t, "hi there", reply)
	require.Equal(t, 1, rt.calls)
	require.Equal(t, "Bearer sk-test", rt.lastReq.Header.Get("Authorization"))
}

func TestHTTPProviderRetriesOnRetryableStatus(t *testing.T) {
	t.Parallel()

	rt := &countingFlakyTransport{failuresBeforeSuccess: 2, body: `{"choices":[{"message":{"content":"ok"}}]}`}
	cfg := httpclient.DefaultConfig()
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 5 * time.Millisecond
	p := NewHTTPProvider(HTTPProviderConfig{Name: "groq", BaseURL: "http://fake.local/v1", APIKey: "sk-test"})
	p.WithHTTPClient(httpclient.New(cfg).WithHTTPClient(&http.Client{Transport: rt, Timeout: time.Second}))

	reply, err := p.GenerateChat(context.Background(), ChatRequest{Model: "llama3", Messages: []Message{{Role: "user", Content: "hi"}}})
	require.NoError(t, err)
	require.Equal(t, "ok", reply)
	require.Equal(t, 3, rt.calls)
}

type countingFlakyTransport struct {
	failuresBeforeSuccess int
	calls                 int
	body                  string
}

func (f *countingFlakyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	f.calls++
	if f.calls <= f.failuresBeforeSuccess {
		return &http.Response{StatusCode: 503, Body: io.NopCloser(bytes.NewBufferString("unavailable")), Header: make(http.Header)}, nil
	}
	return &http.Response{StatusCode: 200, Body: io.NopCloser(bytes.NewBufferString(f.body)), Header: make(http.Header)}, nil
}
