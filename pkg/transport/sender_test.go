package transport_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-tripsurvey/pkg/payload"
	"github.com/goliatone/go-tripsurvey/pkg/transport"
)

func sampleEnvelope() payload.Envelope {
	return payload.NewEnvelope("sub-1", time.Unix(0, 0), payload.Record{"your_name": "Sam"}, "pm@explore.co.uk", "pm@explore.co.uk", true)
}

func TestHTTPSender_FormEncoding(t *testing.T) {
	var got payload.Envelope
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if err := json.Unmarshal([]byte(r.PostForm.Get(transport.FormField)), &got); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := transport.NewHTTPSender(server.URL, transport.WithHeader("X-Survey", "bty"))
	if err := sender.Send(context.Background(), sampleEnvelope()); err != nil {
		t.Fatalf("send: %v", err)
	}

	if contentType != "application/x-www-form-urlencoded;charset=UTF-8" {
		t.Fatalf("unexpected content type %q", contentType)
	}
	if diff := cmp.Diff(sampleEnvelope(), got); diff != "" {
		t.Fatalf("envelope mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPSender_JSONEncoding(t *testing.T) {
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
		}
		body, _ = io.ReadAll(r.Body)
	}))
	defer server.Close()

	sender := transport.NewHTTPSender(server.URL, transport.WithEncoding(transport.EncodingJSON))
	if err := sender.Send(context.Background(), sampleEnvelope()); err != nil {
		t.Fatalf("send: %v", err)
	}

	var decoded payload.Envelope
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if decoded.SubmissionID != "sub-1" || !decoded.IsFinal {
		t.Fatalf("unexpected envelope %+v", decoded)
	}
}

func TestHTTPSender_Failures(t *testing.T) {
	rejecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer rejecting.Close()

	closed := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	closedURL := closed.URL
	closed.Close()

	cases := map[string]struct {
		endpoint string
		want     error
	}{
		"missing endpoint": {endpoint: "  ", want: transport.ErrMissingEndpoint},
		"status":           {endpoint: rejecting.URL, want: transport.ErrSendFailed},
		"network":          {endpoint: closedURL, want: transport.ErrSendFailed},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := transport.NewHTTPSender(tc.endpoint).Send(context.Background(), sampleEnvelope())
			if !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestHTTPSender_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	sender := transport.NewHTTPSender(server.URL, transport.WithTimeout(20*time.Millisecond))
	if err := sender.Send(context.Background(), sampleEnvelope()); !errors.Is(err, transport.ErrSendFailed) {
		t.Fatalf("expected send failure on timeout, got %v", err)
	}
}

func TestSenderFunc(t *testing.T) {
	called := false
	var sender transport.Sender = transport.SenderFunc(func(context.Context, payload.Envelope) error {
		called = true
		return nil
	})
	if err := sender.Send(context.Background(), payload.Envelope{}); err != nil || !called {
		t.Fatalf("sender func not invoked (err=%v)", err)
	}
}
