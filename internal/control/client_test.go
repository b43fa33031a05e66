package control

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/muurk/upnpcast/internal/upnp"
)

// soapRecorder captures SOAP requests and serves scripted statuses per action
type soapRecorder struct {
	mu       sync.Mutex
	requests []recordedRequest
	statuses map[string]int // action name -> status, default 200
}

type recordedRequest struct {
	action        string
	soapAction    string
	contentType   string
	contentLength string
	body          string
}

func (r *soapRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		soapAction := req.Header.Get("SOAPAction")
		action := soapAction
		if i := strings.Index(action, "#"); i >= 0 {
			action = strings.Trim(action[i+1:], `"`)
		}

		r.mu.Lock()
		r.requests = append(r.requests, recordedRequest{
			action:        action,
			soapAction:    soapAction,
			contentType:   req.Header.Get("Content-Type"),
			contentLength: strconv.FormatInt(req.ContentLength, 10),
			body:          string(body),
		})
		status := r.statuses[action]
		r.mu.Unlock()

		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte("UPnPError 501 Action Failed"))
		}
	}
}

func (r *soapRecorder) recorded() []recordedRequest {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]recordedRequest, len(r.requests))
	copy(out, r.requests)
	return out
}

func testDevice(controlURL string) *upnp.Device {
	return &upnp.Device{
		Location: "http://192.168.1.50/desc.xml",
		Name:     "Living Room TV",
		AVTransport: upnp.AVTransport{
			ServiceType: "urn:schemas-upnp-org:service:AVTransport:1",
			ControlURL:  controlURL,
		},
	}
}

func TestClient_PlaySequence(t *testing.T) {
	rec := &soapRecorder{}
	server := httptest.NewServer(rec.handler())
	defer server.Close()

	result := NewClient().Play(context.Background(), testDevice(server.URL), "http://media.example/song.mp3?a=1&b=2")
	if !result.Success {
		t.Fatalf("Play() = %+v, want success", result)
	}

	requests := rec.recorded()
	if len(requests) != 2 {
		t.Fatalf("request count = %d, want 2", len(requests))
	}
	if requests[0].action != "SetAVTransportURI" || requests[1].action != "Play" {
		t.Errorf("action order = [%s, %s], want [SetAVTransportURI, Play]",
			requests[0].action, requests[1].action)
	}

	set := requests[0]
	if set.soapAction != `"urn:schemas-upnp-org:service:AVTransport:1#SetAVTransportURI"` {
		t.Errorf("SOAPAction = %s, want quoted serviceType#action", set.soapAction)
	}
	if set.contentType != `text/xml; charset="utf-8"` {
		t.Errorf("Content-Type = %s", set.contentType)
	}
	if got, _ := strconv.Atoi(set.contentLength); got != len(set.body) {
		t.Errorf("Content-Length = %s, body is %d bytes", set.contentLength, len(set.body))
	}
	// The ampersand in the media URL must arrive escaped
	if !strings.Contains(set.body, "<CurrentURI>http://media.example/song.mp3?a=1&amp;b=2</CurrentURI>") {
		t.Errorf("CurrentURI not escaped in body: %s", set.body)
	}
	if !strings.Contains(set.body, "<CurrentURIMetaData></CurrentURIMetaData>") {
		t.Errorf("missing empty CurrentURIMetaData: %s", set.body)
	}
	if !strings.Contains(set.body, `xmlns:s="http://schemas.xmlsoap.org/soap/envelope/"`) {
		t.Errorf("missing SOAP envelope namespace: %s", set.body)
	}

	play := requests[1]
	if !strings.Contains(play.body, "<Speed>1</Speed>") {
		t.Errorf("Play body missing Speed argument: %s", play.body)
	}
}

func TestClient_PlayAbortsAfterFirstFailure(t *testing.T) {
	rec := &soapRecorder{statuses: map[string]int{"SetAVTransportURI": http.StatusInternalServerError}}
	server := httptest.NewServer(rec.handler())
	defer server.Close()

	result := NewClient().Play(context.Background(), testDevice(server.URL), "http://media.example/song.mp3")
	if result.Success {
		t.Fatal("Play() succeeded, want failure")
	}
	if !strings.Contains(result.Error, "500") {
		t.Errorf("error = %q, want mention of status 500", result.Error)
	}
	if !strings.Contains(result.Error, "SetAVTransportURI") {
		t.Errorf("error = %q, want mention of failing action", result.Error)
	}

	requests := rec.recorded()
	if len(requests) != 1 {
		t.Fatalf("request count = %d, want 1 (Play must never be issued)", len(requests))
	}
}

func TestClient_PlayFailureOnSecondCall(t *testing.T) {
	rec := &soapRecorder{statuses: map[string]int{"Play": http.StatusBadGateway}}
	server := httptest.NewServer(rec.handler())
	defer server.Close()

	result := NewClient().Play(context.Background(), testDevice(server.URL), "http://media.example/song.mp3")
	if result.Success {
		t.Fatal("Play() succeeded, want failure")
	}
	if !strings.Contains(result.Error, "502") {
		t.Errorf("error = %q, want mention of status 502", result.Error)
	}
	if len(rec.recorded()) != 2 {
		t.Errorf("request count = %d, want 2", len(rec.recorded()))
	}
}

func TestClient_TransportErrorReturnedAsResult(t *testing.T) {
	// Nothing listens here; the dial fails
	device := testDevice("http://127.0.0.1:1/ctl")

	result := NewClient().Play(context.Background(), device, "http://media.example/song.mp3")
	if result.Success {
		t.Fatal("Play() succeeded against a closed port")
	}
	if result.Error == "" {
		t.Error("error message empty, want transport failure description")
	}
}

func TestClient_InvalidDevice(t *testing.T) {
	client := NewClient()

	if res := client.Play(context.Background(), nil, "http://m/x.mp3"); res.Success {
		t.Error("Play(nil device) succeeded")
	}
	if res := client.Play(context.Background(), &upnp.Device{}, "http://m/x.mp3"); res.Success {
		t.Error("Play(device without control URL) succeeded")
	}
	if res := client.Play(context.Background(), testDevice("http://127.0.0.1:1/ctl"), ""); res.Success {
		t.Error("Play with empty media URL succeeded")
	}
}

func TestClient_StopAndPause(t *testing.T) {
	rec := &soapRecorder{}
	server := httptest.NewServer(rec.handler())
	defer server.Close()

	client := NewClient()
	if res := client.Stop(context.Background(), testDevice(server.URL)); !res.Success {
		t.Errorf("Stop() = %+v, want success", res)
	}
	if res := client.Pause(context.Background(), testDevice(server.URL)); !res.Success {
		t.Errorf("Pause() = %+v, want success", res)
	}

	requests := rec.recorded()
	if len(requests) != 2 || requests[0].action != "Stop" || requests[1].action != "Pause" {
		t.Errorf("recorded actions = %v", requests)
	}
}

func TestXMLEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`http://h/a?x=1&y=2`, `http://h/a?x=1&amp;y=2`},
		{`<script>"'`, `&lt;script&gt;&quot;&apos;`},
		{`plain`, `plain`},
	}

	for _, tt := range tests {
		if got := xmlEscape(tt.in); got != tt.want {
			t.Errorf("xmlEscape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
