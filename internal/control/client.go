package control

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/upnpcast/internal/logging"
	"github.com/muurk/upnpcast/internal/upnp"
)

const (
	// DefaultTimeout is the default timeout for one SOAP call
	DefaultTimeout = 5 * time.Second

	// maxResponseExcerpt bounds how much of an error response body is
	// carried into a Result
	maxResponseExcerpt = 256
)

// Result is the outcome of a control operation. Control failures are
// returned as data, never raised: callers can always build a well-formed
// response from a Result.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Client issues SOAP actions against a renderer's AVTransport control URL.
//
// A Client holds no per-call state; concurrent Play invocations from
// different callers are self-contained.
type Client struct {
	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client
}

// NewClient creates a control client with default settings
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Play starts playback of mediaURL on the device.
//
// Two actions are sent strictly in sequence: SetAVTransportURI loads the
// media URL, then Play starts the transport. Play is only attempted after
// SetAVTransportURI returned 2xx; a failure on either call aborts the
// sequence and is reported in the Result.
func (c *Client) Play(ctx context.Context, device *upnp.Device, mediaURL string) Result {
	if res := c.checkDevice(device); !res.Success {
		return res
	}
	if mediaURL == "" {
		return Result{Error: "no media URL given"}
	}

	logging.Debug("starting playback",
		zap.String("device", device.Name),
		zap.String("control_url", device.AVTransport.ControlURL),
		zap.String("media_url", mediaURL))

	arguments := "<CurrentURI>" + xmlEscape(mediaURL) + "</CurrentURI><CurrentURIMetaData></CurrentURIMetaData>"
	if res := c.invoke(ctx, device, "SetAVTransportURI", arguments); !res.Success {
		return res
	}
	return c.invoke(ctx, device, "Play", "<Speed>1</Speed>")
}

// Stop halts playback on the device
func (c *Client) Stop(ctx context.Context, device *upnp.Device) Result {
	if res := c.checkDevice(device); !res.Success {
		return res
	}
	return c.invoke(ctx, device, "Stop", "")
}

// Pause pauses playback on the device
func (c *Client) Pause(ctx context.Context, device *upnp.Device) Result {
	if res := c.checkDevice(device); !res.Success {
		return res
	}
	return c.invoke(ctx, device, "Pause", "")
}

func (c *Client) checkDevice(device *upnp.Device) Result {
	if device == nil {
		return Result{Error: "no device given"}
	}
	if device.AVTransport.ControlURL == "" {
		return Result{Error: "device has no AVTransport control URL"}
	}
	return Result{Success: true}
}

// invoke sends one SOAP action and converts every failure, transport or
// HTTP, into a Result.
func (c *Client) invoke(ctx context.Context, device *upnp.Device, action, arguments string) Result {
	serviceType := device.AVTransport.ServiceType
	body := envelope(serviceType, action, arguments)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, device.AVTransport.ControlURL, strings.NewReader(body))
	if err != nil {
		return Result{Error: fmt.Sprintf("%s: invalid control URL: %v", action, err)}
	}
	req.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	req.Header.Set("SOAPAction", soapAction(serviceType, action))
	req.ContentLength = int64(len(body))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		logging.Debug("SOAP call failed", zap.String("action", action), zap.Error(err))
		return Result{Error: fmt.Sprintf("%s: %v", action, err)}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseExcerpt))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.Debug("SOAP call rejected",
			zap.String("action", action),
			zap.Int("status_code", resp.StatusCode))
		return Result{Error: fmt.Sprintf("%s failed with status %d: %s", action, resp.StatusCode, excerpt(raw))}
	}

	logging.Debug("SOAP call succeeded", zap.String("action", action))
	return Result{Success: true}
}

// excerpt flattens a response body for inclusion in an error message
func excerpt(b []byte) string {
	return strings.Join(strings.Fields(string(b)), " ")
}
