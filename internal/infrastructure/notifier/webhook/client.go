// Package webhook delivers notification messages to an external
// gateway over HTTP. It is the production notify.Sender; deployments
// without a gateway fall back to log-only delivery.
package webhook

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/ecoreciclaje/collection-core/internal/notify"
	"github.com/ecoreciclaje/collection-core/internal/platform/logging"
	"github.com/ecoreciclaje/collection-core/internal/platform/resilience"
)

var errGatewayTransient = crerr.New("notification gateway transient failure")

type Config struct {
	URL            string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	client         *fasthttp.Client
	url            string
	token          string
	timeout        time.Duration
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	logger         *logging.Logger
}

func NewClient(cfg Config, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		client:         &fasthttp.Client{},
		url:            strings.TrimSpace(cfg.URL),
		token:          strings.TrimSpace(cfg.Token),
		timeout:        timeout,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		logger:         logger,
	}
}

type gatewayPayload struct {
	ID        string            `json:"id"`
	Recipient string            `json:"recipient"`
	Subject   string            `json:"subject"`
	Body      string            `json:"body"`
	Channel   string            `json:"channel"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

func (c *Client) Send(ctx context.Context, msg notify.Message) error {
	if c.url == "" {
		return crerr.New("notification gateway url is not configured")
	}
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "notification gateway circuit breaker rejected send", "state", c.breaker.State())
			return fmt.Errorf("notification gateway is temporarily unavailable: %w", err)
		}
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	encoded, err := sonic.Marshal(gatewayPayload{
		ID:        msg.ID,
		Recipient: msg.Recipient,
		Subject:   msg.Subject,
		Body:      msg.Body,
		Channel:   string(msg.Channel),
		Metadata:  msg.Metadata,
	})
	if err != nil {
		return crerr.Wrap(err, "marshal notification payload")
	}
	if _, err := buf.Write(encoded); err != nil {
		return crerr.Wrap(err, "buffer notification payload")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.SetBody(buf.Bytes())

	err = c.client.DoTimeout(req, resp, c.timeout)
	c.recordCircuitResult(err, resp.StatusCode())
	if err != nil {
		return crerr.Wrapf(errGatewayTransient, "deliver notification %s: %v", msg.ID, err)
	}

	status := resp.StatusCode()
	switch {
	case status >= 200 && status < 300:
		return nil
	case status >= 500 || status == fasthttp.StatusTooManyRequests:
		return crerr.Wrapf(errGatewayTransient, "notification gateway returned status %d", status)
	default:
		return crerr.Newf("notification gateway rejected message %s with status %d", msg.ID, status)
	}
}

// recordCircuitResult counts only transport faults and server-side
// statuses against the breaker. Client-side rejections mean the
// gateway is healthy.
func (c *Client) recordCircuitResult(err error, status int) {
	if !c.circuitEnabled {
		return
	}
	if err != nil || status >= 500 || status == fasthttp.StatusTooManyRequests {
		c.breaker.RecordFailure()
		return
	}
	c.breaker.RecordSuccess()
}
