package portal

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"coursesync-backend/internal/components/assert"
	"coursesync-backend/internal/components/telemetry"
	"coursesync-backend/pkg/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/purell"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const report_client_fetch = "client.fetch"

type ClientOptions struct {
	BaseUrl string
	// Cookies of a session that has already logged in, logging in is not
	// something this client does.
	Cookies map[string]string
	// RequestsPerSecond defaults to 2.
	RequestsPerSecond float64
	// Timeout defaults to 30 seconds.
	Timeout time.Duration
	// DumpDir, if set, receives a copy of every request and response.
	DumpDir string
}

// Client is the DocumentAccessor used against the live portal.
type Client struct {
	BaseUrl *url.URL
	Http    *resty.Client

	tel telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)
	assert.NotEmptyStr(opts.BaseUrl)

	tel = telemetry.NewScopedAPI("portal_client", tel)

	baseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	cookies := make([]*http.Cookie, 0, len(opts.Cookies))
	for name, value := range opts.Cookies {
		cookies = append(cookies, &http.Cookie{Name: name, Value: value, Path: "/"})
	}
	jar.SetCookies(baseUrl, cookies)

	httpClient := resty.New()
	httpClient.SetBaseURL(opts.BaseUrl)
	httpClient.SetCookieJar(jar)
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	httpClient.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(baseUrl.Hostname()))

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Second * 30
	}
	httpClient.SetTimeout(timeout)

	rps := opts.RequestsPerSecond
	if rps == 0 {
		rps = 2
	}
	// burst >= 1 just means that no requests will be dropped
	rateLimiter := rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel)

	if opts.DumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(opts.DumpDir)
		if err != nil {
			return nil, fmt.Errorf("create dump dir: %w", err)
		}
		restyutil.DumpResponses(httpClient, output)
	}

	return &Client{
		BaseUrl: baseUrl,
		Http:    httpClient,
		tel:     tel,
	}, nil
}

// Resolve turns a link found on a page into a normalized absolute url.
func (c *Client) Resolve(link string) (string, error) {
	full, err := c.BaseUrl.Parse(link)
	if err != nil {
		return "", err
	}
	return purell.NormalizeURL(
		full,
		purell.FlagsSafe|purell.FlagRemoveDotSegments|purell.FlagRemoveFragment,
	), nil
}

func (c *Client) Fetch(ctx context.Context, link string) (Page, error) {
	endpoint, err := c.Resolve(link)
	if err != nil {
		c.tel.ReportBroken(report_client_fetch, fmt.Errorf("resolve: %w", err), link)
		return Page{}, err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		Get(endpoint)
	if err != nil {
		return Page{}, err
	}
	if res.IsError() {
		err := fmt.Errorf("unexpected status %s", res.Status())
		c.tel.ReportBroken(report_client_fetch, err, endpoint)
		return Page{}, err
	}

	// an expired session can be answered with a file download instead of the page
	detected := mimetype.Detect(res.Body())
	if !strings.HasPrefix(detected.String(), "text/") {
		err := fmt.Errorf("unexpected content type %s", detected.String())
		c.tel.ReportBroken(report_client_fetch, err, endpoint)
		return Page{}, err
	}

	page, err := NewPage(endpoint, res.String())
	if err != nil {
		c.tel.ReportBroken(report_client_fetch, fmt.Errorf("parse: %w", err), endpoint)
		return Page{}, err
	}
	return page, nil
}
