package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arthur-debert/webup/pkg/errors"
	"github.com/arthur-debert/webup/pkg/logging"
)

const partSuffix = ".part"

// HTTPOptions configure an HTTPDownloader.
type HTTPOptions struct {
	Timeout   time.Duration
	UserAgent string
	// HFToken is sent as a bearer token to huggingface.co
	HFToken string
	// CivitaiKey is appended as the token query parameter for civitai.com
	CivitaiKey string
}

// HTTPDownloader downloads files with net/http.
type HTTPDownloader struct {
	client     *http.Client
	userAgent  string
	hfToken    string
	civitaiKey string
}

// NewHTTPDownloader creates a downloader. A zero timeout means none.
func NewHTTPDownloader(opts HTTPOptions) *HTTPDownloader {
	ua := opts.UserAgent
	if ua == "" {
		ua = "webup"
	}
	return &HTTPDownloader{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent:  ua,
		hfToken:    opts.HFToken,
		civitaiKey: opts.CivitaiKey,
	}
}

// Download writes the body of rawURL to destPath through a temporary
// .part file renamed into place on success.
func (d *HTTPDownloader) Download(ctx context.Context, rawURL, destPath string) error {
	logger := logging.GetLogger("fetch.http")

	req, err := d.newRequest(ctx, rawURL)
	if err != nil {
		return errors.Wrapf(err, errors.ErrDownload, "creating request for %s", rawURL)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, errors.ErrDownload, "performing request for %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Newf(errors.ErrDownload, "unexpected status %d for %s", resp.StatusCode, rawURL).
			WithDetail("status", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate, "creating %s", filepath.Dir(destPath))
	}

	part := destPath + partSuffix
	out, err := os.Create(part)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "creating %s", part)
	}

	n, err := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(part)
		return errors.Wrapf(err, errors.ErrDownload, "reading body of %s", rawURL)
	}

	if err := os.Rename(part, destPath); err != nil {
		_ = os.Remove(part)
		return errors.Wrapf(err, errors.ErrFileWrite, "moving %s into place", destPath)
	}

	logger.Debug().
		Str("url", rawURL).
		Str("dest", destPath).
		Int64("bytes", n).
		Msg("Downloaded")
	return nil
}

func (d *HTTPDownloader) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if d.civitaiKey != "" && hostMatches(host, "civitai.com") {
		q := u.Query()
		q.Set("token", d.civitaiKey)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", d.userAgent)
	if d.hfToken != "" && hostMatches(host, "huggingface.co") {
		req.Header.Set("Authorization", "Bearer "+d.hfToken)
	}
	return req, nil
}

func hostMatches(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}
