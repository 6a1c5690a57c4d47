package images

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/landingforge/landingforge/internal/domain"
)

// MaxImageBytes caps a single inlined image.
const MaxImageBytes = 8 << 20

// InlinerConfig configures image inlining
type InlinerConfig struct {
	Concurrency int
	Timeout     time.Duration
}

// Inliner fetches images and rewrites them as base64 data URIs.
// Failed fetches keep their original URL.
type Inliner struct {
	client      *http.Client
	concurrency int
	logger      *zap.Logger
}

// NewInliner creates an Inliner. client may be nil.
func NewInliner(cfg InlinerConfig, client *http.Client, logger *zap.Logger) *Inliner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Inliner{client: client, concurrency: cfg.Concurrency, logger: logger.Named("images")}
}

// InlineAll converts every slot URL to a data URI. Only cancellation is an error.
func (in *Inliner) InlineAll(ctx context.Context, urls map[domain.ImageSlot]string) (map[domain.ImageSlot]string, error) {
	list := make([]string, 0, len(urls))
	for _, u := range urls {
		list = append(list, u)
	}
	inlined, err := in.inline(ctx, list)
	if err != nil {
		return nil, err
	}

	out := make(map[domain.ImageSlot]string, len(urls))
	for slot, u := range urls {
		out[slot] = inlined[u]
	}
	return out, nil
}

var (
	srcPattern = regexp.MustCompile(`(src|content)="(https?://[^"]+)"`)
	// cssURLPattern matches url(...) in style attributes, where quotes may be entity-escaped.
	cssURLPattern = regexp.MustCompile(`url\((&#39;|&#34;|&quot;|'|")?(https?://[^'"()\s]+?)(&#39;|&#34;|&quot;|'|")?\)`)
)

// InlineHTML replaces remote src attributes, og:image style content values and
// CSS url() backgrounds in doc.
func (in *Inliner) InlineHTML(ctx context.Context, doc string) (string, error) {
	var list []string
	for _, m := range srcPattern.FindAllStringSubmatch(doc, -1) {
		if m[1] == "content" && !looksLikeImage(m[2]) {
			continue
		}
		list = append(list, unescapeAttr(m[2]))
	}
	for _, m := range cssURLPattern.FindAllStringSubmatch(doc, -1) {
		list = append(list, unescapeAttr(m[2]))
	}
	if len(list) == 0 {
		return doc, nil
	}

	inlined, err := in.inline(ctx, list)
	if err != nil {
		return "", err
	}
	dataURI := func(raw string) (string, bool) {
		data, ok := inlined[unescapeAttr(raw)]
		return data, ok && strings.HasPrefix(data, "data:")
	}

	doc = srcPattern.ReplaceAllStringFunc(doc, func(match string) string {
		m := srcPattern.FindStringSubmatch(match)
		if data, ok := dataURI(m[2]); ok {
			return fmt.Sprintf(`%s="%s"`, m[1], data)
		}
		return match
	})
	return cssURLPattern.ReplaceAllStringFunc(doc, func(match string) string {
		m := cssURLPattern.FindStringSubmatch(match)
		if data, ok := dataURI(m[2]); ok {
			return "url(" + m[1] + data + m[3] + ")"
		}
		return match
	}), nil
}

func (in *Inliner) inline(ctx context.Context, urls []string) (map[string]string, error) {
	var (
		mu  sync.Mutex
		out = make(map[string]string, len(urls))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.concurrency)

	seen := make(map[string]bool, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true

		if strings.HasPrefix(u, "data:") || !strings.HasPrefix(u, "http") {
			out[u] = u
			continue
		}

		u := u
		g.Go(func() error {
			data, err := in.fetch(gctx, u)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				in.logger.Warn("image inlining failed, keeping url", zap.String("url", u), zap.Error(err))
				data = u
			}
			mu.Lock()
			out[u] = data
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (in *Inliner) fetch(ctx context.Context, u string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := in.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes+1))
	if err != nil {
		return "", err
	}
	if len(body) > MaxImageBytes {
		return "", fmt.Errorf("image larger than %d bytes", MaxImageBytes)
	}
	if len(body) == 0 {
		return "", fmt.Errorf("empty image")
	}

	contentType := strings.TrimSpace(strings.Split(resp.Header.Get("Content-Type"), ";")[0])
	if !strings.HasPrefix(contentType, "image/") {
		contentType = http.DetectContentType(body)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("not an image: %s", contentType)
	}

	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body), nil
}

func looksLikeImage(u string) bool {
	lower := strings.ToLower(u)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".webp", ".gif", "width="} {
		if strings.Contains(lower, ext) {
			return true
		}
	}
	return false
}

func unescapeAttr(s string) string {
	return strings.ReplaceAll(s, "&amp;", "&")
}
