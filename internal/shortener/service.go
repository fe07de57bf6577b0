package shortener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/url-shortener/url-shortener/internal/cache"
	"github.com/url-shortener/url-shortener/internal/logging"
	"github.com/url-shortener/url-shortener/internal/network"
)

// DefaultHistoryLimit 与 DefaultConcurrency 在 Options 未指定时生效。
const (
	DefaultHistoryLimit = 10
	DefaultConcurrency  = 4
)

// Options 描述 Service 的依赖与参数。
type Options struct {
	Cache        cache.Provider
	Network      network.Provider
	Endpoint     string
	HistoryLimit int
	Concurrency  int
	Logger       logrus.FieldLogger
	Now          func() time.Time
}

// Service 负责短链生成与历史维护，可被 CLI 与 HTTP 入口并发复用。
type Service struct {
	cache       cache.Provider
	network     network.Provider
	endpoint    string
	limit       int
	concurrency int
	logger      logrus.FieldLogger
	now         func() time.Time

	// mu 串行化历史记录的读-改-写。
	mu sync.Mutex
}

// Result is the outcome of shortening one URL in ShortenAll.
type Result struct {
	URL  string
	Link Link
	Err  error
}

// NewService 校验依赖并填充默认值。
func NewService(opts Options) (*Service, error) {
	if opts.Cache == nil {
		return nil, errors.New("shortener: cache provider is required")
	}
	if opts.Network == nil {
		return nil, errors.New("shortener: network provider is required")
	}
	if strings.TrimSpace(opts.Endpoint) == "" {
		return nil, errors.New("shortener: endpoint is required")
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		opts.Logger = discard
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		cache:       opts.Cache,
		network:     opts.Network,
		endpoint:    opts.Endpoint,
		limit:       opts.HistoryLimit,
		concurrency: opts.Concurrency,
		logger:      logging.WithComponent(opts.Logger, "shortener"),
		now:         opts.Now,
	}, nil
}

// HistoryLimit returns the maximum number of links kept.
func (s *Service) HistoryLimit() int {
	return s.limit
}

// Shorten 调用上游生成短链，写入历史后返回新记录。
// 历史写入失败只记录告警，不影响本次结果。
func (s *Service) Shorten(ctx context.Context, rawURL string) (Link, error) {
	target, err := normalizeURL(rawURL)
	if err != nil {
		return Link{}, err
	}

	req, err := network.NewRequest(s.endpoint).
		WithMethod(network.MethodPost).
		WithJSONBody(shortenPayload{URL: target})
	if err != nil {
		return Link{}, err
	}

	resp, err := network.Fetch[aliasResponse](ctx, s.network, req)
	if err != nil {
		s.logger.WithFields(logging.ShortenFields("shorten", target, "")).
			WithError(err).
			Warn("shorten_failed")
		return Link{}, err
	}
	if resp.Content.Alias == "" {
		return Link{}, fmt.Errorf("%w: empty alias (status %d)", network.ErrInvalidResponse, resp.StatusCode)
	}

	link := resp.Content.link(s.now().UTC())
	if err := s.remember(ctx, link); err != nil {
		s.logger.WithFields(logging.ShortenFields("history_save", target, "")).
			WithError(err).
			Warn("history_save_failed")
	}
	return link, nil
}

// ShortenAll 以 Concurrency 为上限并发缩短 urls，结果顺序与输入一致。
// 单个 URL 失败不会取消其它请求。
func (s *Service) ShortenAll(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, rawURL := range urls {
		i, rawURL := i, rawURL
		g.Go(func() error {
			link, err := s.Shorten(ctx, rawURL)
			results[i] = Result{URL: rawURL, Link: link, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// History 读取历史，按创建时间倒序并截断到上限；无记录时返回空切片。
func (s *Service) History(ctx context.Context) ([]Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Clear 删除全部历史记录。
func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Delete(ctx, HistoryKey)
}

func (s *Service) remember(ctx context.Context, link Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		if !errors.Is(err, cache.ErrDecoding) {
			return err
		}
		s.logger.WithError(err).Warn("history_reset")
		list = nil
	}
	list = clip(insertUnique(list, link), s.limit)
	return s.cache.Set(ctx, HistoryKey, list)
}

func (s *Service) load(ctx context.Context) ([]Link, error) {
	list, err := cache.Get[[]Link](ctx, s.cache, HistoryKey)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return []Link{}, nil
		}
		return nil, err
	}
	if list == nil {
		list = []Link{}
	}
	sortNewestFirst(list)
	return clip(list, s.limit), nil
}

func normalizeURL(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty url", ErrInvalidInput)
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	scheme := strings.ToLower(parsed.Scheme)
	if (scheme != "http" && scheme != "https") || parsed.Host == "" {
		return "", fmt.Errorf("%w: %q must be an absolute http(s) url", ErrInvalidInput, rawURL)
	}
	return trimmed, nil
}
