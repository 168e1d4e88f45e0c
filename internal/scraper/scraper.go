// Package scraper fetches comments from public Facebook post pages with a
// headless browser.
package scraper

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"fbresponse/internal/models"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// commentsJS pulls author/text pairs out of the rendered comment nodes.
const commentsJS = `(() => {
	const out = [];
	document.querySelectorAll('[data-testid="comment"]').forEach(el => {
		const author = el.querySelector('[data-testid="comment-author"]');
		const text = el.querySelector('[data-testid="comment-text"]');
		if (author && text) {
			out.push({author: author.textContent.trim(), text: text.textContent.trim()});
		}
	});
	return out;
})()`

// expandJS clicks the "show more comments" control when present.
const expandJS = `(() => {
	const btn = document.querySelector('[data-testid="post-comments-expand-button"]');
	if (btn) { btn.click(); return true; }
	return false;
})()`

// Scraper manages the browser and per-post scraping tasks.
type Scraper struct {
	headless   bool
	userAgent  string
	navTimeout time.Duration
	settleWait time.Duration
	logger     *zap.Logger
}

// Options configures the browser session.
type Options struct {
	Headless       bool
	UserAgent      string
	NavTimeoutSecs int64
	SettleWaitSecs int64
}

// New creates a scraper. Each call to ScrapeComments launches its own browser
// so concurrent runs do not share tabs.
func New(opts Options, logger *zap.Logger) *Scraper {
	s := &Scraper{
		headless:   opts.Headless,
		userAgent:  opts.UserAgent,
		navTimeout: time.Duration(opts.NavTimeoutSecs) * time.Second,
		settleWait: time.Duration(opts.SettleWaitSecs) * time.Second,
		logger:     logger,
	}
	if s.userAgent == "" {
		s.userAgent = defaultUserAgent
	}
	if s.navTimeout <= 0 {
		s.navTimeout = 30 * time.Second
	}
	if s.settleWait <= 0 {
		s.settleWait = 3 * time.Second
	}
	return s
}

type rawComment struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// ScrapeComments visits each post URL in order and extracts its comments. A
// failure on one URL is recorded on that post's result and never aborts the
// others; cancelling ctx stops further fetches but keeps what was already
// collected.
func (s *Scraper) ScrapeComments(ctx context.Context, urls []string) []models.PostComments {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.headless),
		chromedp.UserAgent(s.userAgent),
		chromedp.NoSandbox,
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	results := make([]models.PostComments, 0, len(urls))
	for _, url := range urls {
		if ctx.Err() != nil {
			s.logger.Warn("Scrape run cancelled, stopping further fetches", zap.Error(ctx.Err()))
			break
		}

		s.logger.Info("Scraping post", zap.String("post_url", url))
		comments, err := s.scrapePost(browserCtx, url)
		if err != nil {
			s.logger.Error("Failed to scrape post", zap.String("post_url", url), zap.Error(err))
			results = append(results, models.PostComments{PostURL: url, Comments: []models.Comment{}, Error: err.Error()})
			continue
		}

		s.logger.Info("Scraped post", zap.String("post_url", url), zap.Int("comments", len(comments)))
		results = append(results, models.PostComments{PostURL: url, Comments: comments})
	}

	return results
}

func (s *Scraper) scrapePost(browserCtx context.Context, url string) ([]models.Comment, error) {
	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()

	navCtx, cancelNav := context.WithTimeout(tabCtx, s.navTimeout)
	defer cancelNav()

	if err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(s.settleWait),
	); err != nil {
		return nil, err
	}

	// Expanding the comment list is best-effort; the control is not always
	// rendered.
	var expanded bool
	if err := chromedp.Run(navCtx, chromedp.Evaluate(expandJS, &expanded)); err == nil && expanded {
		_ = chromedp.Run(navCtx, chromedp.Sleep(2*time.Second))
	}

	var raw []rawComment
	if err := chromedp.Run(navCtx, chromedp.Evaluate(commentsJS, &raw)); err != nil {
		return nil, err
	}

	now := time.Now()
	comments := make([]models.Comment, 0, len(raw))
	for _, rc := range raw {
		comments = append(comments, models.Comment{Author: rc.Author, Text: rc.Text, Timestamp: now})
	}
	return comments, nil
}
