package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/spellbook/internal/cache"
	"github.com/ppiankov/spellbook/internal/extract"
	"github.com/ppiankov/spellbook/internal/keywords"
	"github.com/ppiankov/spellbook/internal/model"
	"github.com/ppiankov/spellbook/internal/rules"
	"github.com/ppiankov/spellbook/internal/worker"
)

// ErrNoRules is returned when a document contains no numbered rules
var ErrNoRules = errors.New("no rule sections found")

// Pipeline wires the catalog, annotator, cache and fetcher together
type Pipeline struct {
	config    *model.Config
	logger    *zap.Logger
	fetcher   *Fetcher
	cache     cache.Cache // nil when caching is disabled
	catalog   []model.KeywordDefinition
	annotator *keywords.Annotator
	now       func() time.Time
}

// NewPipeline creates a new pipeline with the given configuration.
// A nil logger discards log output.
func NewPipeline(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Use the shared built-in annotator unless a catalog file replaces it
	catalog := keywords.DefaultCatalog()
	annotator := keywords.Default()
	if cfg.Keywords.CatalogFile != "" {
		loaded, err := keywords.LoadCatalogFile(cfg.Keywords.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		catalog = loaded
		annotator = keywords.NewAnnotator(catalog)
		logger.Debug("Loaded keyword catalog",
			zap.String("file", cfg.Keywords.CatalogFile),
			zap.Int("keywords", annotator.Len()))
	}

	var c cache.Cache
	if cfg.Cache.Enabled {
		var err error
		c, err = cache.New(cfg.Cache)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
	}

	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	return &Pipeline{
		config:    cfg,
		logger:    logger,
		fetcher:   NewFetcher(cfg.HTTP, limiter),
		cache:     c,
		catalog:   catalog,
		annotator: annotator,
		now:       time.Now,
	}, nil
}

// Catalog returns the keyword catalog in use
func (p *Pipeline) Catalog() []model.KeywordDefinition {
	return p.catalog
}

// Annotate finds every catalog keyword in text
func (p *Pipeline) Annotate(text string) *model.Annotation {
	return &model.Annotation{
		Text:  text,
		Spans: p.annotator.Annotate(text),
	}
}

// AnnotateReader annotates card texts read one per line from r,
// concurrently and in input order
func (p *Pipeline) AnnotateReader(ctx context.Context, r io.Reader) ([]*worker.AnnotateResult, error) {
	start := p.now()
	results, err := p.batchProcessor().ProcessReader(ctx, r)
	if err != nil {
		return nil, err
	}
	p.logBatch(len(results), start)
	return results, nil
}

// AnnotateFile annotates the card texts of a file, one per line
func (p *Pipeline) AnnotateFile(ctx context.Context, path string) ([]*worker.AnnotateResult, error) {
	start := p.now()
	results, err := p.batchProcessor().ProcessFile(ctx, path)
	if err != nil {
		return nil, err
	}
	p.logBatch(len(results), start)
	return results, nil
}

func (p *Pipeline) batchProcessor() *worker.BatchProcessor {
	return worker.NewBatchProcessor(p.annotator, p.config.Concurrency.Workers)
}

func (p *Pipeline) logBatch(texts int, start time.Time) {
	p.logger.Debug("Annotated batch",
		zap.Int("texts", texts),
		zap.Int("workers", p.config.Concurrency.Workers),
		zap.Duration("elapsed", p.now().Sub(start)))
}

// cachedRules is the cache envelope for a downloaded rules text. Entries
// never expire in the cache itself; ExpiresAt marks when the copy must be
// revalidated with its ETag or Last-Modified validator.
type cachedRules struct {
	Source       string    `json:"source"`
	FetchedAt    time.Time `json:"fetched_at"`
	ExpiresAt    time.Time `json:"expires_at"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	Text         string    `json:"text"`
}

func (c *cachedRules) validators() Validators {
	return Validators{ETag: c.ETag, LastModified: c.LastModified}
}

// rulesDownload is a rules text together with the response it came from
type rulesDownload struct {
	source string
	text   string
	meta   FetchMeta
}

// LoadRules loads and parses the comprehensive rules. A configured file
// wins over the URL. Otherwise a fresh cached download is used unless
// refresh is set; an expired one is revalidated with a conditional request
// before anything is downloaded again.
func (p *Pipeline) LoadRules(ctx context.Context, refresh bool) (*model.RulesDocument, error) {
	if path := p.config.Rules.File; path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read rules file: %w", err)
		}
		p.logger.Debug("Loaded rules file", zap.String("file", path), zap.Int("bytes", len(raw)))
		return buildDocument(path, p.now().UTC(), false, rules.Decode(raw))
	}

	rulesURL := p.config.Rules.URL
	if rulesURL == "" {
		rulesURL = model.DefaultRulesURL
	}
	key := cache.CacheKey(cache.KindRules, rulesURL)

	// Check cache first
	var stale *cachedRules
	if p.cache != nil && !refresh {
		if cached, ok := p.loadCachedRules(key, rulesURL); ok {
			if p.now().Before(cached.ExpiresAt) {
				p.logger.Debug("Rules cache hit", zap.String("url", rulesURL))
				return buildDocument(cached.Source, cached.FetchedAt, true, cached.Text)
			}
			stale = cached
		}
	}

	// Revalidate an expired copy
	var download *rulesDownload
	if stale != nil && !stale.validators().IsZero() {
		p.logger.Info("Revalidating cached rules", zap.String("url", stale.Source))
		result, err := p.fetcher.Revalidate(ctx, stale.Source, stale.validators())
		switch {
		case err != nil:
			p.logger.Warn("Rules revalidation failed", zap.String("url", stale.Source), zap.Error(err))
		case result.NotModified():
			stale.ExpiresAt = p.now().Add(p.config.Rules.CacheTTL)
			p.storeRules(key, rulesURL, stale)
			return buildDocument(stale.Source, stale.FetchedAt, true, stale.Text)
		default:
			download, err = p.readRules(ctx, result)
			if err != nil {
				return nil, err
			}
		}
	}

	// Download the rules
	if download == nil {
		p.logger.Info("Fetching rules", zap.String("url", rulesURL))
		result, err := p.fetcher.FetchWithRetry(ctx, rulesURL)
		if err != nil {
			return nil, fmt.Errorf("fetch rules: %w", err)
		}
		download, err = p.readRules(ctx, result)
		if err != nil {
			return nil, err
		}
	}

	now := p.now().UTC()
	doc, err := buildDocument(download.source, now, false, download.text)
	if err != nil {
		return nil, err
	}

	// Cache the result
	if p.cache != nil {
		p.storeRules(key, rulesURL, &cachedRules{
			Source:       doc.Source,
			FetchedAt:    doc.FetchedAt,
			ExpiresAt:    now.Add(p.config.Rules.CacheTTL),
			ETag:         download.meta.ETag,
			LastModified: download.meta.LastModified,
			Text:         download.text,
		})
	}

	return doc, nil
}

func (p *Pipeline) loadCachedRules(key, rulesURL string) (*cachedRules, bool) {
	data, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}

	var cached cachedRules
	if err := json.Unmarshal(data, &cached); err != nil {
		p.logger.Warn("Discarding unreadable rules cache entry", zap.String("url", rulesURL))
		return nil, false
	}
	return &cached, true
}

func (p *Pipeline) storeRules(key, rulesURL string, entry *cachedRules) {
	data, err := json.Marshal(entry)
	if err == nil {
		err = p.cache.Set(key, data, cache.NoExpiration)
	}
	if err != nil {
		p.logger.Warn("Failed to cache rules", zap.String("url", rulesURL), zap.Error(err))
	}
}

// readRules decodes a rules response. An HTML landing page that links a
// plain-text rules file is followed once; other HTML is reduced to text.
func (p *Pipeline) readRules(ctx context.Context, result *FetchResult) (*rulesDownload, error) {
	text := rules.Decode(result.Body)
	if !result.IsHTML() {
		return &rulesDownload{source: result.FinalURL, text: text, meta: result.Meta}, nil
	}

	// Follow a link to the plain-text rules
	link, found, err := extract.RulesTextLink(text, result.FinalURL)
	if err == nil && found && link != result.FinalURL {
		p.logger.Info("Following rules link", zap.String("from", result.FinalURL), zap.String("url", link))
		linked, err := p.fetcher.FetchWithRetry(ctx, link)
		if err != nil {
			return nil, fmt.Errorf("fetch linked rules: %w", err)
		}
		result = linked
		text = rules.Decode(linked.Body)
		if !linked.IsHTML() {
			return &rulesDownload{source: linked.FinalURL, text: text, meta: linked.Meta}, nil
		}
	}

	// Reduce remaining HTML to its visible text
	visible, err := extract.VisibleText(text)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	return &rulesDownload{source: result.FinalURL, text: visible, meta: result.Meta}, nil
}

func buildDocument(source string, fetchedAt time.Time, fromCache bool, text string) (*model.RulesDocument, error) {
	sections := rules.Parse(text)
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoRules, source)
	}

	return &model.RulesDocument{
		Source:    source,
		FetchedAt: fetchedAt,
		FromCache: fromCache,
		Sections:  sections,
		Glossary:  rules.ParseGlossary(text),
	}, nil
}

// ClearCache removes every cached entry
func (p *Pipeline) ClearCache() error {
	if p.cache == nil {
		return nil
	}
	if err := p.cache.Clear(); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Close releases the cache
func (p *Pipeline) Close() error {
	if p.cache == nil {
		return nil
	}
	return p.cache.Close()
}
