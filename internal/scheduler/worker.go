package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"socialhub/internal/metrics"
	"socialhub/internal/model"
	"socialhub/internal/provider"
)

// Result statuses for a single post within a worker pass.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// PostResult is the per-post outcome of one worker pass.
type PostResult struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	DryRun bool   `json:"dryRun"`
}

// Notifier receives post status transitions (admin live updates).
type Notifier interface {
	PostStatusChanged(post *model.ScheduledPost, status model.ScheduledPostStatus, errorMessage string)
}

// TokenSource refreshes an account's access token when it is close to
// expiry, persisting the refreshed credentials.
type TokenSource interface {
	Ensure(ctx context.Context, account *model.SocialAccount) error
}

// Config holds the configuration for the delivery worker
type Config struct {
	Store      Store
	Providers  *provider.Registry
	Logger     *logrus.Entry
	Metrics    *metrics.Collector
	Notifier   Notifier
	Tokens     TokenSource
	Interval   time.Duration
	ClaimLease time.Duration
}

// Worker publishes due scheduled posts. One pass runs to completion
// sequentially; a ticker loop re-runs passes at the configured
// interval until stopped.
type Worker struct {
	ctx        context.Context
	cancel     context.CancelFunc
	store      Store
	providers  *provider.Registry
	logger     *logrus.Entry
	metrics    *metrics.Collector
	notifier   Notifier
	tokens     TokenSource
	interval   time.Duration
	claimLease time.Duration
}

// NewWorker creates a delivery worker
func NewWorker(cfg Config) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Worker{
		ctx:        ctx,
		cancel:     cancel,
		store:      cfg.Store,
		providers:  cfg.Providers,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		notifier:   cfg.Notifier,
		tokens:     cfg.Tokens,
		interval:   cfg.Interval,
		claimLease: cfg.ClaimLease,
	}
	if w.logger == nil {
		w.logger = logrus.NewEntry(logrus.StandardLogger())
	}
	w.logger = w.logger.WithField("component", "post-worker")
	if w.interval <= 0 {
		w.interval = time.Minute
	}
	if w.claimLease <= 0 {
		w.claimLease = 5 * time.Minute
	}
	return w
}

// Start begins the periodic delivery loop
func (w *Worker) Start() {
	w.logger.Info("Starting post delivery worker...")
	ticker := time.NewTicker(w.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := w.RunPass(w.ctx, time.Now(), false); err != nil {
					w.logger.Errorf("Worker pass failed: %v", err)
				}
			case <-w.ctx.Done():
				w.logger.Info("Stopping post delivery worker...")
				return
			}
		}
	}()
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	w.cancel()
}

// RunPass processes every due post once, sequentially. In dry-run mode
// results are reported but no row is mutated; the outbound publish
// calls are still made.
func (w *Worker) RunPass(ctx context.Context, now time.Time, dryRun bool) ([]PostResult, error) {
	started := time.Now()

	posts, err := w.store.DuePosts(ctx, now)
	if err != nil {
		w.logger.Errorf("Failed to query due posts: %v", err)
		return nil, err
	}

	if len(posts) == 0 {
		return []PostResult{}, nil
	}

	w.logger.WithFields(logrus.Fields{
		"due":    len(posts),
		"dryRun": dryRun,
	}).Info("Processing due posts")

	results := make([]PostResult, 0, len(posts))
	for i := range posts {
		post := &posts[i]

		// Claim the row first so an overlapping pass skips it. Dry
		// runs are read-only and must not take claims.
		if !dryRun {
			claimed, err := w.store.Claim(ctx, post.ID, now, now.Add(w.claimLease))
			if err != nil {
				w.logger.Errorf("Failed to claim post %s: %v", post.ID, err)
				continue
			}
			if !claimed {
				w.logger.WithField("post", post.ID).Debug("Post already claimed, skipping")
				if w.metrics != nil {
					w.metrics.PostsSkipped.Inc()
				}
				continue
			}
		}

		results = append(results, w.processPost(ctx, post, now, dryRun))
	}

	if w.metrics != nil {
		w.metrics.PassDuration.Observe(time.Since(started).Seconds())
		w.metrics.PassesTotal.Inc()
	}
	return results, nil
}

func (w *Worker) processPost(ctx context.Context, post *model.ScheduledPost, now time.Time, dryRun bool) PostResult {
	if err := w.publish(ctx, post); err != nil {
		w.logger.WithFields(logrus.Fields{
			"post":     post.ID,
			"category": provider.Categorize(err),
		}).Errorf("Publish failed: %v", err)

		if !dryRun {
			if storeErr := w.store.MarkFailed(ctx, post.ID, err.Error(), now); storeErr != nil {
				w.logger.Errorf("Failed to mark post %s failed: %v", post.ID, storeErr)
			}
			w.notify(post, model.ScheduledPostStatusFailed, err.Error())
		}
		w.countPost(post, "failed")
		return PostResult{ID: post.ID, Status: ResultError, Error: err.Error(), DryRun: dryRun}
	}

	if !dryRun {
		if storeErr := w.store.MarkPosted(ctx, post.ID, now); storeErr != nil {
			w.logger.Errorf("Failed to mark post %s posted: %v", post.ID, storeErr)
		}
		w.notify(post, model.ScheduledPostStatusPosted, "")
	}
	w.countPost(post, "posted")
	return PostResult{ID: post.ID, Status: ResultSuccess, DryRun: dryRun}
}

func (w *Worker) publish(ctx context.Context, post *model.ScheduledPost) error {
	account := post.SocialAccount
	if account == nil {
		return errAccountNotFound
	}

	pub, err := w.providers.Get(account.Provider)
	if err != nil {
		return err
	}

	if w.tokens != nil {
		if err := w.tokens.Ensure(ctx, account); err != nil {
			return err
		}
	}

	return pub.Publish(ctx, post.Content, account, post.ImageAssets())
}

func (w *Worker) notify(post *model.ScheduledPost, status model.ScheduledPostStatus, errorMessage string) {
	if w.notifier != nil {
		w.notifier.PostStatusChanged(post, status, errorMessage)
	}
}

func (w *Worker) countPost(post *model.ScheduledPost, outcome string) {
	if w.metrics == nil {
		return
	}
	providerName := "unknown"
	if post.SocialAccount != nil {
		providerName = string(post.SocialAccount.Provider)
	}
	w.metrics.PostsProcessed.WithLabelValues(providerName, outcome).Inc()
}
