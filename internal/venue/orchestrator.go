// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package venue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/HamBa-m/sci-scraper/internal/httputil"
	"github.com/HamBa-m/sci-scraper/internal/logging"
	"github.com/HamBa-m/sci-scraper/internal/merge"
	"github.com/HamBa-m/sci-scraper/internal/politeness"
	"github.com/HamBa-m/sci-scraper/internal/relevance"
	"github.com/HamBa-m/sci-scraper/pkg/types"
)

// DefaultRequestDelay is the pause after each paper request within one job.
const DefaultRequestDelay = 300 * time.Millisecond

// DefaultHostInterval spaces requests to one host across concurrent jobs.
const DefaultHostInterval = 100 * time.Millisecond

// cooldownFactor scales the request delay into the pause a job takes after
// finishing its year.
const cooldownFactor = 10

// robotsAgent is the agent name matched against robots.txt groups when no
// fixed User-Agent is configured.
const robotsAgent = "sci-scraper"

// ErrDisallowed is returned for an index page excluded by robots.txt.
var ErrDisallowed = errors.New("disallowed by robots.txt")

// Job is one (venue, year) unit of work.
type Job struct {
	Venue types.VenueConfig
	Year  int
}

func (j Job) String() string {
	return fmt.Sprintf("%s %d", j.Venue.Display(), j.Year)
}

// JobError records a failed job.
type JobError struct {
	Venue string
	Year  int
	Err   error
}

func (e JobError) Error() string {
	return fmt.Sprintf("%s %d: %v", e.Venue, e.Year, e.Err)
}

func (e JobError) Unwrap() error { return e.Err }

// Output holds the relevant records of a venue crawl together with the
// jobs that failed or were skipped.
type Output struct {
	Records     []types.PaperRecord
	DupsRemoved int
	JobErrors   []JobError

	// Skipped lists jobs dropped for configuration reasons: a year
	// without a volume, an unknown layout, or a robots.txt exclusion.
	Skipped []Job
}

// ScraperFactory builds the scraper of a venue for one job.
type ScraperFactory func(cfg types.VenueConfig, s *Session) (Scraper, error)

// Orchestrator runs venue jobs on a bounded worker pool. Each job gets its
// own HTTP client and User-Agent rotator; the only state jobs share is the
// per-host request rate of one Run. The zero value runs with
// runtime.NumCPU() workers, no delays and a policy that keeps every paper.
type Orchestrator struct {
	// NewClient returns the HTTP client of one job. Nil uses
	// httputil.NewClient with the default timeout.
	NewClient func() (*http.Client, error)

	Policy  relevance.Policy
	Workers int

	// Delay is slept after every paper request within a job. Cooldown is
	// slept once a job has processed all of its papers.
	Delay    time.Duration
	Cooldown time.Duration

	// HostInterval caps the combined request rate of all jobs to one host.
	// Zero disables the cap.
	HostInterval time.Duration

	// UserAgent disables rotation when set.
	UserAgent     string
	RespectRobots bool

	Log     logrus.FieldLogger
	Factory ScraperFactory

	// OnJob, when set, is called from the goroutine running Run after each
	// job finishes, in completion order.
	OnJob func(job Job, records []types.PaperRecord, err error)
}

// NewOrchestrator returns an orchestrator configured from cfg. A zero
// RequestDelay selects DefaultRequestDelay.
func NewOrchestrator(cfg types.VenueCrawlConfig, policy relevance.Policy, log logrus.FieldLogger) *Orchestrator {
	delay := cfg.RequestDelay
	if delay <= 0 {
		delay = DefaultRequestDelay
	}
	hostInterval := cfg.HostInterval
	if hostInterval <= 0 {
		hostInterval = DefaultHostInterval
	}
	return &Orchestrator{
		NewClient: func() (*http.Client, error) {
			return httputil.NewClient(cfg.Timeout, cfg.Proxy)
		},
		Policy:        policy,
		Workers:       cfg.Workers,
		Delay:         delay,
		Cooldown:      delay * cooldownFactor,
		HostInterval:  hostInterval,
		UserAgent:     cfg.UserAgent,
		RespectRobots: cfg.RespectRobots,
		Log:           log,
	}
}

// Jobs returns one job per venue and year in [start, end], venue-major.
func Jobs(venues []types.VenueConfig, start, end int) []Job {
	var jobs []Job
	for _, v := range venues {
		for y := start; y <= end; y++ {
			jobs = append(jobs, Job{Venue: v, Year: y})
		}
	}
	return jobs
}

type jobResult struct {
	job     Job
	records []types.PaperRecord
	err     error
}

// Run crawls every venue for every year in [start, end]. Results are
// collected as jobs complete. A failing job is recorded in JobErrors and
// never stops its siblings; records it produced before failing are kept.
// The combined records are deduplicated on title, year and source.
func (o *Orchestrator) Run(ctx context.Context, venues []types.VenueConfig, start, end int) Output {
	log := logging.OrDiscard(o.Log)
	jobs := Jobs(venues, start, end)
	if len(jobs) == 0 {
		return Output{}
	}

	workers := o.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	log.WithFields(logrus.Fields{"jobs": len(jobs), "workers": workers}).Info("starting venue crawl")

	hosts := politeness.NewHostLimits(o.HostInterval)
	sem := semaphore.NewWeighted(int64(workers))
	results := make(chan jobResult, len(jobs))
	go func() {
		for _, j := range jobs {
			if err := sem.Acquire(ctx, 1); err != nil {
				results <- jobResult{job: j, err: err}
				continue
			}
			go func(j Job) {
				defer sem.Release(1)
				results <- o.runJob(ctx, j, hosts)
			}(j)
		}
	}()

	var out Output
	var all []types.PaperRecord
	for range jobs {
		r := <-results
		jlog := log.WithFields(logrus.Fields{"venue": r.job.Venue.Display(), "year": r.job.Year})
		all = append(all, r.records...)

		switch {
		case r.err == nil:
			jlog.WithField("papers", len(r.records)).Info("job finished")
		case isConfigError(r.err):
			jlog.WithError(r.err).Warn("skipping job")
			out.Skipped = append(out.Skipped, r.job)
		default:
			jlog.WithError(r.err).Error("job failed")
			out.JobErrors = append(out.JobErrors, JobError{Venue: r.job.Venue.Display(), Year: r.job.Year, Err: r.err})
		}
		if o.OnJob != nil {
			o.OnJob(r.job, r.records, r.err)
		}
	}

	out.Records, out.DupsRemoved = merge.Dedup(all, merge.TitleYearSourceKey)
	log.WithFields(logrus.Fields{
		"papers":  len(out.Records),
		"dups":    out.DupsRemoved,
		"failed":  len(out.JobErrors),
		"skipped": len(out.Skipped),
	}).Info("venue crawl finished")
	return out
}

func isConfigError(err error) bool {
	return errors.Is(err, ErrNoVolume) || errors.Is(err, ErrUnknownLayout) || errors.Is(err, ErrDisallowed)
}

func (o *Orchestrator) runJob(ctx context.Context, j Job, hosts *politeness.HostLimits) (res jobResult) {
	res.job = j
	defer func() {
		if p := recover(); p != nil {
			res.err = fmt.Errorf("panic: %v", p)
		}
	}()
	res.records, res.err = o.crawl(ctx, j, hosts)
	return res
}

// crawl processes the papers of one job sequentially.
func (o *Orchestrator) crawl(ctx context.Context, j Job, hosts *politeness.HostLimits) ([]types.PaperRecord, error) {
	log := logging.OrDiscard(o.Log).WithFields(logrus.Fields{"venue": j.Venue.Display(), "year": j.Year})

	indexURL, err := ResolveProceedingsURL(j.Venue, j.Year)
	if err != nil {
		return nil, err
	}

	client, err := o.client()
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}
	sess := &Session{Client: hosts.Client(client), Agents: httputil.NewRotator(o.UserAgent), Log: log}

	factory := o.Factory
	if factory == nil {
		factory = NewScraper
	}
	scraper, err := factory(j.Venue, sess)
	if err != nil {
		return nil, err
	}

	refs, err := o.index(ctx, scraper, sess, indexURL, j.Year)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"index": indexURL, "refs": len(refs)}).Info("index parsed")

	policy := o.Policy
	if policy == nil {
		policy = relevance.AcceptAll
	}
	delay := politeness.NewDelay(o.Delay)

	var kept []types.PaperRecord
	for _, ref := range refs {
		rec, err := scraper.ExtractPaperDetails(ctx, ref, j.Year)
		switch {
		case err != nil && (errors.Is(err, httputil.ErrRateLimited) || ctx.Err() != nil):
			return kept, fmt.Errorf("paper %s: %w", ref.URL, err)
		case err != nil:
			log.WithError(err).WithField("url", ref.URL).Warn("skipping paper")
		case rec == nil:
		case !policy.Relevant(rec.Title, rec.AbstractText()):
			log.WithField("title", rec.Title).Debug("not relevant")
		default:
			kept = append(kept, merge.Normalize(*rec))
		}

		if err := delay.Wait(ctx); err != nil {
			return kept, err
		}
	}

	if err := politeness.Sleep(ctx, o.Cooldown); err != nil {
		return kept, err
	}
	return kept, nil
}

// index lists the papers of a job, through the scraper's API when it has
// one and from the HTML index page otherwise.
func (o *Orchestrator) index(ctx context.Context, scraper Scraper, sess *Session, indexURL string, year int) ([]PaperRef, error) {
	if f, ok := scraper.(IndexFetcher); ok {
		return f.FetchIndex(ctx, indexURL, year)
	}

	if o.RespectRobots {
		agent := o.UserAgent
		if agent == "" {
			agent = robotsAgent
		}
		if !politeness.NewRobots(sess.Client, agent, sess.Log).Allowed(ctx, indexURL) {
			return nil, fmt.Errorf("%s: %w", indexURL, ErrDisallowed)
		}
	}

	doc, err := sess.Document(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("fetching index: %w", err)
	}
	return scraper.ExtractPaperLinks(ctx, doc, indexURL)
}

func (o *Orchestrator) client() (*http.Client, error) {
	if o.NewClient != nil {
		return o.NewClient()
	}
	return httputil.NewClient(httputil.DefaultTimeout, "")
}
