// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package politeness

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/temoto/robotstxt"

	"github.com/HamBa-m/sci-scraper/internal/logging"
)

// Robots answers whether a URL may be crawled according to its host's
// robots.txt. Each host's file is fetched once per Robots value. Fetch and
// parse failures allow the request.
type Robots struct {
	client *http.Client
	agent  string
	log    logrus.FieldLogger

	mu     sync.Mutex
	groups map[string]*robotstxt.Group
}

// NewRobots returns a Robots that evaluates rules for agent.
func NewRobots(client *http.Client, agent string, log logrus.FieldLogger) *Robots {
	if client == nil {
		client = http.DefaultClient
	}
	return &Robots{
		client: client,
		agent:  agent,
		log:    logging.OrDiscard(log),
		groups: make(map[string]*robotstxt.Group),
	}
}

// Allowed reports whether rawURL may be fetched.
func (r *Robots) Allowed(ctx context.Context, rawURL string) bool {
	if r == nil {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return true
	}

	group := r.group(ctx, u)
	if group == nil {
		return true
	}
	path := u.EscapedPath()
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return group.Test(path)
}

func (r *Robots) group(ctx context.Context, u *url.URL) *robotstxt.Group {
	key := u.Scheme + "://" + u.Host

	r.mu.Lock()
	defer r.mu.Unlock()
	if g, ok := r.groups[key]; ok {
		return g
	}

	g := r.fetch(ctx, key+"/robots.txt")
	r.groups[key] = g
	return g
}

func (r *Robots) fetch(ctx context.Context, robotsURL string) *robotstxt.Group {
	log := r.log.WithField("url", robotsURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", r.agent)

	resp, err := r.client.Do(req)
	if err != nil {
		log.WithError(err).Debug("robots.txt unavailable")
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		log.WithError(err).Debug("robots.txt unparseable")
		return nil
	}
	return data.FindGroup(r.agent)
}
