package client

import (
	"context"
	"net/url"
	"strconv"
)

// samplePager walks a project's paginated sample listing one page at a time.
// Pages are 1-based; the listing is exhausted when the service returns an
// empty or short page.
type samplePager struct {
	client    *Client
	projectID string
	pageSize  int
	page      int
	done      bool
}

// samplePages returns a fresh pager positioned before the first page.
func (c *Client) samplePages(projectID string) *samplePager {
	return &samplePager{
		client:    c,
		projectID: projectID,
		pageSize:  c.Environment.SamplePageSize,
		page:      0,
	}
}

// Next fetches the following page.  It returns nil once the listing is
// exhausted.  A page that cannot be fetched after the bounded attempts
// surfaces as a RetrievalError.
func (p *samplePager) Next(ctx context.Context) ([]Sample, error) {
	if p.done {
		return nil, nil
	}
	p.page++

	query := url.Values{}
	query.Set("page", strconv.Itoa(p.page))
	query.Set("count", strconv.Itoa(p.pageSize))

	p.client.Logger.Debugf("Fetching project samples page=%d count=%d", p.page, p.pageSize)

	var page samplesPage
	if err := p.client.getJSON(ctx, "/projects/"+p.projectID+"/samples", query, &page); err != nil {
		p.done = true
		return nil, &RetrievalError{Page: p.page, Err: err}
	}

	if len(page.Samples) < p.pageSize {
		p.done = true
	}
	return page.Samples, nil
}

// ProjectSamples retrieves the complete sample listing for a project,
// preserving the service's ordering.  The operation is all-or-nothing: a page
// failure discards everything collected so far.
func (c *Client) ProjectSamples(ctx context.Context, projectID string) ([]Sample, error) {
	pager := c.samplePages(projectID)
	var collected []Sample
	for {
		page, err := pager.Next(ctx)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		collected = append(collected, page...)
	}
	c.Logger.Infof("Fetched %d samples from project %s", len(collected), projectID)
	return collected, nil
}
