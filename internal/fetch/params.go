package fetch

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/redson/jobradar/internal/jobs"
)

// DefaultBaseURL is the upstream guest search endpoint. It returns
// server-rendered listing fragments, no session required.
const DefaultBaseURL = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"

// Recency bounds accepted by the upstream time filter.
const (
	maxHours = 720
	maxDays  = 30
)

// workTypeTokens maps the work-type filter to the upstream f_WT tokens.
// "all" covers on-site, remote, and hybrid.
var workTypeTokens = map[string]string{
	"remote": "2",
	"hybrid": "3",
	"all":    "1,2,3",
}

// buildQueryValues encodes a search query into upstream parameters.
// Recency is a trailing window in seconds prefixed with "r"; hours
// takes precedence over days. A non-positive window is configuration
// misuse and is rejected before any network call.
func buildQueryValues(q jobs.SearchQuery) (url.Values, error) {
	values := url.Values{}
	values.Set("keywords", q.Keyword)
	values.Set("location", q.Location)
	values.Set("start", strconv.Itoa(q.Start))

	switch {
	case q.Hours != 0:
		if q.Hours < 1 || q.Hours > maxHours {
			return nil, fmt.Errorf("hours must be between 1 and %d, got %d", maxHours, q.Hours)
		}
		values.Set("f_TPR", fmt.Sprintf("r%d", q.Hours*3600))
	default:
		if q.Days < 1 || q.Days > maxDays {
			return nil, fmt.Errorf("days must be between 1 and %d, got %d", maxDays, q.Days)
		}
		values.Set("f_TPR", fmt.Sprintf("r%d", q.Days*86400))
	}

	token, ok := workTypeTokens[strings.ToLower(q.WorkType)]
	if !ok {
		token = workTypeTokens["all"]
	}
	values.Set("f_WT", token)

	return values, nil
}

// requestHeaders identify the client as a browser-originated
// asynchronous request; the endpoint rejects bare clients.
func requestHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "application/json, text/javascript, */*; q=0.01")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Referer", "https://www.linkedin.com/jobs")
	h.Set("X-Requested-With", "XMLHttpRequest")
	h.Set("Connection", "keep-alive")
	h.Set("Sec-Fetch-Dest", "empty")
	h.Set("Sec-Fetch-Mode", "cors")
	h.Set("Sec-Fetch-Site", "same-origin")
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
	return h
}

// proxyURL assembles the authenticated proxy address used for both
// HTTP and HTTPS traffic. Credentials are escaped into the userinfo
// part.
func proxyURL(host, username, password string) string {
	return fmt.Sprintf("http://%s:%s@%s",
		url.QueryEscape(username),
		url.QueryEscape(password),
		host,
	)
}
