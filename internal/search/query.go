package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a message search.
type SearchParams struct {
	Query    string // Free text matched against message bodies and author names
	TagID    string // Exact tag filter (empty = all)
	ThreadID string // Restrict to one thread (empty = all threads)

	ExcludeMerged bool // Hide messages already folded into another one

	Limit  int
	Offset int
}

// DefaultSearchParams returns sensible defaults for the triage screen.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:         50,
		Offset:        0,
		ExcludeMerged: true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit represents a single matching message.
type SearchHit struct {
	ID          string            `json:"id"`
	ThreadID    string            `json:"thread_id"`
	Score       float64           `json:"score"`
	Text        string            `json:"text"`
	DisplayName string            `json:"display_name,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Timestamp   int64             `json:"timestamp,omitempty"`
	Highlights  map[string]string `json:"highlights,omitempty"`
}

// Search executes a search query.
func (s *MessageIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = 50
	}

	searchQuery := buildSearchQuery(params)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	// Newest first when there is no text to rank by.
	if params.Query == "" {
		searchRequest.SortBy([]string{"-timestamp"})
	}

	searchRequest.Highlight = bleve.NewHighlight()
	searchRequest.Highlight.AddField("text")

	searchRequest.Fields = []string{"id", "thread_id", "text", "display_name", "tags", "timestamp"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if t, ok := hit.Fields["thread_id"].(string); ok {
			searchHit.ThreadID = t
		}
		if t, ok := hit.Fields["text"].(string); ok {
			searchHit.Text = t
		}
		if n, ok := hit.Fields["display_name"].(string); ok {
			searchHit.DisplayName = n
		}
		if ts, ok := hit.Fields["timestamp"].(float64); ok {
			searchHit.Timestamp = int64(ts)
		}
		// Bleve stores single-element arrays as scalars.
		switch tags := hit.Fields["tags"].(type) {
		case string:
			searchHit.Tags = []string{tags}
		case []interface{}:
			for _, t := range tags {
				if tag, ok := t.(string); ok {
					searchHit.Tags = append(searchHit.Tags, tag)
				}
			}
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if params.Query != "" {
		textQueries := []query.Query{}

		// Body match with highest boost
		textMatch := bleve.NewMatchQuery(params.Query)
		textMatch.SetField("text")
		textMatch.SetBoost(3.0)
		textQueries = append(textQueries, textMatch)

		// Author display name
		nameMatch := bleve.NewMatchQuery(params.Query)
		nameMatch.SetField("display_name")
		nameMatch.SetBoost(1.5)
		textQueries = append(textQueries, nameMatch)

		// Prefix query so partial words match as the admin types
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("text")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.TagID != "" {
		tq := bleve.NewTermQuery(params.TagID)
		tq.SetField("tags")
		queries = append(queries, tq)
	}

	if params.ThreadID != "" {
		tq := bleve.NewTermQuery(params.ThreadID)
		tq.SetField("thread_id")
		queries = append(queries, tq)
	}

	if params.ExcludeMerged {
		bq := bleve.NewBoolFieldQuery(false)
		bq.SetField("is_merged")
		queries = append(queries, bq)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	return bleve.NewConjunctionQuery(queries...)
}
