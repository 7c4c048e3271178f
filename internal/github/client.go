// Package github fetches contribution calendars over the GitHub
// GraphQL API and normalizes them into simulation grids.
package github

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/vovakirdan/gh-space-shooter/internal/game"
)

// APIError wraps a failed GitHub API call for a specific login.
type APIError struct {
	Login string
	Err   error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: fetching contributions for %q: %v", e.Login, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Client queries the GitHub GraphQL API.
type Client struct {
	gql *githubv4.Client
}

// NewClient creates a client authenticated with a personal access
// token. The token needs no scopes beyond public data access.
func NewClient(token string) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(context.Background(), src)
	return &Client{gql: githubv4.NewClient(httpClient)}
}

// contributionQuery mirrors the contribution calendar shape of the
// GraphQL schema. GitHub returns up to 53 partial weeks, most recent
// last, with days ordered Sunday through Saturday.
type contributionQuery struct {
	User struct {
		ContributionsCollection struct {
			ContributionCalendar struct {
				TotalContributions githubv4.Int
				Weeks              []struct {
					ContributionDays []struct {
						ContributionCount githubv4.Int
					}
				}
			}
		}
	} `graphql:"user(login: $login)"`
}

// ContributionGrid fetches the contribution calendar for a login and
// normalizes it to the fixed 52x7 grid the simulation consumes.
func (c *Client) ContributionGrid(ctx context.Context, login string) (*game.Grid, error) {
	var q contributionQuery
	vars := map[string]interface{}{
		"login": githubv4.String(login),
	}
	if err := c.gql.Query(ctx, &q, vars); err != nil {
		return nil, &APIError{Login: login, Err: err}
	}

	weeks := q.User.ContributionsCollection.ContributionCalendar.Weeks
	raw := make([][]int, len(weeks))
	for i, w := range weeks {
		days := make([]int, len(w.ContributionDays))
		for j, d := range w.ContributionDays {
			days[j] = int(d.ContributionCount)
		}
		raw[i] = days
	}

	grid, err := gridFromWeeks(raw)
	if err != nil {
		return nil, &APIError{Login: login, Err: err}
	}
	return grid, nil
}

// gridFromWeeks normalizes raw per-week day counts to exactly
// game.NumWeeks columns: the most recent 52 weeks are kept, missing
// leading weeks and short weeks are zero-filled.
func gridFromWeeks(weeks [][]int) (*game.Grid, error) {
	if len(weeks) > game.NumWeeks {
		weeks = weeks[len(weeks)-game.NumWeeks:]
	}
	offset := game.NumWeeks - len(weeks)

	var counts [game.NumWeeks][game.NumDays]int
	for i, days := range weeks {
		if len(days) > game.NumDays {
			return nil, fmt.Errorf("week %d has %d days", i, len(days))
		}
		for j, n := range days {
			counts[offset+i][j] = n
		}
	}
	return game.NewGrid(counts)
}
