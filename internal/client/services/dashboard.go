package services

import (
	"context"
	"sort"
	"strings"

	"github.com/dmitrijs2005/postplanner/internal/client/api"
)

// FilterAll disables a status or platform filter.
const FilterAll = "All"

// Stats counts posts by status.
type Stats struct {
	Total     int
	Scheduled int
	Drafts    int
	Published int
}

// Filter narrows a post list. Empty values and FilterAll match everything.
type Filter struct {
	Status   string
	Platform string
}

// DashboardService loads the user's posts and derives the dashboard views.
type DashboardService interface {
	Posts(ctx context.Context, s *api.Session, f Filter) ([]api.Post, error)
	Stats(ctx context.Context, s *api.Session) (Stats, []string, error)
	Get(ctx context.Context, s *api.Session, id string) (*api.Post, error)
	Create(ctx context.Context, s *api.Session, in api.PostInput) (*api.Post, error)
	Update(ctx context.Context, s *api.Session, id string, in api.PostInput) (*api.Post, error)
	Delete(ctx context.Context, s *api.Session, id string) (string, error)
}

type dashboardService struct {
	client Client
}

func NewDashboardService(c Client) DashboardService {
	return &dashboardService{client: c}
}

// Posts returns the filtered posts in server order.
func (d *dashboardService) Posts(ctx context.Context, s *api.Session, f Filter) ([]api.Post, error) {
	posts, err := d.client.ListPosts(ctx, s)
	if err != nil {
		return nil, err
	}
	return FilterPosts(posts, f), nil
}

// Stats returns the counters and the distinct platforms over all posts.
func (d *dashboardService) Stats(ctx context.Context, s *api.Session) (Stats, []string, error) {
	posts, err := d.client.ListPosts(ctx, s)
	if err != nil {
		return Stats{}, nil, err
	}
	return ComputeStats(posts), Platforms(posts), nil
}

func (d *dashboardService) Get(ctx context.Context, s *api.Session, id string) (*api.Post, error) {
	return d.client.GetPost(ctx, s, id)
}

func (d *dashboardService) Create(ctx context.Context, s *api.Session, in api.PostInput) (*api.Post, error) {
	return d.client.CreatePost(ctx, s, in)
}

func (d *dashboardService) Update(ctx context.Context, s *api.Session, id string, in api.PostInput) (*api.Post, error) {
	return d.client.UpdatePost(ctx, s, id, in)
}

func (d *dashboardService) Delete(ctx context.Context, s *api.Session, id string) (string, error) {
	return d.client.DeletePost(ctx, s, id)
}

func ComputeStats(posts []api.Post) Stats {
	st := Stats{Total: len(posts)}
	for _, p := range posts {
		switch p.Status {
		case api.StatusScheduled:
			st.Scheduled++
		case api.StatusPublished:
			st.Published++
		default:
			st.Drafts++
		}
	}
	return st
}

// FilterPosts keeps posts matching both criteria. Matching is case-insensitive.
func FilterPosts(posts []api.Post, f Filter) []api.Post {
	out := make([]api.Post, 0, len(posts))
	for _, p := range posts {
		if matches(f.Status, p.Status) && matches(f.Platform, p.Platform) {
			out = append(out, p)
		}
	}
	return out
}

func matches(want, got string) bool {
	if want == "" || strings.EqualFold(want, FilterAll) {
		return true
	}
	return strings.EqualFold(want, got)
}

// Platforms returns the sorted distinct non-empty platforms.
func Platforms(posts []api.Post) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range posts {
		if p.Platform == "" {
			continue
		}
		if _, ok := seen[p.Platform]; ok {
			continue
		}
		seen[p.Platform] = struct{}{}
		out = append(out, p.Platform)
	}
	sort.Strings(out)
	return out
}
