package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/postplanner/internal/client/api"
	"github.com/dmitrijs2005/postplanner/internal/client/services"
)

const (
	displayTimeLayout = "2006-01-02 15:04"
	maxTitleWidth     = 40
)

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(time.Local).Format(displayTimeLayout)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func renderPosts(w io.Writer, posts []api.Post) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tPLATFORM\tSTATUS\tSCHEDULED")
	for _, p := range posts {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.ID, truncate(p.Title, maxTitleWidth), orDash(p.Platform), p.Status, orDash(formatTime(p.ScheduledAt)))
	}
	return tw.Flush()
}

func renderStats(w io.Writer, st services.Stats, platforms []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Total\t%d\n", st.Total)
	fmt.Fprintf(tw, "Scheduled\t%d\n", st.Scheduled)
	fmt.Fprintf(tw, "Drafts\t%d\n", st.Drafts)
	fmt.Fprintf(tw, "Published\t%d\n", st.Published)
	fmt.Fprintf(tw, "Platforms\t%s\n", orDash(strings.Join(platforms, ", ")))
	return tw.Flush()
}

func renderPost(w io.Writer, p *api.Post) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", p.ID)
	fmt.Fprintf(tw, "Title\t%s\n", p.Title)
	fmt.Fprintf(tw, "Platform\t%s\n", orDash(p.Platform))
	fmt.Fprintf(tw, "Status\t%s\n", p.Status)
	fmt.Fprintf(tw, "Scheduled\t%s\n", orDash(formatTime(p.ScheduledAt)))
	fmt.Fprintf(tw, "Created\t%s\n", formatTime(&p.CreatedAt))
	fmt.Fprintf(tw, "Updated\t%s\n", formatTime(&p.UpdatedAt))

	keys := make([]string, 0, len(p.Meta))
	for k := range p.Meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(tw, "meta.%s\t%v\n", k, p.Meta[k])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if p.Content != "" {
		fmt.Fprintf(w, "\n%s\n", p.Content)
	}
	return nil
}
