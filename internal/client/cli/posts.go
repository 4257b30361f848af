package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/postplanner/internal/client/api"
	"github.com/dmitrijs2005/postplanner/internal/client/services"
)

// scheduleLayouts are tried in order; layouts without a zone use local time.
var scheduleLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

const clearValue = "-"

// checkSession forgets a session the server no longer accepts.
func (a *App) checkSession(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		a.session = nil
		return fmt.Errorf("%w, please login again", err)
	}
	return err
}

func (a *App) List(ctx context.Context, args []string) error {
	var f services.Filter
	if len(args) > 0 {
		f.Status = args[0]
	}
	if len(args) > 1 {
		f.Platform = strings.Join(args[1:], " ")
	}
	if f.Status != "" && !strings.EqualFold(f.Status, services.FilterAll) {
		if _, err := parseStatus(f.Status); err != nil {
			return err
		}
	}

	posts, err := a.dashboard.Posts(ctx, a.session, f)
	if err != nil {
		return a.checkSession(err)
	}

	if len(posts) == 0 {
		fmt.Fprintln(a.out, "No posts found")
		return nil
	}
	return renderPosts(a.out, posts)
}

func (a *App) Stats(ctx context.Context) error {
	st, platforms, err := a.dashboard.Stats(ctx, a.session)
	if err != nil {
		return a.checkSession(err)
	}
	return renderStats(a.out, st, platforms)
}

func (a *App) Show(ctx context.Context, id string) error {
	p, err := a.dashboard.Get(ctx, a.session, id)
	if err != nil {
		return a.checkSession(err)
	}
	return renderPost(a.out, p)
}

func (a *App) Add(ctx context.Context) error {
	in, err := a.promptPost(nil)
	if err != nil {
		return err
	}

	p, err := a.dashboard.Create(ctx, a.session, in)
	if err != nil {
		return a.checkSession(err)
	}
	fmt.Fprintf(a.out, "Post created: %s\n", p.ID)
	return nil
}

func (a *App) Edit(ctx context.Context, id string) error {
	current, err := a.dashboard.Get(ctx, a.session, id)
	if err != nil {
		return a.checkSession(err)
	}

	in, err := a.promptPost(current)
	if err != nil {
		return err
	}

	p, err := a.dashboard.Update(ctx, a.session, id, in)
	if err != nil {
		return a.checkSession(err)
	}
	fmt.Fprintf(a.out, "Post updated: %s\n", p.ID)
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	p, err := a.dashboard.Get(ctx, a.session, id)
	if err != nil {
		return a.checkSession(err)
	}

	answer, err := getSimpleText(a.reader, fmt.Sprintf("Delete %q? (y/N)", p.Title), a.out)
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	msg, err := a.dashboard.Delete(ctx, a.session, id)
	if err != nil {
		return a.checkSession(err)
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

// promptPost asks for every post field. With current set, an empty answer
// keeps the current value and "-" clears optional fields.
// Entered metadata is merged into the current map.
func (a *App) promptPost(current *api.Post) (api.PostInput, error) {
	var in api.PostInput
	if current != nil {
		in = api.PostInput{
			Title:       current.Title,
			Content:     current.Content,
			Platform:    current.Platform,
			ScheduledAt: current.ScheduledAt,
			Status:      current.Status,
			Meta:        current.Meta,
		}
	}

	title, err := getSimpleText(a.reader, withCurrent("Title", in.Title), a.out)
	if err != nil {
		return in, err
	}
	if title != "" {
		in.Title = title
	}
	if in.Title == "" {
		return in, fmt.Errorf("%w: title is required", api.ErrValidation)
	}

	content, err := GetMultiline(a.reader, withCurrent("Content", in.Content), a.out)
	if err != nil {
		return in, err
	}
	in.Content = applyText(in.Content, content)

	platform, err := getSimpleText(a.reader, withCurrent("Platform", in.Platform), a.out)
	if err != nil {
		return in, err
	}
	in.Platform = applyText(in.Platform, platform)

	schedule, err := getSimpleText(a.reader, withCurrent("Scheduled at (YYYY-MM-DD HH:MM)", formatTime(in.ScheduledAt)), a.out)
	if err != nil {
		return in, err
	}
	switch schedule {
	case "":
	case clearValue:
		in.ScheduledAt = nil
	default:
		t, err := parseSchedule(schedule)
		if err != nil {
			return in, err
		}
		in.ScheduledAt = &t
	}

	status, err := getSimpleText(a.reader, withCurrent("Status (Draft, Scheduled, Published)", in.Status), a.out)
	if err != nil {
		return in, err
	}
	if status != "" {
		s, err := parseStatus(status)
		if err != nil {
			return in, err
		}
		in.Status = s
	}

	meta, err := GetMetadata(a.reader, a.out)
	if err != nil {
		return in, err
	}
	in.Meta = mergeMeta(in.Meta, meta)

	return in, nil
}

// mergeMeta overlays entered pairs on current. A "-" value removes the key.
// Removing every key yields an empty, non-nil map so the edit is sent.
func mergeMeta(current, entered map[string]any) map[string]any {
	if entered == nil {
		return current
	}
	out := make(map[string]any, len(current)+len(entered))
	for k, v := range current {
		out[k] = v
	}
	for k, v := range entered {
		if v == clearValue {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

func withCurrent(prompt, current string) string {
	if current == "" {
		return prompt
	}
	return fmt.Sprintf("%s [%s]", prompt, current)
}

func applyText(current, answer string) string {
	switch answer {
	case "":
		return current
	case clearValue:
		return ""
	default:
		return answer
	}
}

func parseSchedule(raw string) (time.Time, error) {
	for _, layout := range scheduleLayouts {
		if t, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: cannot parse date %q", api.ErrValidation, raw)
}

// parseStatus accepts any casing and returns the canonical status name.
func parseStatus(raw string) (string, error) {
	for _, s := range api.Statuses {
		if strings.EqualFold(s, raw) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", api.ErrValidation, raw)
}
