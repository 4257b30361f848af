package cli

import (
	"context"
	"fmt"
	"time"
)

func (a *App) Attach(ctx context.Context, id, path string) error {
	key, err := a.media.Attach(ctx, a.session, id, path)
	if err != nil {
		return a.checkSession(err)
	}
	fmt.Fprintf(a.out, "Uploaded %s as %s\n", path, key)
	return nil
}

func (a *App) Media(ctx context.Context, id, key string) error {
	u, err := a.media.DownloadURL(ctx, a.session, id, key)
	if err != nil {
		return a.checkSession(err)
	}
	fmt.Fprintf(a.out, "%s\n(valid until %s)\n", u.URL, u.ExpiresAt.In(time.Local).Format(displayTimeLayout))
	return nil
}
