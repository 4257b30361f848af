package cli

import (
	"context"
	"fmt"
)

func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	s, err := a.auth.Register(ctx, name, email, password)
	if err != nil {
		return err
	}

	a.session = s
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", s.User.Email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	s, err := a.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.session = s
	fmt.Fprintf(a.out, "Welcome, %s\n", s.User.Name)
	return nil
}

// Logout drops the session. Tokens are stateless, so the server is not called.
func (a *App) Logout(ctx context.Context) error {
	a.session = nil
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) Me(ctx context.Context) error {
	u, err := a.auth.Me(ctx, a.session)
	if err != nil {
		return a.checkSession(err)
	}
	fmt.Fprintf(a.out, "%s <%s> id=%s\n", u.Name, u.Email, u.ID)
	return nil
}
