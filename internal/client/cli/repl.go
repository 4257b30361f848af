package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	helpLoggedOut = "Available commands: register, login, help, exit"
	helpLoggedIn  = "Available commands: list [status] [platform], stats, add, edit <id>, show <id>, delete <id>, attach <id> <file>, media <id> <key>, me, logout, help, exit"
)

// execIface is the command surface the REPL dispatches to.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Stats(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Show(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	Attach(ctx context.Context, id, path string) error
	Media(ctx context.Context, id, key string) error
}

// runREPL reads commands line by line and dispatches them to a. Handler
// errors are printed and the loop continues. It returns on EOF, on "exit"
// or "quit", or when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}

		fmt.Fprintf(w, "pp %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(w)
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		if cmd == "exit" || cmd == "quit" {
			fmt.Fprintln(w, "Bye!")
			return
		}

		if err := dispatch(ctx, a, cmd, args, w); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
	}
}

var errLoginRequired = errors.New("please login first")

func dispatch(ctx context.Context, a execIface, cmd string, args []string, w io.Writer) error {
	switch cmd {
	case "help":
		if a.isLoggedIn() {
			fmt.Fprintln(w, helpLoggedIn)
		} else {
			fmt.Fprintln(w, helpLoggedOut)
		}
		return nil
	case "register":
		return a.Register(ctx)
	case "login":
		return a.Login(ctx)
	}

	known := map[string]bool{
		"logout": true, "me": true, "list": true, "l": true, "stats": true,
		"add": true, "edit": true, "show": true, "delete": true,
		"attach": true, "media": true,
	}
	if !known[cmd] {
		fmt.Fprintln(w, "Unknown command:", cmd)
		return nil
	}
	if !a.isLoggedIn() {
		return errLoginRequired
	}

	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "me":
		return a.Me(ctx)
	case "list", "l":
		return a.List(ctx, args)
	case "stats":
		return a.Stats(ctx)
	case "add":
		return a.Add(ctx)
	case "attach":
		if len(args) < 2 {
			fmt.Fprintln(w, "Usage: attach <id> <file>")
			return nil
		}
		return a.Attach(ctx, args[0], strings.Join(args[1:], " "))
	case "media":
		if len(args) < 2 {
			fmt.Fprintln(w, "Usage: media <id> <key>")
			return nil
		}
		return a.Media(ctx, args[0], args[1])
	}

	if len(args) == 0 {
		fmt.Fprintf(w, "Usage: %s <id>\n", cmd)
		return nil
	}
	id := args[0]

	switch cmd {
	case "edit":
		return a.Edit(ctx, id)
	case "show":
		return a.Show(ctx, id)
	default:
		return a.Delete(ctx, id)
	}
}
