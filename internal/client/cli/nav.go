package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
)

var errUsage = errors.New("usage")

func usage(text string) error {
	return fmt.Errorf("%w: %s", errUsage, text)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// Routes lists the route table and whether each route is open right now.
func (a *App) Routes(ctx context.Context, _ []string) error {
	for _, r := range a.guard.Table().Routes() {
		mark := " "
		if a.guard.Check(ctx, r).Allowed() {
			mark = "*"
		}
		fmt.Fprintf(a.out, "%s %-16s %s\n", mark, r.Name, r.Path)
	}
	return nil
}

// Go navigates to a path, subject to the guard.
func (a *App) Go(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("go <path>")
	}
	if a.enter(ctx, args[0]) {
		fmt.Fprintf(a.out, "at %s\n", args[0])
	}
	return nil
}
