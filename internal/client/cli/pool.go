package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/qacurator/internal/client/models"
	"github.com/dmitrijs2005/qacurator/internal/client/services"
	"github.com/dmitrijs2005/qacurator/internal/client/workingset"
)

const poolUsage = "pool fetch [skip] [limit] | list | select <kind> <id> | delete <kind> <id> | " +
	"delete-selected | undo | trash | restore <n>|all | purge <n> | clear"

var errOffline = errors.New("the server is unreachable, try again when online")

// poolOps are the pool mutations whose backing depends on connectivity.
// workingset.Synced is used online, localPool offline.
type poolOps interface {
	Delete(ctx context.Context, kind models.ItemKind, id int64) error
	DeleteSelected(ctx context.Context) (int, error)
	Restore(ctx context.Context, e workingset.Entry) error
	UndoLast(ctx context.Context) (workingset.Entry, error)
	RestoreAll(ctx context.Context) (int, error)
}

// localPool applies mutations to the working set only.
type localPool struct {
	p *workingset.Pool
}

func (l localPool) Delete(ctx context.Context, kind models.ItemKind, id int64) error {
	l.p.Delete(ctx, kind, id)
	return nil
}

func (l localPool) DeleteSelected(ctx context.Context) (int, error) {
	return l.p.DeleteSelected(ctx), nil
}

func (l localPool) Restore(ctx context.Context, e workingset.Entry) error {
	if !l.p.Restore(ctx, e) {
		return workingset.ErrNoParent
	}
	return nil
}

func (l localPool) UndoLast(ctx context.Context) (workingset.Entry, error) {
	if len(l.p.RecentlyDeleted()) == 0 {
		return workingset.Entry{}, workingset.ErrNothingToUndo
	}
	e, ok := l.p.UndoLast(ctx)
	if !ok {
		return e, workingset.ErrNoParent
	}
	return e, nil
}

func (l localPool) RestoreAll(ctx context.Context) (int, error) {
	return l.p.RestoreAll(ctx), nil
}

func (a *App) ops() poolOps {
	if a.online() {
		return a.synced
	}
	return localPool{p: a.pool}
}

// Pool runs a working-set subcommand. Mutations go through the server while
// online and stay local while offline.
func (a *App) Pool(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usage(poolUsage)
	}
	if !a.enter(ctx, "/admin/raw-questions") {
		return nil
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "fetch":
		return a.poolFetch(ctx, rest)
	case "list":
		a.printPool()
		return nil
	case "select":
		kind, id, err := parseItem(rest)
		if err != nil {
			return err
		}
		if !a.pool.ToggleSelection(kind, id) {
			return fmt.Errorf("%s %d is not in the working set", kind, id)
		}
		return nil
	case "delete":
		kind, id, err := parseItem(rest)
		if err != nil {
			return err
		}
		if err := a.ops().Delete(ctx, kind, id); err != nil {
			return err
		}
		a.notes.Success(fmt.Sprintf("Deleted %s %d", kind, id))
		return nil
	case "delete-selected":
		n, err := a.ops().DeleteSelected(ctx)
		if err != nil {
			return err
		}
		a.notes.Success(fmt.Sprintf("Deleted %d items", n))
		return nil
	case "undo":
		e, err := a.ops().UndoLast(ctx)
		if err != nil {
			return err
		}
		a.notes.Success(fmt.Sprintf("Restored %s %d", e.Kind, e.ID))
		return nil
	case "trash":
		for i, e := range a.pool.RecentlyDeleted() {
			fmt.Fprintf(a.out, "%2d  %-14s %d%s\n", i+1, e.Kind, e.ID, parentNote(e))
		}
		return nil
	case "restore":
		return a.poolRestore(ctx, rest)
	case "purge":
		e, err := a.trashEntry(rest)
		if err != nil {
			return err
		}
		if !a.online() {
			return errOffline
		}
		if err := a.synced.Purge(ctx, e); err != nil {
			return err
		}
		a.notes.Success(fmt.Sprintf("Permanently deleted %s %d", e.Kind, e.ID))
		return nil
	case "clear":
		a.pool.ClearRecentlyDeleted(ctx)
		return nil
	default:
		return usage(poolUsage)
	}
}

func (a *App) poolFetch(ctx context.Context, args []string) error {
	if !a.online() {
		return errOffline
	}
	var opts services.ListOptions
	var err error
	if len(args) > 0 {
		if opts.Skip, err = strconv.Atoi(args[0]); err != nil {
			return usage(poolUsage)
		}
	}
	if len(args) > 1 {
		if opts.Limit, err = strconv.Atoi(args[1]); err != nil {
			return usage(poolUsage)
		}
	}
	total, err := a.synced.Fetch(ctx, opts)
	if err != nil {
		return err
	}
	a.notes.Success(fmt.Sprintf("Loaded %d of %d questions", a.pool.Len(), total))
	return nil
}

func (a *App) poolRestore(ctx context.Context, args []string) error {
	if len(args) == 1 && args[0] == "all" {
		n, err := a.ops().RestoreAll(ctx)
		if err != nil {
			return err
		}
		a.notes.Success(fmt.Sprintf("Restored %d items", n))
		return nil
	}
	e, err := a.trashEntry(args)
	if err != nil {
		return err
	}
	if err := a.ops().Restore(ctx, e); err != nil {
		return err
	}
	a.notes.Success(fmt.Sprintf("Restored %s %d", e.Kind, e.ID))
	return nil
}

// trashEntry picks an undo buffer entry by its 1-based position.
func (a *App) trashEntry(args []string) (workingset.Entry, error) {
	if len(args) != 1 {
		return workingset.Entry{}, usage(poolUsage)
	}
	n, err := strconv.Atoi(args[0])
	deleted := a.pool.RecentlyDeleted()
	if err != nil || n < 1 || n > len(deleted) {
		return workingset.Entry{}, fmt.Errorf("no trash entry %q", args[0])
	}
	return deleted[n-1], nil
}

func parseItem(args []string) (models.ItemKind, int64, error) {
	if len(args) != 2 {
		return "", 0, usage("<question|raw-answer|expert-answer> <id>")
	}
	kind := models.ItemKind(args[0])
	if !kind.Valid() {
		return "", 0, fmt.Errorf("unknown item kind %q", args[0])
	}
	id, err := parseID(args[1])
	if err != nil {
		return "", 0, err
	}
	return kind, id, nil
}

func parentNote(e workingset.Entry) string {
	if e.ParentID == 0 {
		return ""
	}
	return fmt.Sprintf(" (question %d)", e.ParentID)
}

func (a *App) printPool() {
	mark := func(kind models.ItemKind, id int64) string {
		if a.pool.IsSelected(kind, id) {
			return "[x]"
		}
		return "[ ]"
	}
	for _, q := range a.pool.Questions() {
		fmt.Fprintf(a.out, "%s Q%-5d %s\n", mark(models.KindQuestion, q.ID), q.ID, q.Title)
		for _, ra := range q.RawAnswers {
			fmt.Fprintf(a.out, "    %s raw %-5d %s\n", mark(models.KindRawAnswer, ra.ID), ra.ID, clip(ra.Content, 60))
		}
		for _, ea := range q.ExpertAnswers {
			fmt.Fprintf(a.out, "    %s exp %-5d %s\n", mark(models.KindExpertAnswer, ea.ID), ea.ID, clip(ea.Content, 60))
		}
	}
	if saved := a.pool.SavedAt(); !saved.IsZero() {
		fmt.Fprintf(a.out, "%d questions, saved %s\n", a.pool.Len(), saved.Format("2006-01-02 15:04:05"))
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
