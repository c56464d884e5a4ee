package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/qacurator/internal/client/services"
)

// Datasets lists the marketplace, or the caller's own datasets with "mine".
func (a *App) Datasets(ctx context.Context, args []string) error {
	if !a.enter(ctx, "/marketplace") {
		return nil
	}

	if len(args) > 0 && args[0] == "mine" {
		ds, err := a.datasets.Mine(ctx, services.ListOptions{})
		if err != nil {
			return err
		}
		for _, d := range ds {
			fmt.Fprintf(a.out, "%5d  %-30s public=%t\n", d.ID, d.Name, d.IsPublic)
		}
		return nil
	}

	var current string
	if id, ok := a.userSession.Identity(); ok {
		current = id.Username
	}
	ds, err := a.datasets.Marketplace(ctx, services.ListOptions{}, current)
	if err != nil {
		return err
	}
	for _, d := range ds {
		fmt.Fprintf(a.out, "%5d  %-30s %4d questions  %4d answers  by %s\n",
			d.ID, d.Name, d.StdQuestionsCount, d.StdAnswersCount, d.CreatorUsername)
	}
	return nil
}

// Dataset shows one dataset with its statistics.
func (a *App) Dataset(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("dataset <id>")
	}
	if !a.enter(ctx, "/datasets/"+args[0]) {
		return nil
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	d, err := a.datasets.Get(ctx, id)
	if err != nil {
		return err
	}
	stats, err := a.datasets.Stats(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s (id %d, public=%t)\n%s\n%d std questions, %d std answers\n",
		d.Name, d.ID, d.IsPublic, d.Description, stats.StdQuestionsCount, stats.StdAnswersCount)
	return nil
}

// Download saves a dataset or an evaluation result set through the exporter.
func (a *App) Download(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return usage("download dataset|results <id>")
	}
	if !a.enter(ctx, "/evaluation") {
		return nil
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}

	var data []byte
	switch strings.ToLower(args[0]) {
	case "dataset":
		data, err = a.evaluation.DownloadDataset(ctx, id)
	case "results":
		data, err = a.evaluation.DownloadResults(ctx, id)
	default:
		return usage("download dataset|results <id>")
	}
	if err != nil {
		return err
	}

	where, err := a.exporter.Export(ctx, fmt.Sprintf("%s-%d.json", strings.ToLower(args[0]), id), data)
	if err != nil {
		return err
	}
	a.notes.Success("Saved to " + where)
	return nil
}
