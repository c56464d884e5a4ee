package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/qacurator/internal/client/models"
	"github.com/dmitrijs2005/qacurator/internal/client/services"
)

const taskUsage = "task start <datasetId> <modelId> <name> | watch <id> | cancel <id>"

// Tasks lists the caller's evaluation tasks.
func (a *App) Tasks(ctx context.Context, _ []string) error {
	if !a.enter(ctx, "/evaluation") {
		return nil
	}
	ts, err := a.evaluation.Tasks(ctx, services.ListOptions{})
	if err != nil {
		return err
	}
	for _, t := range ts {
		fmt.Fprintf(a.out, "%5d  %-24s %-10s %3d%%\n", t.ID, t.Name, t.Status, t.Progress)
	}
	return nil
}

// Task starts, watches or cancels an evaluation task. start and watch block
// until the task is finished.
func (a *App) Task(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return usage(taskUsage)
	}
	if !a.enter(ctx, "/evaluation") {
		return nil
	}

	switch args[0] {
	case "start":
		if len(args) < 4 {
			return usage(taskUsage)
		}
		datasetID, err := parseID(args[1])
		if err != nil {
			return err
		}
		modelID, err := parseID(args[2])
		if err != nil {
			return err
		}
		task, err := a.evaluation.CreateTask(ctx, models.EvaluationTaskCreate{
			DatasetID:   datasetID,
			TaskName:    strings.Join(args[3:], " "),
			ModelConfig: models.ModelConfig{ModelID: modelID},
			IsAutoScore: true,
		})
		if err != nil {
			return err
		}
		a.notes.Success(fmt.Sprintf("Started task %d", task.ID))
		return a.watch(ctx, task.ID)

	case "watch":
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		return a.watch(ctx, id)

	case "cancel":
		id, err := parseID(args[1])
		if err != nil {
			return err
		}
		if err := a.evaluation.Cancel(ctx, id); err != nil {
			return err
		}
		a.notes.Success(fmt.Sprintf("Cancelled task %d", id))
		return nil

	default:
		return usage(taskUsage)
	}
}

func (a *App) watch(ctx context.Context, taskID int64) error {
	p, err := a.monitor.Run(ctx, taskID)
	if err != nil {
		return err
	}
	if p.Status == models.TaskFailed {
		a.notes.Warning(fmt.Sprintf("Task %d failed: %s", taskID, p.ErrorMessage))
		return nil
	}
	a.notes.Success(fmt.Sprintf("Task %d %s", taskID, p.Status))
	return nil
}

func (a *App) printProgress(p models.TaskProgress) {
	fmt.Fprintf(a.out, "task %d: %s %d%% (%d/%d done, %d failed)\n",
		p.TaskID, p.Status, p.Progress, p.CompletedQuestions, p.TotalQuestions, p.FailedQuestions)
}
