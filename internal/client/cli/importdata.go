package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/qacurator/internal/client/models"
	"github.com/dmitrijs2005/qacurator/internal/client/services"
)

// Import validates a JSON file of records and uploads it. Validation runs
// locally first; an invalid file is never sent.
func (a *App) Import(ctx context.Context, args []string) error {
	if len(args) < 2 || len(args) > 3 {
		return usage("import raw-qa|expert-answers|std-qa <file> [datasetId]")
	}
	if !a.enter(ctx, "/admin/import") {
		return nil
	}

	kind := models.ImportKind(args[0])
	var datasetID int64
	if len(args) == 3 {
		id, err := parseID(args[2])
		if err != nil {
			return err
		}
		datasetID = id
	}

	doc, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	batch, res := services.ParseImport(kind, doc)
	if !res.IsValid {
		for _, e := range res.Errors {
			fmt.Fprintln(a.out, "  "+e)
		}
		return &services.ValidationError{Kind: kind, Errors: res.Errors}
	}

	out, err := a.imports.Upload(ctx, batch, datasetID)
	if err != nil {
		return err
	}
	msg := out.Message
	if msg == "" {
		msg = fmt.Sprintf("Imported %d questions and %d answers", out.ImportedQuestions, out.ImportedAnswers)
	}
	a.notes.Success(msg)
	return nil
}
