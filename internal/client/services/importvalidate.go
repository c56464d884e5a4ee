package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/dmitrijs2005/qacurator/internal/client/client"
	"github.com/dmitrijs2005/qacurator/internal/client/models"
	"github.com/go-playground/validator/v10"
)

// ValidationResult is the outcome of checking an import batch. Errors holds
// one human-readable line per problem.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

func result(errs []string) ValidationResult {
	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

// ValidationError is returned when an invalid batch is submitted. It
// matches client.ErrValidation.
type ValidationError struct {
	Kind   models.ImportKind
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s import: %s", e.Kind, strings.Join(e.Errors, "; "))
}

func (e *ValidationError) Unwrap() error { return client.ErrValidation }

// ImportBatch is a typed set of import records of one kind.
type ImportBatch interface {
	Kind() models.ImportKind
	Len() int
	// Records is the JSON payload sent to the server.
	Records() any
	Validate() ValidationResult
}

type RawQABatch []models.RawQARecord

func (b RawQABatch) Kind() models.ImportKind { return models.ImportRawQA }
func (b RawQABatch) Len() int { return len(b) }
func (b RawQABatch) Records() any { return []models.RawQARecord(b) }
func (b RawQABatch) Validate() ValidationResult { return validateAll(b) }

type ExpertAnswerBatch []models.ExpertAnswerRecord

func (b ExpertAnswerBatch) Kind() models.ImportKind { return models.ImportExpertAnswers }
func (b ExpertAnswerBatch) Len() int { return len(b) }
func (b ExpertAnswerBatch) Records() any { return []models.ExpertAnswerRecord(b) }
func (b ExpertAnswerBatch) Validate() ValidationResult { return validateAll(b) }

type StdQABatch []models.StdQARecord

func (b StdQABatch) Kind() models.ImportKind { return models.ImportStdQA }
func (b StdQABatch) Len() int { return len(b) }
func (b StdQABatch) Records() any { return []models.StdQARecord(b) }
func (b StdQABatch) Validate() ValidationResult { return validateAll(b) }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		rec := sl.Current().Interface().(models.ExpertAnswerRecord)
		if rec.QuestionID == 0 && strings.TrimSpace(rec.Title) == "" {
			sl.ReportError(rec.QuestionID, "question_id", "QuestionID", "question_or_title", "")
		}
	}, models.ExpertAnswerRecord{})
	return v
}

// ValidateImport checks untyped records against the schema of kind. It does
// not modify records.
func ValidateImport(kind models.ImportKind, records []map[string]any) ValidationResult {
	_, res := DecodeImport(kind, records)
	return res
}

// DecodeImport converts untyped records into a typed batch. The batch is
// nil unless the result is valid.
func DecodeImport(kind models.ImportKind, records []map[string]any) (ImportBatch, ValidationResult) {
	var (
		batch ImportBatch
		errs  []string
	)
	switch kind {
	case models.ImportRawQA:
		var recs []models.RawQARecord
		recs, errs = decodeRecords[models.RawQARecord](records)
		batch = RawQABatch(recs)
	case models.ImportExpertAnswers:
		var recs []models.ExpertAnswerRecord
		recs, errs = decodeRecords[models.ExpertAnswerRecord](records)
		batch = ExpertAnswerBatch(recs)
	case models.ImportStdQA:
		var recs []models.StdQARecord
		recs, errs = decodeRecords[models.StdQARecord](records)
		batch = StdQABatch(recs)
	default:
		return nil, result([]string{fmt.Sprintf("unsupported data kind %q", kind)})
	}

	if len(records) == 0 {
		errs = append(errs, "no records to import")
	}
	res := result(errs)
	if !res.IsValid {
		return nil, res
	}
	return batch, res
}

// ParseImport decodes an import document: either a JSON array of records
// or an object with the records under "data".
func ParseImport(kind models.ImportKind, doc []byte) (ImportBatch, ValidationResult) {
	var records []map[string]any
	if err := json.Unmarshal(doc, &records); err != nil {
		var wrapped struct {
			Data []map[string]any `json:"data"`
		}
		if werr := json.Unmarshal(doc, &wrapped); werr != nil || wrapped.Data == nil {
			return nil, result([]string{"document is not a JSON array of records"})
		}
		records = wrapped.Data
	}
	return DecodeImport(kind, records)
}

func decodeRecords[T any](records []map[string]any) ([]T, []string) {
	out := make([]T, 0, len(records))
	var errs []string
	for i, rec := range records {
		raw, err := json.Marshal(rec)
		if err != nil {
			errs = append(errs, fmt.Sprintf("record %d: %v", i+1, err))
			continue
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			errs = append(errs, fmt.Sprintf("record %d: %s", i+1, decodeMessage(err)))
			continue
		}
		errs = append(errs, check(i, v)...)
		out = append(out, v)
	}
	return out, errs
}

func validateAll[T any](recs []T) ValidationResult {
	var errs []string
	if len(recs) == 0 {
		errs = append(errs, "no records to import")
	}
	for i, r := range recs {
		errs = append(errs, check(i, r)...)
	}
	return result(errs)
}

func check(i int, v any) []string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{fmt.Sprintf("record %d: %v", i+1, err)}
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("record %d: %s", i+1, fieldMessage(fe)))
	}
	return msgs
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "question_or_title":
		return "question_id or title is required"
	case "url":
		return field + " must be a URL"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

func decodeMessage(err error) string {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) && ute.Field != "" {
		return fmt.Sprintf("%s must not be a %s", ute.Field, ute.Value)
	}
	return err.Error()
}
