package routes

import "github.com/dmitrijs2005/qacurator/internal/client/models"

// Route names used by the client.
const (
	Entry          = "entry"
	Login          = "login"
	Register       = "register"
	About          = "about"
	Marketplace    = "marketplace"
	DatasetDetail  = "dataset-detail"
	VersionDetail  = "version-detail"
	AdminHome      = "admin-home"
	RawQuestions   = "raw-questions"
	DataImport     = "data-import"
	StdQA          = "std-qa"
	VersionWork    = "version-work"
	ExpertHome     = "expert-home"
	ExpertTask     = "expert-task"
	Evaluation     = "evaluation"
	EvaluationTask = "evaluation-task"
)

// DefaultRoutes is the route table of the client.
func DefaultRoutes() []Route {
	return []Route{
		{Name: Entry, Path: "/", Meta: Public()},
		{Name: Login, Path: "/login", Meta: Public()},
		{Name: Register, Path: "/register", Meta: Public()},
		{Name: About, Path: "/about", Meta: Public()},

		{Name: Marketplace, Path: "/marketplace", Meta: Authenticated()},
		{Name: DatasetDetail, Path: "/datasets/:datasetId", Meta: Authenticated()},
		{Name: VersionDetail, Path: "/datasets/:datasetId/versions/:versionId", Meta: Authenticated()},

		{Name: AdminHome, Path: "/admin", Meta: RoleOnly(models.RoleAdmin)},
		{Name: RawQuestions, Path: "/admin/raw-questions", Meta: RoleOnly(models.RoleAdmin)},
		{Name: DataImport, Path: "/admin/import", Meta: RoleOnly(models.RoleAdmin)},
		{Name: StdQA, Path: "/admin/std-qa", Meta: RoleOnly(models.RoleAdmin)},
		{Name: VersionWork, Path: "/admin/version-work/:workId", Meta: RoleOnly(models.RoleAdmin)},

		{Name: ExpertHome, Path: "/expert", Meta: RoleOnly(models.RoleExpert)},
		{Name: ExpertTask, Path: "/expert/tasks/:taskId", Meta: RoleOnly(models.RoleExpert)},

		{Name: Evaluation, Path: "/evaluation", Meta: RoleOnly(models.RoleUser)},
		{Name: EvaluationTask, Path: "/evaluation/tasks/:taskId", Meta: RoleOnly(models.RoleUser)},
	}
}

// DefaultTable builds the table of DefaultRoutes.
func DefaultTable() *Table {
	t, err := NewTable(DefaultRoutes()...)
	if err != nil {
		panic(err)
	}
	return t
}
