package printer

import "github.com/slok/taskbreak/internal/model"

// Printer knows how to print task breakdown information in different formats.
type Printer interface {
	PrintBreakdown(sub model.Submission) error
	PrintTemplates(tpls []model.PromptTemplate, current string) error
	PrintChecks(results []model.CheckResult) error
	PrintMessage(msg string) error
}
