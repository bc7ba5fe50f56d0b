package web

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/slok/taskbreak/internal/app/breakdown"
	"github.com/slok/taskbreak/internal/model"
	"github.com/slok/taskbreak/internal/render"
)

const msgMissingFields = "Please fill out all fields."

type formValues struct {
	Name        string
	Description string
	Effort      string
	Complexity  string
	TotalHours  string
}

type pageData struct {
	Form         formValues
	Efforts      []string
	AskAPIKey    bool
	AskHours     bool
	Error        string
	Result       template.HTML
	Caution      string
	Model        string
	SubmissionID string
}

func (s *Server) newPageData(f formValues) pageData {
	efforts := []string{}
	for _, e := range model.EffortLevels() {
		efforts = append(efforts, string(e))
	}

	return pageData{
		Form:      f,
		Efforts:   efforts,
		AskAPIKey: s.runner == nil,
		AskHours:  s.tpl.IncludeTotalHours,
	}
}

func defaultFormValues() formValues {
	return formValues{
		Effort:     string(model.EffortMedium),
		Complexity: strconv.Itoa(model.DefaultComplexity),
		TotalHours: "0.0",
	}
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, s.newPageData(defaultFormValues()))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		data := s.newPageData(defaultFormValues())
		data.Error = "Could not read the form: " + err.Error()
		s.renderPage(w, http.StatusBadRequest, data)
		return
	}

	f := formValues{
		Name:        r.PostForm.Get("name"),
		Description: r.PostForm.Get("description"),
		Effort:      r.PostForm.Get("effort"),
		Complexity:  r.PostForm.Get("complexity"),
		TotalHours:  r.PostForm.Get("total_hours"),
	}
	data := s.newPageData(f)

	task, err := parseTask(f, s.tpl.IncludeTotalHours)
	if err != nil {
		data.Error = err.Error()
		s.renderPage(w, http.StatusUnprocessableEntity, data)
		return
	}

	// Required fields are checked before asking for credentials, nothing is sent
	// anywhere when the form is incomplete.
	if err := task.Validate(); err != nil {
		data.Error = validationMessage(err)
		s.renderPage(w, http.StatusUnprocessableEntity, data)
		return
	}

	runner, err := s.runnerFor(r.Context(), strings.TrimSpace(r.PostForm.Get("api_key")))
	if err != nil {
		data.Error = upperFirst(err.Error())
		status := http.StatusUnauthorized
		if !errors.Is(err, errMissingAPIKey) {
			status = http.StatusBadGateway
		}
		s.renderPage(w, status, data)
		return
	}

	sub, err := runner.Run(r.Context(), breakdown.Request{Task: task})
	if err != nil {
		status := http.StatusBadGateway
		data.Error = "An error occurred: " + err.Error()
		if errors.Is(err, model.ErrNotValid) {
			status = http.StatusUnprocessableEntity
			data.Error = validationMessage(err)
		}
		s.renderPage(w, status, data)
		return
	}

	html, err := render.HTML(sub.Breakdown.Text)
	if err != nil {
		// Fall back to the verbatim text, the template escapes it.
		s.logger.Warningf("could not render breakdown as HTML: %s", err)
		html = template.HTML("<pre>" + template.HTMLEscapeString(sub.Breakdown.Text) + "</pre>")
	}

	data.Result = html
	data.Caution = sub.Breakdown.CautionMessage
	data.Model = sub.Breakdown.Model
	data.SubmissionID = sub.ID
	s.renderPage(w, http.StatusOK, data)
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Errorf("could not render page: %s", err)
	}
}

// parseTask converts the raw form values into a task request, numbers that don't
// parse are reported as validation errors.
func parseTask(f formValues, withHours bool) (model.TaskRequest, error) {
	task := model.TaskRequest{
		Name:        f.Name,
		Description: f.Description,
	}

	vErr := &model.ValidationError{}

	if strings.TrimSpace(f.Effort) != "" {
		e, err := model.ParseEffortLevel(f.Effort)
		if err != nil {
			vErr.Fields = append(vErr.Fields, model.FieldError{Field: "effort", Message: "must be one of Low, Medium, High"})
		}
		task.Effort = e
	}

	if strings.TrimSpace(f.Complexity) != "" {
		c, err := strconv.Atoi(strings.TrimSpace(f.Complexity))
		if err != nil {
			vErr.Fields = append(vErr.Fields, model.FieldError{Field: "complexity", Message: "must be a whole number"})
		}
		task.Complexity = c
	}

	if withHours && strings.TrimSpace(f.TotalHours) != "" {
		h, err := strconv.ParseFloat(strings.TrimSpace(f.TotalHours), 64)
		if err != nil {
			vErr.Fields = append(vErr.Fields, model.FieldError{Field: "total_hours", Message: "must be a number"})
		} else {
			task.TotalHours = &h
		}
	}

	if len(vErr.Fields) > 0 {
		return model.TaskRequest{}, vErr
	}

	task.Defaults()
	return task, nil
}

func validationMessage(err error) string {
	var vErr *model.ValidationError
	if errors.As(err, &vErr) && vErr.MissingRequired() {
		return msgMissingFields
	}
	return upperFirst(err.Error())
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
