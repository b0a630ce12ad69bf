package app

import (
	"cmp"
	"errors"
	"maps"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeStill/promptdeck/internal/prompts"
)

const dateInputLayout = "2006-01-02T15:04"

// Editor form actions. Anything other than save re-renders the form
// without persisting.
const (
	actionSave        = "save"
	actionSelectModel = "select_model"
	actionAddTag      = "add_tag"
	actionRemoveTag   = "remove_tag"
)

// Form-only field keys.
const (
	fieldStatus         = "status"
	fieldEnvironment    = "environment"
	fieldDeploymentDate = "deploymentDate"
)

// submission is a decoded editor form.
type submission struct {
	prompts.Input
	ChangeLog string
	Action    string
	Errors    map[string]string
}

func (s submission) save() bool {
	return s.Action == actionSave
}

// validate merges the editor rules into the errors found while decoding.
func (s *submission) validate() error {
	if err := s.Input.Validate(); err != nil {
		var verr *prompts.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		maps.Copy(s.Errors, verr.Fields)
	}
	if len(s.Errors) > 0 {
		return &prompts.ValidationError{Fields: s.Errors}
	}
	return nil
}

func parseSubmission(r *http.Request) (submission, error) {
	if err := r.ParseForm(); err != nil {
		return submission{}, err
	}
	f := r.PostForm

	sub := submission{
		ChangeLog: strings.TrimSpace(f.Get("changeLog")),
		Action:    cmp.Or(f.Get("action"), actionSave),
		Errors:    make(map[string]string),
	}

	in := prompts.Input{
		Name:          f.Get("name"),
		Description:   f.Get("description"),
		Model:         f.Get("model"),
		ModelVersion:  f.Get("modelVersion"),
		Provider:      f.Get("provider"),
		Category:      f.Get("category"),
		DeploymentURL: strings.TrimSpace(f.Get("deploymentUrl")),
	}

	if v := strings.TrimSpace(f.Get("temperature")); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			sub.Errors[prompts.FieldTemperature] = "Temperature must be between 0.0 and 2.0"
		}
		in.Temperature = t
	}
	if v := strings.TrimSpace(f.Get("maxTokens")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			sub.Errors[prompts.FieldMaxTokens] = "Max tokens must be between 100 and 8000"
		}
		in.MaxTokens = n
	}

	if v := f.Get("status"); v != "" {
		status, err := prompts.ParseStatus(v)
		if err != nil {
			sub.Errors[fieldStatus] = err.Error()
		}
		in.Status = status
	}
	if v := f.Get("environment"); v != "" {
		env, err := prompts.ParseEnvironment(v)
		if err != nil {
			sub.Errors[fieldEnvironment] = err.Error()
		}
		in.Environment = env
	}

	if f.Get("clearDeploymentDate") != "" {
		in.ClearDeploymentDate = true
	} else if v := strings.TrimSpace(f.Get("deploymentDate")); v != "" {
		t, err := time.ParseInLocation(dateInputLayout, v, time.UTC)
		if err != nil {
			sub.Errors[fieldDeploymentDate] = "Please enter a valid date"
		} else {
			in.DeploymentDate = &t
		}
	}

	tags := prompts.NewTags(f["tags"]...)
	if remove := f.Get("remove_tag"); remove != "" {
		tags = tags.Remove(remove)
		sub.Action = actionRemoveTag
	}
	for _, t := range prompts.ParseTagInput(f.Get("tagInput")) {
		tags = tags.Add(t)
	}
	in.Tags = tags

	if sub.Action == actionSelectModel {
		if err := in.SelectModel(in.Model); err != nil {
			sub.Errors[prompts.FieldModel] = "Model selection is required"
		}
	}

	sub.Input = in
	return sub, nil
}
