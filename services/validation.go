package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// newValidator builds the shared struct validator. Field names in reported
// violations come from json tags so they match the wire format.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// EvaluationInput carries the score payload for draft, submit and update
// operations. All fields are optional at the type level; Submit/Update
// enforce presence on top of the range checks.
type EvaluationInput struct {
	ScoreInnovation   *int    `json:"score_innovation" validate:"omitempty,min=1,max=10"`
	ScoreFeasibility  *int    `json:"score_feasibility" validate:"omitempty,min=1,max=10"`
	ScoreExecution    *int    `json:"score_execution" validate:"omitempty,min=1,max=10"`
	ScorePresentation *int    `json:"score_presentation" validate:"omitempty,min=1,max=10"`
	Comments          *string `json:"comments"`
}

const minCommentsLength = 15

func (in EvaluationInput) scores() map[string]*int {
	return map[string]*int{
		"score_innovation":   in.ScoreInnovation,
		"score_feasibility":  in.ScoreFeasibility,
		"score_execution":    in.ScoreExecution,
		"score_presentation": in.ScorePresentation,
	}
}

// validateEvaluationInput collects every violation instead of failing on
// the first one. With final=true all four scores and a sufficiently long
// comment are required (submit and post-submit update); drafts only need
// present scores to be in range.
func validateEvaluationInput(v *validator.Validate, in EvaluationInput, final bool) error {
	violations := newValidationError()

	if err := v.Struct(in); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fe := range fieldErrors {
				violations.Fields[fe.Field()] = "must be an integer between 1 and 10"
			}
		} else {
			return err
		}
	}

	if final {
		for name, score := range in.scores() {
			if score == nil {
				violations.Fields[name] = "is required"
			}
		}
		if in.Comments == nil || len(strings.TrimSpace(*in.Comments)) < minCommentsLength {
			violations.Fields["comments"] = "must be at least 15 characters long"
		}
	}

	if len(violations.Fields) > 0 {
		return violations
	}
	return nil
}
