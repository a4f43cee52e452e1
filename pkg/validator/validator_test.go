package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
)

type feedbackPayload struct {
	Recommendation string `json:"recommendation" validate:"required,oneof=strong_hire hire maybe no_hire strong_no_hire"`
	OverallRating  int    `json:"overall_rating" validate:"required,gte=1,lte=5"`
	Strengths      string `json:"strengths" validate:"omitempty,max=2000"`
}

func TestValidateStructSuccess(t *testing.T) {
	payload := feedbackPayload{
		Recommendation: "hire",
		OverallRating:  4,
	}

	if err := ValidateStruct(payload); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateStructFailures(t *testing.T) {
	payload := feedbackPayload{
		Recommendation: "definitely",
		OverallRating:  9,
	}

	err := ValidateStruct(payload)
	if err == nil {
		t.Fatal("expected validation error")
	}

	vErrs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}

	if len(vErrs) != 2 {
		t.Fatalf("expected 2 validation errors, got %d", len(vErrs))
	}

	foundRating := false
	for _, v := range vErrs {
		if v.Field == "overall_rating" && v.Tag == "lte" {
			foundRating = true
		}
	}

	if !foundRating {
		t.Fatal("expected overall_rating lte failure in validation errors")
	}
}

func TestRegisterValidation(t *testing.T) {
	err := RegisterValidation("hirepath", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "hirepath"
	})
	if err != nil {
		t.Fatalf("register validation: %v", err)
	}

	type custom struct {
		Value string `validate:"hirepath"`
	}

	if err := ValidateStruct(custom{Value: "hirepath"}); err != nil {
		t.Fatalf("expected validation to pass, got %v", err)
	}
	if err := ValidateStruct(custom{Value: "other"}); err == nil {
		t.Fatal("expected validation to fail for non-matching value")
	}
}
