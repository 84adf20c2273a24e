package handler

import (
	"errors"
	"testing"

	"github.com/gigboard/marketplace/internal/core/domain"
)

func TestValidator_LengthAndDateMessages(t *testing.T) {
	type request struct {
		Title    string `json:"title"    validate:"max=5"`
		Deadline string `json:"deadline" validate:"datetime=2006-01-02"`
	}

	err := NewValidator().Validate(&request{Title: "far too long", Deadline: "next week"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *domain.ValidationError, got %v", err)
	}

	want := map[string]string{
		"title":    "title must be at most 5 characters",
		"deadline": "deadline must be a date formatted as 2006-01-02",
	}
	if len(ve.Fields) != len(want) {
		t.Fatalf("expected %d field errors, got %+v", len(want), ve.Fields)
	}
	for _, f := range ve.Fields {
		if want[f.Field] != f.Message {
			t.Fatalf("field %s: expected %q, got %q", f.Field, want[f.Field], f.Message)
		}
	}
}

func TestValidator_MatchesDomainMessages(t *testing.T) {
	type request struct {
		Email string `json:"email" validate:"required,email"`
	}

	err := NewValidator().Validate(&request{Email: "nope"})
	var ve *domain.ValidationError
	if !errors.As(err, &ve) || len(ve.Fields) != 1 {
		t.Fatalf("expected one field error, got %v", err)
	}
	if want := domain.DescribeField("email", "email", ""); ve.Fields[0].Message != want {
		t.Fatalf("expected %q, got %q", want, ve.Fields[0].Message)
	}
}
