package validation

import (
	"errors"
	"strings"
	"testing"
)

type sampleRequest struct {
	Title    string `json:"title" validate:"required,max=10"`
	Email    string `json:"email" validate:"omitempty,email"`
	Category string `json:"category" validate:"required,category"`
	Rating   int    `json:"rating" validate:"min=1,max=5"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name    string
		req     sampleRequest
		wantErr []string
	}{
		{
			name: "valid",
			req:  sampleRequest{Title: "Soup", Category: "Vegan", Rating: 3},
		},
		{
			name:    "missing title",
			req:     sampleRequest{Category: "Vegan", Rating: 3},
			wantErr: []string{"title is required"},
		},
		{
			name:    "title too long",
			req:     sampleRequest{Title: "a very long title", Category: "Vegan", Rating: 3},
			wantErr: []string{"title must be at most 10 characters"},
		},
		{
			name:    "bad category",
			req:     sampleRequest{Title: "Soup", Category: "Thai", Rating: 3},
			wantErr: []string{"category must be one of: Dessert, Vegan"},
		},
		{
			name:    "rating bounds and email",
			req:     sampleRequest{Title: "Soup", Email: "nope", Category: "Other", Rating: 9},
			wantErr: []string{"email must be a valid email address", "rating must be at most 5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.req)
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Fatalf("error %q does not contain %q", err.Error(), want)
				}
			}
		})
	}
}
