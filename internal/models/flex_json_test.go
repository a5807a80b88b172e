package models

import (
	"encoding/json"
	"testing"
)

func TestFlexUnmarshal_AllStrings(t *testing.T) {
	input := `{"id": "1100", "age": "27", "number": "10", "rating": "7.35"}`

	var p struct {
		ID     FlexInt   `json:"id"`
		Age    FlexInt   `json:"age"`
		Number FlexInt   `json:"number"`
		Rating FlexFloat `json:"rating"`
	}
	if err := json.Unmarshal([]byte(input), &p); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if p.ID != 1100 {
		t.Errorf("ID = %d, want 1100", p.ID)
	}
	if p.Age != 27 {
		t.Errorf("Age = %d, want 27", p.Age)
	}
	if p.Number != 10 {
		t.Errorf("Number = %d, want 10", p.Number)
	}
	if p.Rating != 7.35 {
		t.Errorf("Rating = %f, want 7.35", p.Rating)
	}
}

func TestFlexUnmarshal_NativeTypes(t *testing.T) {
	input := `{"id": 874, "age": 31.0, "rating": 6.9}`

	var p struct {
		ID     FlexInt   `json:"id"`
		Age    FlexInt   `json:"age"`
		Rating FlexFloat `json:"rating"`
	}
	if err := json.Unmarshal([]byte(input), &p); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}

	if p.ID != 874 || p.Age != 31 {
		t.Errorf("got id=%d age=%d, want 874/31", p.ID, p.Age)
	}
	if p.Rating != 6.9 {
		t.Errorf("Rating = %f, want 6.9", p.Rating)
	}
}

func TestFlexUnmarshal_Missing(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"Null", `{"number": null}`},
		{"Empty string", `{"number": ""}`},
		{"Garbage string", `{"number": "n/a"}`},
		{"Absent", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p struct {
				Number FlexInt `json:"number"`
			}
			if err := json.Unmarshal([]byte(tt.input), &p); err != nil {
				t.Fatalf("Failed to unmarshal: %v", err)
			}
			if p.Number != 0 {
				t.Errorf("Number = %d, want 0", p.Number)
			}
		})
	}
}

func TestFlexUnmarshal_InvalidType(t *testing.T) {
	var p struct {
		Number FlexInt `json:"number"`
	}
	if err := json.Unmarshal([]byte(`{"number": [1]}`), &p); err == nil {
		t.Error("expected error for array value")
	}
}
