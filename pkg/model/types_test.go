package model

import "testing"

func TestID_Valid(t *testing.T) {
	tests := []struct {
		name string
		id   ID
		want bool
	}{
		{"Zero", 0, true},
		{"Positive", 42, true},
		{"NoID", NoID, false},
		{"NoSelection", NoSelection, false},
		{"Negative", -7, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.id.Valid(); got != tt.want {
				t.Errorf("ID(%d).Valid() = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}

func TestID_String(t *testing.T) {
	tests := []struct {
		id   ID
		want string
	}{
		{0, "#0"},
		{12, "#12"},
		{NoID, "#none"},
	}
	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("ID(%d).String() = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestNoSelectionIsNoID(t *testing.T) {
	if NoSelection != NoID {
		t.Fatalf("expected NoSelection to equal NoID, got %d vs %d", NoSelection, NoID)
	}
}
