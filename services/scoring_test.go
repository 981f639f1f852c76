package services

import "testing"

func TestCalculatePoints(t *testing.T) {
	tests := []struct {
		name     string
		position int
		grade    string
		want     int
	}{
		{"first with A", 1, "A", 8},
		{"first with B", 1, "B", 7},
		{"second with A", 2, "A", 6},
		{"second with D", 2, "D", 3},
		{"third with A", 3, "A", 4},
		{"third with E", 3, "E", 1},
		{"grade only", 0, "B", 2},
		{"position only", 2, "", 3},
		{"D and E carry no grade points", 1, "D", 5},
		{"unknown position and grade", 99, "Z", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculatePoints(tt.position, tt.grade); got != tt.want {
				t.Errorf("CalculatePoints(%d, %q) = %d, want %d", tt.position, tt.grade, got, tt.want)
			}
		})
	}
}
