package processor

import "testing"

func TestIsDisasterRelated(t *testing.T) {
	cases := []struct {
		text string
		want bool
	}{
		{"Massive Flood Hits Region", true},
		{"Local bakery wins award", false},
		{"", false},
		{"   ", false},
		{"VOLCANIC ERUPTION forces villagers out", true},
		{"Heatwave grips northern plains", true},
		{"volcanic activity reported", false},
		// 子串匹配的已知误判
		{"Stadium floodlights upgraded", true},
	}

	for _, c := range cases {
		if got := IsDisasterRelated(c.text); got != c.want {
			t.Fatalf("IsDisasterRelated(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}
