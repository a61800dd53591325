package export

import (
	"reflect"
	"strings"
	"testing"
)

func TestSplitBold(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Run
	}{
		{"plain", "just text", []Run{{Text: "just text"}}},
		{"middle", "run **docker** now", []Run{{Text: "run "}, {Text: "docker", Bold: true}, {Text: " now"}}},
		{"leading", "**Pros:** fast", []Run{{Text: "Pros:", Bold: true}, {Text: " fast"}}},
		{"two spans", "**a** and **b**", []Run{{Text: "a", Bold: true}, {Text: " and "}, {Text: "b", Bold: true}}},
		{"unmatched", "x **y", []Run{{Text: "x **y"}}},
		{"empty bold", "a****b", []Run{{Text: "a"}, {Text: "b"}}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitBold(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitBold(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSplitBold_EvenMarkersAlternate(t *testing.T) {
	runs := SplitBold("a **b** c **d** e **f**")
	for i, r := range runs {
		if strings.Contains(r.Text, "**") {
			t.Errorf("run %d %q contains a marker", i, r.Text)
		}
		if i > 0 && runs[i-1].Bold == r.Bold {
			t.Errorf("runs %d and %d have the same weight", i-1, i)
		}
	}
}
