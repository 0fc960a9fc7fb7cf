package publication

import (
	"reflect"
	"testing"
)

func TestDedupe(t *testing.T) {
	tests := []struct {
		name string
		in   [][]string
		want []string
	}{
		{
			name: "duplicates across terms keep first occurrence",
			in:   [][]string{{"1", "2", "3"}, {"3", "4", "1"}, {"5"}},
			want: []string{"1", "2", "3", "4", "5"},
		},
		{
			name: "duplicates within one term",
			in:   [][]string{{"7", "7", "8"}},
			want: []string{"7", "8"},
		},
		{
			name: "order is term order then result order",
			in:   [][]string{{"b"}, {"a"}},
			want: []string{"b", "a"},
		},
		{
			name: "blank ids dropped",
			in:   [][]string{{"", "1"}},
			want: []string{"1"},
		},
		{
			name: "empty input",
			in:   nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dedupe(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Dedupe(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
