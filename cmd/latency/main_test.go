package main

import (
	"testing"
	"time"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name      string
		durations []time.Duration
		want      stats
	}{
		{
			name:      "empty",
			durations: nil,
			want:      stats{},
		},
		{
			name:      "single",
			durations: []time.Duration{100 * time.Millisecond},
			want: stats{
				Min: 100 * time.Millisecond,
				Avg: 100 * time.Millisecond,
				Max: 100 * time.Millisecond,
			},
		},
		{
			name: "mixed",
			durations: []time.Duration{
				100 * time.Millisecond,
				300 * time.Millisecond,
				200 * time.Millisecond,
			},
			want: stats{
				Min: 100 * time.Millisecond,
				Avg: 200 * time.Millisecond,
				Max: 300 * time.Millisecond,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := summarize(tt.durations)
			if got != tt.want {
				t.Errorf("summarize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
