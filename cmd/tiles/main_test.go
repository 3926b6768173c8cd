package main

import (
	"reflect"
	"testing"
)

func TestRewriteQuickAddArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "no args",
			in:   []string{"tiles"},
			want: []string{"tiles"},
		},
		{
			name: "link first token",
			in:   []string{"tiles", "https://grafana.local"},
			want: []string{"tiles", "instances", "add", "--href", "https://grafana.local"},
		},
		{
			name: "link after value flag",
			in:   []string{"tiles", "--dir", "./tmp-test-ws", "http://nas.local"},
			want: []string{"tiles", "--dir", "./tmp-test-ws", "instances", "add", "--href", "http://nas.local"},
		},
		{
			name: "link after equals flag",
			in:   []string{"tiles", "--dir=./tmp-test-ws", "http://nas.local"},
			want: []string{"tiles", "--dir=./tmp-test-ws", "instances", "add", "--href", "http://nas.local"},
		},
		{
			name: "link after bool flag keeps trailing flags",
			in:   []string{"tiles", "--pretty", "http://nas.local", "--title", "NAS"},
			want: []string{"tiles", "--pretty", "instances", "add", "--href", "http://nas.local", "--title", "NAS"},
		},
		{
			name: "link after double dash",
			in:   []string{"tiles", "--", "http://nas.local"},
			want: []string{"tiles", "instances", "add", "--href", "http://nas.local"},
		},
		{
			name: "subcommand untouched",
			in:   []string{"tiles", "instances", "list"},
			want: []string{"tiles", "instances", "list"},
		},
		{
			name: "bare scheme is not a link",
			in:   []string{"tiles", "http://"},
			want: []string{"tiles", "http://"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := rewriteQuickAddArgs(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("rewriteQuickAddArgs(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
