package options

import (
	"testing"

	"tableflip.dev/tierit/pkg/drag"
)

func TestTargetLocation(t *testing.T) {
	tests := map[string]struct {
		opts    TargetOptions
		args    []string
		want    drag.Location
		wantErr bool
	}{
		"positional slot": {
			opts: TargetOptions{Index: -1},
			args: []string{"s:2"},
			want: drag.Tier("s", 2),
		},
		"positional wins over flags": {
			opts: TargetOptions{Tier: "a", Index: 0},
			args: []string{"library"},
			want: drag.Library(),
		},
		"library flag": {
			opts: TargetOptions{Library: true, Index: -1},
			want: drag.Library(),
		},
		"tier without index appends": {
			opts: TargetOptions{Tier: "b", Index: -1},
			want: drag.Tier("b", drag.AppendIndex),
		},
		"tier with index": {
			opts: TargetOptions{Tier: "b", Index: 1},
			want: drag.Tier("b", 1),
		},
		"nothing": {
			opts:    TargetOptions{Index: -1},
			wantErr: true,
		},
		"bad positional": {
			opts:    TargetOptions{Index: -1},
			args:    []string{"s:x"},
			wantErr: true,
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := tc.opts.Location(tc.args)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
		})
	}
}
