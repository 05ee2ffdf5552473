package ttyguard

import "testing"

func TestShouldSuppressTTYQueries(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  bool
		want bool
	}{
		{"tui", []string{"tunebook"}, false, false},
		{"tui with bookmarks", []string{"tunebook", "--bookmarks", "list.yaml"}, false, false},
		{"list", []string{"tunebook", "--list"}, false, true},
		{"single dash", []string{"tunebook", "-json"}, false, true},
		{"export with value", []string{"tunebook", "--export-json=out.json"}, false, true},
		{"version", []string{"tunebook", "--version"}, false, true},
		{"value named like a flag", []string{"tunebook", "--search", "list"}, false, false},
		{"test mode", []string{"tunebook"}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldSuppressTTYQueries(tt.args, tt.env); got != tt.want {
				t.Errorf("shouldSuppressTTYQueries(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}
