package member

import "testing"

func TestDeriveInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Ada Lovelace", "AL"},
		{"Ada", "A"},
		{"ada king lovelace", "AL"},
		{"  Grace   Hopper  ", "GH"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := DeriveInitials(tt.name); got != tt.want {
			t.Errorf("DeriveInitials(%q) = %q; want %q", tt.name, got, tt.want)
		}
	}
}
