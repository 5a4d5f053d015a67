package models

import "testing"

func TestProfileHasAvatar(t *testing.T) {
	empty := ""
	key := "avatars/2026/10/abc.jpg"

	tests := []struct {
		name   string
		avatar *string
		want   bool
	}{
		{name: "nil avatar", avatar: nil, want: false},
		{name: "empty key", avatar: &empty, want: false},
		{name: "key set", avatar: &key, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Profile{Avatar: tt.avatar}
			if got := p.HasAvatar(); got != tt.want {
				t.Errorf("HasAvatar() = %v, want %v", got, tt.want)
			}
		})
	}
}
