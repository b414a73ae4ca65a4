package utils

import "testing"

func TestIsPasswordValid(t *testing.T) {
	cases := []struct {
		password string
		want     bool
	}{
		{"str0ng-pass!", true},
		{"with space!", true},
		{"short!", false},
		{"noSpecialChars1", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsPasswordValid(tc.password); got != tc.want {
			t.Errorf("IsPasswordValid(%q) = %v, want %v", tc.password, got, tc.want)
		}
	}
}
