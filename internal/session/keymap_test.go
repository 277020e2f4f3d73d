package session

import "testing"

func TestOptionIndexForKey(t *testing.T) {
	cases := []struct {
		key         string
		optionCount int
		wantIndex   int
		wantOK      bool
	}{
		{"1", 4, 0, true},
		{"2", 4, 1, true},
		{"3", 4, 2, true},
		{"4", 4, 3, true},
		{"4", 3, 0, false}, // mapped index past the options
		{"3", 3, 2, true},
		{"0", 4, 0, false},
		{"5", 4, 0, false},
		{"a", 4, 0, false},
		{"", 4, 0, false},
		{"11", 4, 0, false},
	}

	for _, tc := range cases {
		index, ok := OptionIndexForKey(tc.key, tc.optionCount)
		if ok != tc.wantOK || (ok && index != tc.wantIndex) {
			t.Errorf("OptionIndexForKey(%q, %d) = (%d, %t), want (%d, %t)",
				tc.key, tc.optionCount, index, ok, tc.wantIndex, tc.wantOK)
		}
	}
}
