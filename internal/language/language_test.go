package language

import "testing"

func TestCanonical(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"ja", "ja", true},
		{"JA", "ja", true},
		{"zh-tw", "zh-TW", true},
		{"ZH-TW", "zh-TW", true},
		{"zh-cn", "zh-CN", true},
		{"en", "en", true},
		{"xx", "", false},
		{"not a tag!", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := Canonical(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Canonical(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestLookupCodesAreUnique(t *testing.T) {
	seen := make(map[string]bool, len(Supported))
	for _, l := range Supported {
		if seen[l.Code] {
			t.Errorf("duplicate code %q", l.Code)
		}
		seen[l.Code] = true
		if l.EnglishName == "" || l.Name == "" || l.Label == "" {
			t.Errorf("%s: incomplete entry %+v", l.Code, l)
		}
	}
}

func TestDisplayAndEnglishNames(t *testing.T) {
	if got := DisplayName("ja"); got != "日文" {
		t.Errorf("DisplayName(ja) = %q", got)
	}
	if got := EnglishName("zh-TW"); got != "Traditional Chinese" {
		t.Errorf("EnglishName(zh-TW) = %q", got)
	}
	// Unknown tags fall back to the tag itself.
	if got := DisplayName("tlh"); got != "tlh" {
		t.Errorf("DisplayName(tlh) = %q", got)
	}
}
