package locale_test

import (
	"testing"

	"ergc/internal/diag"
	"ergc/internal/diag/locale"

	"golang.org/x/text/language"
)

func TestResolveAliasesAndFallback(t *testing.T) {
	cases := []struct {
		requested string
		want      language.Tag
	}{
		{"", language.English},
		{"en", language.English},
		{"ja", language.Japanese},
		{"japanese", language.Japanese},
		{"zh-CN", language.SimplifiedChinese},
		{"simplified_chinese", language.SimplifiedChinese},
		{"zh-TW", language.TraditionalChinese},
		{"traditional_chinese", language.TraditionalChinese},
		{"not-a-real-tag!!", language.English},
	}
	for _, c := range cases {
		if got := locale.Resolve(c.requested); got != c.want {
			t.Errorf("Resolve(%q) = %v, want %v", c.requested, got, c.want)
		}
	}
}

func TestLabelFallsBackToEnglishName(t *testing.T) {
	if got := locale.Label(diag.TypeError, language.Japanese); got != "型エラー" {
		t.Errorf("Label(TypeError, ja) = %q", got)
	}
	if got := locale.Label(diag.TypeError, language.English); got != diag.TypeError.String() {
		t.Errorf("Label(TypeError, en) = %q, want %q", got, diag.TypeError.String())
	}
	// LexBadNumber has no catalog entry: every locale falls back to the
	// English machine name rather than panicking on a missing key.
	if got := locale.Label(diag.LexBadNumber, language.SimplifiedChinese); got != diag.LexBadNumber.String() {
		t.Errorf("Label(LexBadNumber, zh-CN) = %q, want %q", got, diag.LexBadNumber.String())
	}
}
