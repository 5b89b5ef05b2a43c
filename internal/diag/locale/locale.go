// Package locale implements the four-locale diagnostic message catalog
// (English, Japanese, Simplified Chinese, Traditional Chinese) that the
// original toolchain selected via a compile-time feature flag. Here it is
// a runtime-loaded map keyed by Code and a resolved language.Tag, with
// locale matching delegated to golang.org/x/text/language's best-match
// matcher rather than a build-time switch.
package locale

import (
	"ergc/internal/diag"

	"golang.org/x/text/language"
)

// Supported lists the catalog's locales in priority order; index 0 is
// also the fallback any unmatched request resolves to.
var Supported = []language.Tag{
	language.English,
	language.Japanese,
	language.SimplifiedChinese,
	language.TraditionalChinese,
}

var matcher = language.NewMatcher(Supported)

// Resolve maps a requested locale string to the nearest Supported tag.
// requested may be a BCP 47 tag ("ja", "zh-CN") or one of the original
// toolchain's loose aliases ("japanese", "simplified_chinese"); an empty,
// unparseable, or unmatched string resolves to English.
func Resolve(requested string) language.Tag {
	if requested == "" {
		return language.English
	}
	tag, err := language.Parse(resolveAlias(requested))
	if err != nil {
		return language.English
	}
	_, idx, _ := matcher.Match(tag)
	return Supported[idx]
}

func resolveAlias(s string) string {
	switch s {
	case "japanese", "jp":
		return "ja"
	case "simplified_chinese":
		return "zh-CN"
	case "traditional_chinese":
		return "zh-TW"
	case "english":
		return "en"
	default:
		return s
	}
}

// Label returns a short, human-readable name for code in tag's locale,
// falling back to code's English diag.Code.String() form when the
// catalog carries no translation for that pairing.
func Label(code diag.Code, tag language.Tag) string {
	if tag == language.English {
		return code.String()
	}
	if byTag, ok := catalog[code]; ok {
		if s, ok := byTag[tag]; ok {
			return s
		}
	}
	return code.String()
}

// catalog covers the codes a working programmer hits most often; codes
// absent here still render via Label's English fallback.
var catalog = map[diag.Code]map[language.Tag]string{
	diag.SyntaxError: {
		language.Japanese:           "構文エラー",
		language.SimplifiedChinese:  "语法错误",
		language.TraditionalChinese: "語法錯誤",
	},
	diag.TypeError: {
		language.Japanese:           "型エラー",
		language.SimplifiedChinese:  "类型错误",
		language.TraditionalChinese: "類型錯誤",
	},
	diag.NameError: {
		language.Japanese:           "名前エラー",
		language.SimplifiedChinese:  "名称错误",
		language.TraditionalChinese: "名稱錯誤",
	},
	diag.UnboundLocalError: {
		language.Japanese:           "未束縛ローカル変数エラー",
		language.SimplifiedChinese:  "未绑定局部变量错误",
		language.TraditionalChinese: "未綁定區域變數錯誤",
	},
	diag.ValueError: {
		language.Japanese:           "値エラー",
		language.SimplifiedChinese:  "值错误",
		language.TraditionalChinese: "值錯誤",
	},
	diag.KeyError: {
		language.Japanese:           "キーエラー",
		language.SimplifiedChinese:  "键错误",
		language.TraditionalChinese: "鍵錯誤",
	},
	diag.AttributeError: {
		language.Japanese:           "属性エラー",
		language.SimplifiedChinese:  "属性错误",
		language.TraditionalChinese: "屬性錯誤",
	},
	diag.VisibilityError: {
		language.Japanese:           "可視性エラー",
		language.SimplifiedChinese:  "可见性错误",
		language.TraditionalChinese: "可見性錯誤",
	},
	diag.MoveError: {
		language.Japanese:           "ムーブエラー",
		language.SimplifiedChinese:  "移动错误",
		language.TraditionalChinese: "移動錯誤",
	},
	diag.EffectError: {
		language.Japanese:           "副作用エラー",
		language.SimplifiedChinese:  "副作用错误",
		language.TraditionalChinese: "副作用錯誤",
	},
	diag.PurityError: {
		language.Japanese:           "純粋性エラー",
		language.SimplifiedChinese:  "纯粹性错误",
		language.TraditionalChinese: "純粹性錯誤",
	},
	diag.FeatureError: {
		language.Japanese:           "未実装の機能",
		language.SimplifiedChinese:  "未实现的功能",
		language.TraditionalChinese: "未實現的功能",
	},
	diag.CyclicReference: {
		language.Japanese:           "循環参照",
		language.SimplifiedChinese:  "循环引用",
		language.TraditionalChinese: "循環參照",
	},
	diag.DuplicateModule: {
		language.Japanese:           "モジュールの重複",
		language.SimplifiedChinese:  "模块重复",
		language.TraditionalChinese: "模組重複",
	},
}
