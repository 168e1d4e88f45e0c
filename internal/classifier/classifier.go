// Package classifier assigns one of ten fixed category labels to a raw
// comment text using a deterministic, ordered rule cascade. Same text in,
// same category out, always.
package classifier

import (
	"regexp"
	"strings"
)

// Category is one of the ten built-in comment category labels.
type Category string

const (
	CategoryA Category = "A" // stock / availability inquiry
	CategoryB Category = "B" // spec / pricing inquiry
	CategoryC Category = "C" // event / how-to inquiry
	CategoryD Category = "D" // praise / engagement
	CategoryE Category = "E" // complaint
	CategoryF Category = "F" // abusive language
	CategoryG Category = "G" // tagging / banter
	CategoryH Category = "H" // low-content / emoji-only
	CategoryI Category = "I" // spam / links
	CategoryJ Category = "J" // non-Chinese content
)

// DefaultCategory is returned when no check in the cascade fires, including
// for the empty string.
const DefaultCategory = CategoryH

// Pattern binds a category to its keyword list. Patterns iterates in declared
// order and the first matching category wins, so the slice order is a
// tie-break policy, not just storage layout.
type Pattern struct {
	Category    Category
	Keywords    []string
	Description string
}

// Patterns is the fixed keyword table consulted by the cascade, after the
// script, emoji-only and mention checks.
var Patterns = []Pattern{
	{CategoryA, []string{"缺貨", "沒有", "賣完", "沒現貨", "什麼時候有", "有貨嗎", "還有嗎", "買不到"}, "商品賣不到 / 缺貨"},
	{CategoryB, []string{"規格", "尺寸", "顏色", "多少錢", "價格", "怎麼買", "價位", "材質", "怎麼訂"}, "商品規格詢問"},
	{CategoryC, []string{"活動", "怎麼參加", "解法", "方法", "如何", "規則", "抽獎", "參加"}, "活動參加 / 解法詢問"},
	{CategoryD, []string{"讚", "好棒", "厲害", "喜歡", "太棒了", "支持", "加油", "👍", "❤️", "🔥"}, "稱讚 / 互動"},
	{CategoryE, []string{"爛", "差", "不好", "糟糕", "騙人", "垃圾", "難用", "後悔", "退貨", "不推薦"}, "負面評論 / 抱怨"},
	{CategoryF, []string{"幹", "操", "靠", "白癡", "智障", "死", "滾", "低能", "白痴", "混蛋"}, "攻擊 / 不雅詞彙"},
	{CategoryG, []string{"@", "標記", "朋友", "看看", "哈哈", "笑死", "😂", "🤣", "😭"}, "Tag 朋友 / 開玩笑"},
	{CategoryH, []string{"😍", "😘", "🥰", "😊", "😄", "😆", "🤔", "😴", "🙄"}, "無意義留言 / 表情符號"},
	{CategoryI, []string{"line", "http", "www", ".com", "ig", "facebook", "fb", "連結", "加line"}, "廣告 / Spam / 連結"},
	{CategoryJ, []string{"hello", "thank", "good", "nice", "love", "great", "awesome", "amazing"}, "英文 / 非中文留言"},
}

var (
	latinRe = regexp.MustCompile(`[a-zA-Z]`)
	cjkRe   = regexp.MustCompile(`[\x{4e00}-\x{9fff}]`)

	// Whitespace plus the emoji/symbol blocks the classifier treats as
	// low-content. The + quantifier means the empty string never matches
	// and falls through to DefaultCategory instead.
	emojiOnlyRe = regexp.MustCompile(`^[\s\x{1F600}-\x{1F64F}\x{1F300}-\x{1F5FF}\x{1F680}-\x{1F6FF}\x{1F1E0}-\x{1F1FF}\x{2600}-\x{26FF}\x{2700}-\x{27BF}]+$`)
)

// Classify maps a comment text to exactly one category. It is total and
// deterministic: no input errors out, and keyword matching is a raw
// case-sensitive substring check because case-folding is a no-op for the
// primary script and lowercasing would corrupt the comparison.
func Classify(text string) Category {
	// Latin-script text with no CJK ideographs is foreign-language content,
	// no matter which keywords it would otherwise hit.
	if latinRe.MatchString(text) && !cjkRe.MatchString(text) {
		return CategoryJ
	}

	// Emoji-only is decided before the mention check: "@" inside a pure
	// emoji comment still counts as low-content.
	if emojiOnlyRe.MatchString(text) {
		return CategoryH
	}

	if strings.Contains(text, "@") {
		return CategoryG
	}

	for _, p := range Patterns {
		for _, kw := range p.Keywords {
			if strings.Contains(text, kw) {
				return p.Category
			}
		}
	}

	return DefaultCategory
}
