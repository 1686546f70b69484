// Package lexicon holds the known-food lexicon used by the name validator,
// the tokenizer's word segmentation, and the container+liquid ambiguity rule.
//
// An entry is a canonical food name ("apple", "牛奶"). Matching tries, in
// order: exact match, plural-insensitive match for ASCII names, substring
// containment in either direction, and finally a phonetic fuzzy match for
// ASCII names (misheard speech such as "appel" still resolves to "apple").
// The fuzzy stage exists because the lexicon consumes voice-transcribed
// text; it never fires for CJK names.
//
// A Lexicon is read-only after construction and safe for concurrent use.
package lexicon

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Option is a functional option for [New].
type Option func(*Lexicon)

// WithFoods adds extra food entries on top of the builtin list.
func WithFoods(names ...string) Option {
	return func(l *Lexicon) {
		l.extraFoods = append(l.extraFoods, names...)
	}
}

// WithLiquids adds extra liquid-food entries on top of the builtin list.
func WithLiquids(names ...string) Option {
	return func(l *Lexicon) {
		l.extraLiquids = append(l.extraLiquids, names...)
	}
}

// WithoutFuzzy disables the phonetic fuzzy-match stage. Exact and substring
// matching still apply.
func WithoutFuzzy() Option {
	return func(l *Lexicon) {
		l.fuzzy = nil
	}
}

// Lexicon is the known-food and liquid-food word list.
type Lexicon struct {
	foods   []string            // sorted longest-first for segmentation
	foodSet map[string]struct{} // lowercase entries
	liquids map[string]struct{}
	fuzzy   *fuzzyMatcher

	extraFoods   []string
	extraLiquids []string
}

// New builds a [Lexicon] from the builtin bilingual entries plus any options.
func New(opts ...Option) *Lexicon {
	l := &Lexicon{fuzzy: newFuzzyMatcher()}
	for _, o := range opts {
		o(l)
	}

	l.foodSet = make(map[string]struct{}, len(builtinFoods)+len(l.extraFoods))
	for _, f := range builtinFoods {
		l.add(f)
	}
	for _, f := range l.extraFoods {
		l.add(f)
	}
	sort.SliceStable(l.foods, func(i, j int) bool {
		return utf8.RuneCountInString(l.foods[i]) > utf8.RuneCountInString(l.foods[j])
	})

	l.liquids = make(map[string]struct{}, len(builtinLiquids)+len(l.extraLiquids))
	for _, f := range builtinLiquids {
		l.liquids[strings.ToLower(f)] = struct{}{}
	}
	for _, f := range l.extraLiquids {
		l.liquids[strings.ToLower(f)] = struct{}{}
	}

	if l.fuzzy != nil {
		l.fuzzy.prepare(l.foods)
	}
	return l
}

func (l *Lexicon) add(name string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return
	}
	if _, dup := l.foodSet[name]; dup {
		return
	}
	l.foodSet[name] = struct{}{}
	l.foods = append(l.foods, name)
}

// Contains reports whether name is exactly a lexicon entry (after lowering
// and plural stripping for ASCII names).
func (l *Lexicon) Contains(name string) bool {
	_, ok := l.lookupExact(name)
	return ok
}

// Match resolves name against the lexicon.
//
// Return values: the canonical form to record for the item, and whether the
// name is recognised as a plausible food at all. Exact (and plural) matches
// canonicalise to the lexicon entry; substring matches keep the caller's
// name, which is more specific than the entry it contains ("apple pie" stays
// "apple pie" even though only "apple" is listed).
func (l *Lexicon) Match(name string) (string, bool) {
	if entry, ok := l.lookupExact(name); ok {
		return entry, true
	}

	lower := strings.ToLower(strings.TrimSpace(name))
	for _, entry := range l.foods {
		if strings.Contains(lower, entry) || strings.Contains(entry, lower) {
			return lower, true
		}
	}

	if l.fuzzy != nil && isASCII(lower) {
		if entry, ok := l.fuzzy.match(lower); ok {
			return entry, true
		}
	}
	return "", false
}

// IsLiquid reports whether name refers to a liquid food. Substring matching
// applies in both directions so "whole milk" and "奶" context both resolve.
func (l *Lexicon) IsLiquid(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return false
	}
	if _, ok := l.liquids[lower]; ok {
		return true
	}
	if s := singularize(lower); s != lower {
		if _, ok := l.liquids[s]; ok {
			return true
		}
	}
	for liq := range l.liquids {
		// Single-rune entries (水, 油, 茶) only match exactly; as substrings
		// they would flag 牛油果 or 黄油 as liquids.
		if utf8.RuneCountInString(liq) < 2 {
			continue
		}
		if strings.Contains(lower, liq) {
			return true
		}
	}
	return false
}

// MatchPrefix returns the longest lexicon entry that s begins with. Used by
// the tokenizer to segment food names out of unspaced CJK runs. Returns ""
// when no entry matches.
func (l *Lexicon) MatchPrefix(s string) string {
	lower := strings.ToLower(s)
	for _, entry := range l.foods {
		if strings.HasPrefix(lower, entry) {
			return entry
		}
	}
	return ""
}

// lookupExact tries exact and plural-insensitive lookup, returning the
// canonical entry.
func (l *Lexicon) lookupExact(name string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return "", false
	}
	if _, ok := l.foodSet[lower]; ok {
		return lower, true
	}
	if s := singularize(lower); s != lower {
		if _, ok := l.foodSet[s]; ok {
			return s, true
		}
	}
	return "", false
}

// singularize strips common English plural suffixes. It is intentionally
// naive; the lexicon stores singular forms, so only -s/-es/-ies need undoing.
func singularize(name string) string {
	switch {
	case strings.HasSuffix(name, "ies") && len(name) > 3:
		return name[:len(name)-3] + "y"
	case strings.HasSuffix(name, "oes") || strings.HasSuffix(name, "ses") || strings.HasSuffix(name, "xes"):
		return name[:len(name)-2]
	case strings.HasSuffix(name, "s") && !strings.HasSuffix(name, "ss") && len(name) > 2:
		return name[:len(name)-1]
	}
	return name
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}

// builtinFoods is the default bilingual known-food list. The surrounding
// application extends it from user history via [WithFoods].
var builtinFoods = []string{
	// English
	"apple", "banana", "orange", "grape", "strawberry", "blueberry", "pear",
	"peach", "mango", "watermelon", "lemon", "cherry", "avocado",
	"tomato", "potato", "onion", "garlic", "carrot", "cucumber", "lettuce",
	"spinach", "broccoli", "cabbage", "mushroom", "pepper", "corn", "celery",
	"beef", "pork", "chicken", "lamb", "duck", "bacon", "ham", "sausage",
	"fish", "salmon", "shrimp", "crab", "tuna", "cod",
	"milk", "yogurt", "cheese", "butter", "cream", "egg",
	"rice", "noodle", "bread", "flour", "oat", "pasta",
	"juice", "water", "soda", "cola", "beer", "wine", "coffee", "tea",
	"oil", "soy sauce", "vinegar", "ketchup", "sugar", "salt", "honey",
	"tofu", "chocolate", "cookie", "chip", "ice cream",
	// Chinese
	"苹果", "香蕉", "橙子", "葡萄", "草莓", "蓝莓", "梨", "桃子", "芒果",
	"西瓜", "柠檬", "樱桃", "牛油果",
	"西红柿", "番茄", "土豆", "洋葱", "大蒜", "胡萝卜", "黄瓜", "生菜",
	"菠菜", "西兰花", "白菜", "蘑菇", "辣椒", "玉米", "芹菜", "青菜",
	"牛肉", "猪肉", "鸡肉", "羊肉", "鸭肉", "培根", "火腿", "香肠", "排骨",
	"鱼", "三文鱼", "虾", "螃蟹", "带鱼", "鲈鱼",
	"牛奶", "酸奶", "奶酪", "黄油", "奶油", "鸡蛋", "豆腐", "豆浆",
	"米", "大米", "面条", "面包", "面粉", "燕麦",
	"果汁", "水", "汽水", "可乐", "啤酒", "红酒", "咖啡", "茶",
	"油", "酱油", "醋", "番茄酱", "糖", "盐", "蜂蜜",
	"巧克力", "饼干", "薯片", "冰淇淋",
}

// builtinLiquids is the default liquid-food list driving the container
// ambiguity rule. Entries must also appear in builtinFoods.
var builtinLiquids = []string{
	"milk", "juice", "water", "soda", "cola", "beer", "wine", "coffee", "tea",
	"oil", "soy sauce", "vinegar", "cream",
	"牛奶", "酸奶", "果汁", "水", "汽水", "可乐", "啤酒", "红酒", "咖啡",
	"茶", "油", "酱油", "醋", "豆浆", "奶油",
}
