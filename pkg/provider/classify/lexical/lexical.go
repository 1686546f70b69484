// Package lexical provides a deterministic, offline classification provider
// backed by bilingual keyword tables. It needs no network and never fails,
// which makes it the natural fallback behind an LLM-backed classifier: a
// keyword miss degrades to [types.CategoryOther] instead of an error.
package lexical

import (
	"context"
	"strings"

	"github.com/pantryvox/pantryvox/pkg/provider/classify"
	"github.com/pantryvox/pantryvox/pkg/types"
)

// Provider implements classify.Provider with substring keyword matching.
// The zero value is not usable; construct with [New].
type Provider struct {
	rules []rule
}

// Compile-time interface check.
var _ classify.Provider = (*Provider)(nil)

type rule struct {
	keyword  string
	category types.FoodCategory
	emoji    string
}

// New creates a lexical classification provider with the builtin tables.
func New() *Provider {
	return &Provider{rules: builtinRules}
}

// ClassifyBatch implements classify.Provider. It never returns an error;
// unknown names classify as [types.CategoryOther] with no emoji.
func (p *Provider) ClassifyBatch(ctx context.Context, names []string) ([]classify.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := make([]classify.Result, len(names))
	for i, name := range names {
		results[i] = p.classify(name)
	}
	return results, nil
}

func (p *Provider) classify(name string) classify.Result {
	lower := strings.ToLower(strings.TrimSpace(name))
	if lower == "" {
		return classify.Result{Category: types.CategoryOther}
	}
	for _, r := range p.rules {
		if strings.Contains(lower, r.keyword) {
			return classify.Result{Category: r.category, Emoji: r.emoji}
		}
	}
	return classify.Result{Category: types.CategoryOther}
}

// builtinRules is scanned in order; more specific keywords come before the
// generic ones they contain (牛奶 before 牛, "soy sauce" before "soy").
var builtinRules = []rule{
	// Most-specific first: several compound words embed keywords of an
	// entirely different category ("ice cream" vs "cream", 黄油 vs 油).
	{"soy sauce", types.CategoryCondiment, "🧂"},
	{"ice cream", types.CategorySnack, "🍨"},
	{"冰淇淋", types.CategorySnack, "🍨"},
	{"牛油果", types.CategoryFruit, "🥑"},
	{"黄油", types.CategoryDairy, "🧈"},
	{"牛奶", types.CategoryDairy, "🥛"},
	{"酸奶", types.CategoryDairy, "🥛"},
	{"奶酪", types.CategoryDairy, "🧀"},
	{"奶油", types.CategoryDairy, "🧈"},
	{"豆浆", types.CategoryDairy, "🥛"},
	{"milk", types.CategoryDairy, "🥛"},
	{"yogurt", types.CategoryDairy, "🥛"},
	{"cheese", types.CategoryDairy, "🧀"},
	{"butter", types.CategoryDairy, "🧈"},
	{"cream", types.CategoryDairy, "🍦"},

	// Eggs.
	{"鸡蛋", types.CategoryEgg, "🥚"},
	{"egg", types.CategoryEgg, "🥚"},

	// Seafood before meat: 鱼 would otherwise be shadowed by nothing, but
	// "带鱼"/"三文鱼" must not hit the meat keywords below.
	{"三文鱼", types.CategorySeafood, "🐟"},
	{"salmon", types.CategorySeafood, "🐟"},
	{"shrimp", types.CategorySeafood, "🦐"},
	{"crab", types.CategorySeafood, "🦀"},
	{"tuna", types.CategorySeafood, "🐟"},
	{"cod", types.CategorySeafood, "🐟"},
	{"fish", types.CategorySeafood, "🐟"},
	{"虾", types.CategorySeafood, "🦐"},
	{"螃蟹", types.CategorySeafood, "🦀"},
	{"鱼", types.CategorySeafood, "🐟"},

	// Meat.
	{"牛肉", types.CategoryMeat, "🥩"},
	{"猪肉", types.CategoryMeat, "🥩"},
	{"鸡肉", types.CategoryMeat, "🍗"},
	{"羊肉", types.CategoryMeat, "🥩"},
	{"鸭", types.CategoryMeat, "🦆"},
	{"排骨", types.CategoryMeat, "🥩"},
	{"培根", types.CategoryMeat, "🥓"},
	{"火腿", types.CategoryMeat, "🍖"},
	{"香肠", types.CategoryMeat, "🌭"},
	{"beef", types.CategoryMeat, "🥩"},
	{"pork", types.CategoryMeat, "🥩"},
	{"chicken", types.CategoryMeat, "🍗"},
	{"lamb", types.CategoryMeat, "🥩"},
	{"duck", types.CategoryMeat, "🦆"},
	{"bacon", types.CategoryMeat, "🥓"},
	{"ham", types.CategoryMeat, "🍖"},
	{"sausage", types.CategoryMeat, "🌭"},

	// Fruit.
	{"苹果", types.CategoryFruit, "🍎"},
	{"香蕉", types.CategoryFruit, "🍌"},
	{"橙子", types.CategoryFruit, "🍊"},
	{"葡萄", types.CategoryFruit, "🍇"},
	{"草莓", types.CategoryFruit, "🍓"},
	{"蓝莓", types.CategoryFruit, "🫐"},
	{"西瓜", types.CategoryFruit, "🍉"},
	{"柠檬", types.CategoryFruit, "🍋"},
	{"樱桃", types.CategoryFruit, "🍒"},
	{"桃子", types.CategoryFruit, "🍑"},
	{"芒果", types.CategoryFruit, "🥭"},
	{"梨", types.CategoryFruit, "🍐"},
	{"apple", types.CategoryFruit, "🍎"},
	{"banana", types.CategoryFruit, "🍌"},
	{"orange", types.CategoryFruit, "🍊"},
	{"grape", types.CategoryFruit, "🍇"},
	{"strawberry", types.CategoryFruit, "🍓"},
	{"blueberry", types.CategoryFruit, "🫐"},
	{"watermelon", types.CategoryFruit, "🍉"},
	{"lemon", types.CategoryFruit, "🍋"},
	{"cherry", types.CategoryFruit, "🍒"},
	{"peach", types.CategoryFruit, "🍑"},
	{"mango", types.CategoryFruit, "🥭"},
	{"avocado", types.CategoryFruit, "🥑"},
	{"pear", types.CategoryFruit, "🍐"},

	// Vegetables.
	{"西红柿", types.CategoryVegetable, "🍅"},
	{"番茄", types.CategoryVegetable, "🍅"},
	{"土豆", types.CategoryVegetable, "🥔"},
	{"洋葱", types.CategoryVegetable, "🧅"},
	{"大蒜", types.CategoryVegetable, "🧄"},
	{"胡萝卜", types.CategoryVegetable, "🥕"},
	{"黄瓜", types.CategoryVegetable, "🥒"},
	{"生菜", types.CategoryVegetable, "🥬"},
	{"菠菜", types.CategoryVegetable, "🥬"},
	{"白菜", types.CategoryVegetable, "🥬"},
	{"青菜", types.CategoryVegetable, "🥬"},
	{"西兰花", types.CategoryVegetable, "🥦"},
	{"蘑菇", types.CategoryVegetable, "🍄"},
	{"辣椒", types.CategoryVegetable, "🌶️"},
	{"玉米", types.CategoryVegetable, "🌽"},
	{"芹菜", types.CategoryVegetable, "🥬"},
	{"豆腐", types.CategoryVegetable, "🍲"},
	{"tomato", types.CategoryVegetable, "🍅"},
	{"potato", types.CategoryVegetable, "🥔"},
	{"onion", types.CategoryVegetable, "🧅"},
	{"garlic", types.CategoryVegetable, "🧄"},
	{"carrot", types.CategoryVegetable, "🥕"},
	{"cucumber", types.CategoryVegetable, "🥒"},
	{"lettuce", types.CategoryVegetable, "🥬"},
	{"spinach", types.CategoryVegetable, "🥬"},
	{"cabbage", types.CategoryVegetable, "🥬"},
	{"broccoli", types.CategoryVegetable, "🥦"},
	{"mushroom", types.CategoryVegetable, "🍄"},
	{"pepper", types.CategoryVegetable, "🌶️"},
	{"corn", types.CategoryVegetable, "🌽"},
	{"celery", types.CategoryVegetable, "🥬"},
	{"tofu", types.CategoryVegetable, "🍲"},

	// Grain and staples.
	{"面条", types.CategoryGrain, "🍜"},
	{"面包", types.CategoryGrain, "🍞"},
	{"面粉", types.CategoryGrain, "🌾"},
	{"大米", types.CategoryGrain, "🍚"},
	{"燕麦", types.CategoryGrain, "🌾"},
	{"米", types.CategoryGrain, "🍚"},
	{"noodle", types.CategoryGrain, "🍜"},
	{"bread", types.CategoryGrain, "🍞"},
	{"flour", types.CategoryGrain, "🌾"},
	{"pasta", types.CategoryGrain, "🍝"},
	{"oat", types.CategoryGrain, "🌾"},
	{"rice", types.CategoryGrain, "🍚"},

	// Beverages.
	{"果汁", types.CategoryBeverage, "🧃"},
	{"可乐", types.CategoryBeverage, "🥤"},
	{"汽水", types.CategoryBeverage, "🥤"},
	{"啤酒", types.CategoryBeverage, "🍺"},
	{"红酒", types.CategoryBeverage, "🍷"},
	{"咖啡", types.CategoryBeverage, "☕"},
	{"juice", types.CategoryBeverage, "🧃"},
	{"cola", types.CategoryBeverage, "🥤"},
	{"soda", types.CategoryBeverage, "🥤"},
	{"beer", types.CategoryBeverage, "🍺"},
	{"wine", types.CategoryBeverage, "🍷"},
	{"coffee", types.CategoryBeverage, "☕"},
	{"tea", types.CategoryBeverage, "🍵"},
	{"茶", types.CategoryBeverage, "🍵"},
	{"water", types.CategoryBeverage, "💧"},
	{"水", types.CategoryBeverage, "💧"},

	// Condiments.
	{"酱油", types.CategoryCondiment, "🧂"},
	{"番茄酱", types.CategoryCondiment, "🥫"},
	{"蜂蜜", types.CategoryCondiment, "🍯"},
	{"醋", types.CategoryCondiment, "🧂"},
	{"糖", types.CategoryCondiment, "🧂"},
	{"盐", types.CategoryCondiment, "🧂"},
	{"油", types.CategoryCondiment, "🫗"},
	{"vinegar", types.CategoryCondiment, "🧂"},
	{"ketchup", types.CategoryCondiment, "🥫"},
	{"honey", types.CategoryCondiment, "🍯"},
	{"sugar", types.CategoryCondiment, "🧂"},
	{"salt", types.CategoryCondiment, "🧂"},
	{"oil", types.CategoryCondiment, "🫗"},

	// Snacks.
	{"巧克力", types.CategorySnack, "🍫"},
	{"饼干", types.CategorySnack, "🍪"},
	{"薯片", types.CategorySnack, "🍟"},
	{"chocolate", types.CategorySnack, "🍫"},
	{"cookie", types.CategorySnack, "🍪"},
	{"chip", types.CategorySnack, "🍟"},
}
