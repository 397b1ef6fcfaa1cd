package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// KeywordPair links a token expected in a tracked name with a token expected
// in a candidate name. When both appear, the pair counts as a match. These
// tables are domain data, not logic; they are replaceable per storefront.
type KeywordPair struct {
	Tracked   string `json:"tracked"`
	Candidate string `json:"candidate"`
}

// Catalog is the tracked-product list plus the keyword tables the matcher
// uses. It is loaded once per run and treated as immutable afterwards.
type Catalog struct {
	Products            []string      `json:"products"`
	BrandKeywords       []KeywordPair `json:"brand_keywords"`
	ProductTypeKeywords []KeywordPair `json:"product_type_keywords"`
}

// LoadCatalog builds the catalog from TRACKED_PRODUCTS (a JSON array of
// names) and CATALOG_FILE (a JSON Catalog document). Either may be absent;
// missing pieces fall back to the built-in grocery defaults.
func LoadCatalog() (*Catalog, error) {
	catalog := &Catalog{
		Products:            defaultTrackedProducts,
		BrandKeywords:       defaultBrandKeywords,
		ProductTypeKeywords: defaultProductTypeKeywords,
	}

	if path := os.Getenv("CATALOG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog file %s: %v", path, err)
		}
		var loaded Catalog
		if err := json.Unmarshal(data, &loaded); err != nil {
			return nil, fmt.Errorf("failed to parse catalog file %s: %v", path, err)
		}
		if len(loaded.Products) > 0 {
			catalog.Products = loaded.Products
		}
		if len(loaded.BrandKeywords) > 0 {
			catalog.BrandKeywords = loaded.BrandKeywords
		}
		if len(loaded.ProductTypeKeywords) > 0 {
			catalog.ProductTypeKeywords = loaded.ProductTypeKeywords
		}
	}

	// TRACKED_PRODUCTS overrides the product list only.
	if raw := os.Getenv("TRACKED_PRODUCTS"); raw != "" {
		var products []string
		if err := json.Unmarshal([]byte(raw), &products); err == nil && len(products) > 0 {
			catalog.Products = products
		}
	}

	return catalog, nil
}

// KeywordPairs returns both keyword tables as one list, brands first.
func (c *Catalog) KeywordPairs() []KeywordPair {
	pairs := make([]KeywordPair, 0, len(c.BrandKeywords)+len(c.ProductTypeKeywords))
	pairs = append(pairs, c.BrandKeywords...)
	pairs = append(pairs, c.ProductTypeKeywords...)
	return pairs
}

// defaultTrackedProducts is the stock Indian grocery list the tracker ships
// with. Replace it via TRACKED_PRODUCTS or CATALOG_FILE.
var defaultTrackedProducts = []string{
	// Fresh Vegetables
	"Indian Eggplant 2 lb",
	"Indian Bitter Melon 2 lb",
	"Indian okra 0.9-1.1 lb",
	"Red onions 2 lb bag",
	"Roma tomatoes 2 lb bag",
	"Fresh ginger 0.95-1.05 lb",
	"Green onion 1 bunch",
	"Cauliflower 1 head",
	"Spinach 1 bunch",
	"Sleeved garlic pack 5 ct",
	"Green cabbage 1 head",
	"Yellow onion 3 lb bag",
	"Persian cucumbers 0.9-1.1 lb",
	"Idaho russet potatoes 5 lb",
	"Green bell pepper",
	"Opo squash 1 pc",
	"Green beans 0.9-1.1 lb",
	"Carrots 2 lb bag",

	// Fresh Herbs
	"Cilantro 1 bunch",
	"Curry leaves 0.25 oz",
	"Mint 1 bunch",

	// Fresh Fruits
	"Bananas 2.6-3 lb",

	// Fresh Chilies
	"Mini spicy green chilies 226 g bag",

	// Instant Noodles
	"Maggi Masala instant noodles 9.8 oz",

	// Frozen Items
	"Deep Paneer Paratha Frozen 4 pcs 13 oz",
	"Deep Bhagwati's Methi Thepla 9 oz",
	"Deep ClayOven Tandoori Naan Family Pack 42.4 oz",
	"Deep Family Pack Homestyle Paratha 20 pcs 46 oz",
	"Franco uncooked phulka 18 pcs 1.31 lb",

	// Rice Products
	"Laxmi Poha Flattened Rice Thick 4 lb",
	"Shastha Dosa Batter 32 oz",
	"India Gate Basmati Rice",
	"Laxmi Idli Rice 20 lb",
	"Regal Sona Masoori Rice 20 lb",
	"Laxmi Ponni Boiled Rice 20 lb",

	// Flour Products
	"Aashirvaad Whole Wheat Atta Flour 20 lb",
	"Laxmi Besan gram flour 2 lb",

	// Pulses/Lentils
	"Laxmi Toor Dal Split Pigeon Peas 4 lb",
	"Laxmi Moong Dal Skinned mung beans 4 lb",
	"Laxmi Yellow Split Peas 4 lb",
	"Laxmi Urad Dal Split 4 lb",
	"Laxmi Chana Dal 4 lb",
	"Laxmi Kabuli Chana chickpeas 4 lb",
	"Laxmi Kala Chana black chickpeas 4 lb",
	"Laxmi Urad Gota black whole lentil 4 lb",
	"Laxmi Urad Dal skinned 4 lb",
	"Laxmi Sabudana tapioca 4 lb",

	// Dairy Products
	"Vadilal Paneer Block",
	"Nanak Plain Paneer 400 g",
	"Pavel's whole-milk yogurt 32 oz",
	"Amul Ghee clarified butter",

	// Snacks
	"Garvi Gujarat Gujarati Chakri 10 oz",
	"Kurkure Masala Munch chips",
	"Kurkure Chilli Chatka chips",
	"Lay's Magic Masala chips 1.82 oz",
	"Laxmi Puffed Rice 14 oz",

	// Condiments/Sauces
	"Ching's Schezwan chutney",
	"Lee Kum Kee Supreme Soy Sauce 500 ml",

	// Spices
	"Aara Cumin Seeds",

	// Fish
	"TSF Barramundi Whole Cleaned 500-550 g",
}

var defaultBrandKeywords = []KeywordPair{
	{"maggi", "maggi"},
	{"lee kum", "lee kum"},
	{"soy sauce", "soy"},
	{"noodles", "noodles"},
	{"barramundi", "barramundi"},
	{"tsf", "tsf"},
	{"laxmi", "laxmi"},
	{"deep", "deep"},
	{"aashirvaad", "aashirvaad"},
	{"india gate", "india gate"},
	{"regal", "regal"},
	{"pavel", "pavel"},
	{"amul", "amul"},
	{"vadilal", "vadilal"},
	{"nanak", "nanak"},
	{"garvi gujarat", "garvi"},
	{"kurkure", "kurkure"},
	{"lay", "lay"},
	{"ching", "ching"},
	{"aara", "aara"},
	{"shastha", "shastha"},
	{"franco", "franco"},
}

var defaultProductTypeKeywords = []KeywordPair{
	{"paneer", "paneer"},
	{"ghee", "ghee"},
	{"yogurt", "yogurt"},
	{"rice", "rice"},
	{"flour", "flour"},
	{"atta", "atta"},
	{"besan", "besan"},
	{"dal", "dal"},
	{"chana", "chana"},
	{"urad", "urad"},
	{"moong", "moong"},
	{"toor", "toor"},
	{"sabudana", "sabudana"},
	{"poha", "poha"},
	{"paratha", "paratha"},
	{"naan", "naan"},
	{"thepla", "thepla"},
	{"phulka", "phulka"},
	{"dosa", "dosa"},
	{"idli", "idli"},
	{"chakri", "chakri"},
	{"chips", "chips"},
	{"cumin", "cumin"},
	{"eggplant", "eggplant"},
	{"okra", "okra"},
	{"onion", "onion"},
	{"tomato", "tomato"},
	{"ginger", "ginger"},
	{"garlic", "garlic"},
	{"cabbage", "cabbage"},
	{"cucumber", "cucumber"},
	{"potato", "potato"},
	{"bell pepper", "pepper"},
	{"squash", "squash"},
	{"beans", "beans"},
	{"carrot", "carrot"},
	{"cilantro", "cilantro"},
	{"curry leaves", "curry"},
	{"mint", "mint"},
	{"banana", "banana"},
	{"chilies", "chili"},
	{"chilli", "chili"},
}
