package liquidate

import "strings"

// Kind is the category class an item falls into for decision purposes.
type Kind string

// Kinds, in classification priority order.
const (
	KindJewelry      Kind = "jewelry"
	KindRug          Kind = "rug"
	KindFurniture    Kind = "furniture"
	KindElectronics  Kind = "electronics"
	KindArt          Kind = "art"
	KindChinaCrystal Kind = "chinaCrystal"
	KindGeneral      Kind = "general"
)

// Profile carries the static risk and friendliness attributes of a kind.
type Profile struct {
	Kind              Kind
	LocalFriendly     bool
	ShippingRiskHigh  bool
	Bulky             bool
	BulkyQtyThreshold int // 0 disables the quantity trigger
	Note              string
}

type categoryRule struct {
	profile  Profile
	keywords []string
}

// Rules are evaluated first-match in this order; the order is part of the
// contract (a rug description mentioning a TV still classifies as rug).
var categoryRules = []categoryRule{
	{
		profile: Profile{
			Kind:              KindJewelry,
			LocalFriendly:     false,
			ShippingRiskHigh:  false,
			Bulky:             false,
			BulkyQtyThreshold: 0,
			Note:              "Jewelry and luxury pieces hold value density and ship insurably.",
		},
		keywords: []string{
			"jewelry", "jewellery", "ring", "necklace", "bracelet", "earring",
			"brooch", "pendant", "gold", "silver", "platinum", "diamond",
			"gemstone", "luxury watch", "designer bag", "luxury handbag",
		},
	},
	{
		profile: Profile{
			Kind:              KindRug,
			LocalFriendly:     true,
			ShippingRiskHigh:  true,
			Bulky:             false,
			BulkyQtyThreshold: 4,
			Note:              "Rugs are heavy to ship and sell best to local or specialist buyers.",
		},
		keywords: []string{"rug", "carpet", "kilim", "runner rug", "tapestry"},
	},
	{
		profile: Profile{
			Kind:              KindFurniture,
			LocalFriendly:     true,
			ShippingRiskHigh:  true,
			Bulky:             true,
			BulkyQtyThreshold: 1,
			Note:              "Large furniture and appliances move through local pickup, not parcels.",
		},
		keywords: []string{
			"furniture", "dresser", "sofa", "couch", "sectional", "recliner",
			"dining table", "coffee table", "cabinet", "wardrobe", "armoire",
			"sideboard", "bookcase", "bed frame", "mattress", "appliance",
			"refrigerator", "fridge", "freezer", "washer", "dryer",
			"dishwasher", "oven", "stove", "piano",
		},
	},
	{
		profile: Profile{
			Kind:              KindElectronics,
			LocalFriendly:     false,
			ShippingRiskHigh:  false,
			Bulky:             false,
			BulkyQtyThreshold: 6,
			Note:              "Electronics need working-condition proof and lose value quickly.",
		},
		keywords: []string{
			"electronics", "laptop", "computer", "desktop", "monitor", "phone",
			"tablet", "tv", "television", "camera", "lens", "console",
			"stereo", "speaker", "amplifier", "turntable", "printer", "drone",
		},
	},
	{
		profile: Profile{
			Kind:              KindArt,
			LocalFriendly:     false,
			ShippingRiskHigh:  true,
			Bulky:             false,
			BulkyQtyThreshold: 8,
			Note:              "Art and collectibles reward provenance research and careful packing.",
		},
		keywords: []string{
			"art", "painting", "print", "lithograph", "sculpture", "collectible",
			"antique", "coin", "stamp", "figurine", "memorabilia", "first edition",
		},
	},
	{
		profile: Profile{
			Kind:              KindChinaCrystal,
			LocalFriendly:     true,
			ShippingRiskHigh:  true,
			Bulky:             false,
			BulkyQtyThreshold: 24,
			Note:              "China and crystal sets are fragile and sell best complete.",
		},
		keywords: []string{
			"china", "crystal", "porcelain", "glassware", "dinnerware",
			"stemware", "tea set", "serving set",
		},
	},
}

var generalProfile = Profile{
	Kind:              KindGeneral,
	LocalFriendly:     false,
	ShippingRiskHigh:  false,
	Bulky:             false,
	BulkyQtyThreshold: 12,
	Note:              "Everyday items compete with plentiful supply; pricing drives speed.",
}

// Bulky-keyword matches in the description force the bulky flag regardless of
// the classified kind.
var bulkyKeywords = []string{
	"dresser", "sofa", "table", "cabinet", "wardrobe", "sideboard",
	"armoire", "sectional", "mattress",
}

// Hard-to-sell keywords push low-value lots toward donation.
var hardToSellKeywords = []string{"fast fashion", "old dvd", "vhs", "magazine"}

// Classify matches the category label and description against the keyword
// rules and returns the first matching profile, or the general profile.
func Classify(category, description string) Profile {
	haystack := strings.ToLower(category + " " + description)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				return rule.profile
			}
		}
	}
	return generalProfile
}

func containsAny(haystack string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// Tier buckets an owner's estimated total value.
type Tier string

// Tiers, lowest to highest.
const (
	TierMicro Tier = "micro"
	TierLow   Tier = "low"
	TierMid   Tier = "mid"
	TierHigh  Tier = "high"
	TierUltra Tier = "ultra"
)

// jewelryTierAdjust nudges jewelry across tier boundaries; value density
// makes a borderline piece worth treating one bracket up.
const jewelryTierAdjust = 1.05

// tierFor buckets an adjusted total value.
func tierFor(total float64) Tier {
	switch {
	case total < 50:
		return TierMicro
	case total < 200:
		return TierLow
	case total < 1000:
		return TierMid
	case total < 5000:
		return TierHigh
	default:
		return TierUltra
	}
}
