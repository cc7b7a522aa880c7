package liquidate

import "testing"

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		category    string
		description string
		want        Kind
	}{
		{"Jewelry", "14k gold ring", KindJewelry},
		{"decor", "vintage brooch", KindJewelry},
		{"Rug", "hand-knotted wool", KindRug},
		{"Rug", "hand-knotted wool, shown next to a tv", KindRug},
		{"Furniture", "large oak dresser", KindFurniture},
		{"Appliances", "kenmore washer and dryer", KindFurniture},
		{"Electronics", "used laptop, worn", KindElectronics},
		{"Art", "signed lithograph", KindArt},
		{"Hobby", "rare coin collection", KindArt},
		{"Kitchen", "porcelain dinnerware service for twelve", KindChinaCrystal},
		{"Misc", "box of odds and ends", KindGeneral},
		{"", "", KindGeneral},
	}
	for _, tt := range tests {
		got := Classify(tt.category, tt.description)
		if got.Kind != tt.want {
			t.Errorf("Classify(%q, %q) = %s, want %s", tt.category, tt.description, got.Kind, tt.want)
		}
	}
}

func TestClassifyProfiles(t *testing.T) {
	furniture := Classify("Furniture", "oak dresser")
	if !furniture.Bulky || !furniture.ShippingRiskHigh || !furniture.LocalFriendly {
		t.Errorf("furniture profile = %+v, want bulky, shipping-risky, local-friendly", furniture)
	}

	jewelry := Classify("Jewelry", "gold ring")
	if jewelry.Bulky || jewelry.ShippingRiskHigh || jewelry.LocalFriendly {
		t.Errorf("jewelry profile = %+v, want none of bulky/shipping-risky/local-friendly", jewelry)
	}
	if jewelry.BulkyQtyThreshold != 0 {
		t.Errorf("jewelry bulky quantity threshold = %d, want disabled", jewelry.BulkyQtyThreshold)
	}

	rug := Classify("Rug", "persian carpet")
	if !rug.ShippingRiskHigh || rug.Bulky {
		t.Errorf("rug profile = %+v, want shipping-risky but not inherently bulky", rug)
	}
}

func TestTierBoundaries(t *testing.T) {
	tests := []struct {
		total float64
		want  Tier
	}{
		{0, TierMicro},
		{49.99, TierMicro},
		{50, TierLow},
		{199.99, TierLow},
		{200, TierMid},
		{999.99, TierMid},
		{1000, TierHigh},
		{4999.99, TierHigh},
		{5000, TierUltra},
		{123456, TierUltra},
	}
	for _, tt := range tests {
		if got := tierFor(tt.total); got != tt.want {
			t.Errorf("tierFor(%v) = %s, want %s", tt.total, got, tt.want)
		}
	}
}
