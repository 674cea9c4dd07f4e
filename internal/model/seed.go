package model

// SeedPlans returns a fresh copy of the plans shipped with the app
func SeedPlans() []Plan {
	return []Plan{
		{
			ID: 1001, Kind: PlanKindSeed, Crop: "Tomato", Area: "0.5 acres",
			Variety: "Arka Rakshak", ExpectedYieldPerAcre: f(25000), CurrentMarketPrice: f(18),
			SowingDate: "2025-06-15", Expenses: f(12000),
		},
		{
			ID: 1002, Kind: PlanKindSeed, Crop: "Chilli", Area: "0.25 acres",
			Variety: "Guntur Sannam", ExpectedYieldPerAcre: f(8000), CurrentMarketPrice: f(60),
			SowingDate: "2025-07-01", Expenses: f(6500),
		},
		{
			ID: 1003, Kind: PlanKindSeed, Crop: "Onion", Area: "1 acre",
			Variety: "Nasik Red", ExpectedYieldPerAcre: f(10000), CurrentMarketPrice: f(25),
			SowingDate: "2025-10-10", Expenses: f(20000),
		},
		{
			ID: 1004, Kind: PlanKindSeed, Crop: "Carrot", Area: "0.3 acres",
			Variety: "Pusa Kesar", ExpectedYieldPerAcre: f(12000), CurrentMarketPrice: f(30),
			SowingDate: "2025-09-20", Expenses: f(5000),
		},
		{
			ID: 1005, Kind: PlanKindSeed, Crop: "Cauliflower", Area: "0.4 acres",
			Variety: "Pusa Snowball", ExpectedYieldPerAcre: f(15000), CurrentMarketPrice: f(22),
			SowingDate: "2025-08-25", Expenses: f(9000),
		},
	}
}

func f(v float64) *float64 { return &v }
