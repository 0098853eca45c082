package techarts

// DefaultTargets is the standing watch list: US inflation prints,
// weekly EIA inventory numbers, the Treasury curve, and the ISM
// surveys.
func DefaultTargets() []Target {
	return []Target{
		{Bucket: "CPI", Name: "CPI YoY", Symbol: "cpi yoy",
			SourceURL: "https://tradingeconomics.com/united-states/inflation-cpi"},
		{Bucket: "CPI", Name: "CPI MoM", Symbol: "unitedstainfratmom",
			SourceURL: "https://tradingeconomics.com/united-states/inflation-rate-mom"},
		{Bucket: "CPI", Name: "Core CPI YoY", Symbol: "usacorecpirate",
			SourceURL: "https://tradingeconomics.com/united-states/core-inflation-rate"},
		{Bucket: "CPI", Name: "Core CPI MoM", Symbol: "usacirm",
			SourceURL: "https://tradingeconomics.com/united-states/core-inflation-rate-mom"},

		{Bucket: "EIA", Name: "Crude Oil Inventories", Symbol: "unitedstacruoilstoch",
			SourceURL: "https://tradingeconomics.com/united-states/crude-oil-stocks-change"},
		{Bucket: "EIA", Name: "Gasoline Inventories", Symbol: "unitedstagasstocha",
			SourceURL: "https://tradingeconomics.com/united-states/gasoline-stocks-change"},
		{Bucket: "EIA", Name: "Distillate Inventories", Symbol: "unitedstadissto",
			SourceURL: "https://tradingeconomics.com/united-states/distillate-fuel-oil-stocks-change"},
		{Bucket: "EIA", Name: "Natural Gas Storage", Symbol: "unitedstanatgasstoch",
			SourceURL: "https://tradingeconomics.com/united-states/natural-gas-stocks-change"},

		{Bucket: "UST", Name: "US 3M Yield", Symbol: "usgg3m:ind",
			SourceURL: "https://tradingeconomics.com/united-states/government-bond-yield"},
		{Bucket: "UST", Name: "US 2Y Yield", Symbol: "usgg2yr:ind",
			SourceURL: "https://tradingeconomics.com/united-states/government-bond-yield"},
		{Bucket: "UST", Name: "US 5Y Yield", Symbol: "usgg5yr:ind",
			SourceURL: "https://tradingeconomics.com/united-states/government-bond-yield"},
		{Bucket: "UST", Name: "US 10Y Yield", Symbol: "usgg10yr:ind",
			SourceURL: "https://tradingeconomics.com/united-states/government-bond-yield"},
		{Bucket: "UST", Name: "US 30Y Yield", Symbol: "usgg30y:ind",
			SourceURL: "https://tradingeconomics.com/united-states/government-bond-yield"},

		{Bucket: "ISM", Name: "ISM Manufacturing PMI", Symbol: "unitedstamanpmi",
			SourceURL: "https://tradingeconomics.com/united-states/manufacturing-pmi"},
		{Bucket: "ISM", Name: "ISM Services PMI", Symbol: "unitedstaserpmi",
			SourceURL: "https://tradingeconomics.com/united-states/services-pmi"},
		{Bucket: "ISM", Name: "ISM Composite PMI", Symbol: "unitedstacompmi",
			SourceURL: "https://tradingeconomics.com/united-states/composite-pmi"},
	}
}
