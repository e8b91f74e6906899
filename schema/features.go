package schema

// Feature indices into FeatureVector.Values. The order is fixed; the model
// and all writers rely on it.
const (
	FeatGPClutch = iota
	FeatPPGClutch
	FeatFGPctClutch
	FeatFG3PctClutch
	FeatAstToRatioClutch
	FeatPlusMinusClutch
	FeatPPGDiff
	FeatFGPctDiff
	FeatGPNonClutch
	FeatPPGNonClutch
	FeatRPGClutch
	FeatAPGClutch
	FeatTOPGClutch
	FeatCPIRolling
	FeatPPGRolling
	FeatFGPctRolling
	FeatPPGTimesFGPct
	FeatGamesConsistency
	FeatClutchVolume
	FeatExperience
	FeatPPGStability

	// NumFeatures is the size of the feature vector.
	NumFeatures
)

// FeatureNames maps feature indices to stable column names, in vector order.
var FeatureNames = [NumFeatures]string{
	FeatGPClutch:         "gp_clutch",
	FeatPPGClutch:        "ppg_clutch",
	FeatFGPctClutch:      "fg_pct_clutch",
	FeatFG3PctClutch:     "fg3_pct_clutch",
	FeatAstToRatioClutch: "ast_to_ratio_clutch",
	FeatPlusMinusClutch:  "plus_minus_clutch",
	FeatPPGDiff:          "ppg_diff",
	FeatFGPctDiff:        "fg_pct_diff",
	FeatGPNonClutch:      "gp_non_clutch",
	FeatPPGNonClutch:     "ppg_non_clutch",
	FeatRPGClutch:        "rpg_clutch",
	FeatAPGClutch:        "apg_clutch",
	FeatTOPGClutch:       "topg_clutch",
	FeatCPIRolling:       "cpi_2yr_avg",
	FeatPPGRolling:       "ppg_clutch_2yr_avg",
	FeatFGPctRolling:     "fg_pct_clutch_2yr_avg",
	FeatPPGTimesFGPct:    "ppg_times_fg_pct",
	FeatGamesConsistency: "games_consistency",
	FeatClutchVolume:     "clutch_volume",
	FeatExperience:       "experience",
	FeatPPGStability:     "ppg_stability",
}
