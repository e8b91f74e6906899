package schema

// MetricsCohort represents one scoring cohort for display purposes.
type MetricsCohort struct {
	Name    string   `json:"name"`
	Purpose string   `json:"purpose"`
	Factors []string `json:"factors"`
}

// MetricsCohortWithData extends MetricsCohort with computed weights and formula.
type MetricsCohortWithData struct {
	MetricsCohort
	Weights map[string]float64 `json:"weights"`
	Formula string             `json:"formula"`
}

// MetricsRenderModel contains all processed data needed for displaying the
// scoring definitions: both cohort formulas plus the ensemble blend.
type MetricsRenderModel struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Cohorts     []MetricsCohortWithData `json:"cohorts"`
	Blend       BlendWeights            `json:"blend"`
	CohortNote  string                  `json:"cohort_note"`
}
