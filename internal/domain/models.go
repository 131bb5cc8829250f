// internal/domain/models.go
package domain

// WeeklySalesRecord is one observed (customer, item, week) sales row.
// Date is the Sunday week-end in YYYY-MM-DD form; weeks run Monday-Sunday.
type WeeklySalesRecord struct {
	Date          string  `json:"TrxDate"`
	CustomerID    string  `json:"CustomerID"`
	CustomerName  string  `json:"CustomerName"`
	ItemCode      string  `json:"ItemCode"`
	ItemName      string  `json:"ItemName"`
	TotalQuantity float64 `json:"TotalQuantity"`
}

// DailySalesRecord is the per-day drill-down source behind the weekly rows.
type DailySalesRecord struct {
	Date          string  `json:"TrxDate"`
	CustomerID    string  `json:"CustomerID"`
	CustomerName  string  `json:"CustomerName"`
	ItemCode      string  `json:"ItemCode"`
	ItemName      string  `json:"ItemName"`
	TotalQuantity float64 `json:"TotalQuantity"`
}

// PredictionRecord pairs an actual weekly quantity with the model's
// prediction for the same week. Confidence arrives either numeric (0-100)
// or categorical (high/medium/low); it is kept raw here and normalized by
// the prediction metrics engine.
type PredictionRecord struct {
	Date          string  `json:"TrxDate"`
	CustomerName  string  `json:"CustomerName"`
	ItemCode      string  `json:"ItemCode"`
	ItemName      string  `json:"ItemName"`
	ActualQty     float64 `json:"ActualQty"`
	PredictedQty  float64 `json:"PredictedQty"`
	Confidence    string  `json:"Confidence"`
	DemandPattern string  `json:"Demand_Pattern,omitempty"`
	TestDate      string  `json:"TestDate"`
	DataSplit     string  `json:"DataSplit"`
}

// SKUMetrics summarizes one SKU's weekly demand history.
type SKUMetrics struct {
	ItemCode            string     `json:"item_code"`
	ItemName            string     `json:"item_name"`
	HistoryLength       int        `json:"history_length"`
	Density             float64    `json:"density"`
	DemandType          DemandType `json:"demand_type"`
	Mean                float64    `json:"mean"`
	Std                 float64    `json:"std"`
	CV                  float64    `json:"cv"`
	CustomerCount       int        `json:"customer_count"`
	ZeroDemandWeeks     int        `json:"zero_demand_weeks"`
	TrainabilityScore   int        `json:"trainability_score"`
	RecommendedApproach Approach   `json:"recommended_approach"`
}

// PredictionMetrics is one deduplicated week of actual-vs-predicted
// comparison. ErrorPct is forced to 0 when PredictedQty is 0; this masks
// true error magnitude for zero predictions and is a deliberate
// simplification, not a bug.
type PredictionMetrics struct {
	Week         string  `json:"week"`
	ActualQty    float64 `json:"actual_qty"`
	PredictedQty float64 `json:"predicted_qty"`
	Error        float64 `json:"error"`
	ErrorPct     float64 `json:"error_pct"`
	Confidence   float64 `json:"confidence"`
	AbsError     float64 `json:"abs_error"`
	DataSplit    string  `json:"data_split"`
}

// RollingAverages holds trailing means of the weeks strictly preceding a
// target week. A nil entry means fewer than N prior observations exist;
// partial windows are never averaged.
type RollingAverages struct {
	Week4Avg  *float64 `json:"week_4_avg"`
	Week12Avg *float64 `json:"week_12_avg"`
	Week24Avg *float64 `json:"week_24_avg"`
	Week52Avg *float64 `json:"week_52_avg"`
}

// WeekDetail is the drill-down record for a single week: the deduplicated
// actual/predicted values plus trend indicators. Nil indicators mean
// insufficient history for a verdict.
type WeekDetail struct {
	Week            string          `json:"week"`
	ActualQty       float64         `json:"actual_qty"`
	PredictedQty    float64         `json:"predicted_qty"`
	Error           float64         `json:"error"`
	ErrorPct        float64         `json:"error_pct"`
	Confidence      float64         `json:"confidence"`
	DataSplit       string          `json:"data_split"`
	RollingAverages RollingAverages `json:"rolling_averages"`
	AboveTrend      *bool           `json:"above_trend"`
	StableDemand    *bool           `json:"stable_demand"`
	WithinRange     *bool           `json:"within_historical_range"`
}

// MarketShareItem is one ranked row of a customer's Pareto breakdown.
type MarketShareItem struct {
	ItemCode      string  `json:"item_code"`
	ItemName      string  `json:"item_name"`
	TotalQuantity float64 `json:"total_quantity"`
	PctOfTotal    float64 `json:"pct_of_total"`
	CumulativePct float64 `json:"cumulative_pct"`
}

// MarketShareResult is a customer's Pareto breakdown: the smallest set of
// recently-active items covering Percent of the customer's full-history
// volume.
type MarketShareResult struct {
	CustomerName  string            `json:"customer_name"`
	Percent       float64           `json:"percent"`
	WindowStart   string            `json:"window_start"`
	WindowEnd     string            `json:"window_end"`
	TotalQuantity float64           `json:"total_quantity"`
	ActiveItems   int               `json:"active_items"`
	Items         []MarketShareItem `json:"items"`
}

// CustomerShare is one row of the customer contribution (ABC) list.
type CustomerShare struct {
	CustomerID    string  `json:"customer_id"`
	CustomerName  string  `json:"customer_name"`
	TotalQuantity float64 `json:"total_quantity"`
	PctOfTotal    float64 `json:"pct_of_total"`
	CumulativePct float64 `json:"cumulative_pct"`
}

// WeekValue is a generic per-week series point keyed by the week-end
// date string.
type WeekValue struct {
	Week  string  `json:"week"`
	Value float64 `json:"value"`
}

// SeasonalityBucket is the average demand for one week-of-year bucket
// across all years present in the data.
type SeasonalityBucket struct {
	WeekOfYear  int     `json:"week_of_year"`
	AvgQuantity float64 `json:"avg_quantity"`
}

// HeatmapRow is one SKU row of the zero-demand heatmap; Cells[i] is 1 when
// the SKU had demand in Heatmap.Weeks[i], else 0.
type HeatmapRow struct {
	ItemCode string `json:"item_code"`
	ItemName string `json:"item_name"`
	Cells    []int  `json:"cells"`
}

// Heatmap is a binary had-demand grid over the union of observed weeks.
type Heatmap struct {
	Weeks []string     `json:"weeks"`
	Rows  []HeatmapRow `json:"rows"`
}

// RecommendedOrder is one suggested order line for a target week.
type RecommendedOrder struct {
	Date             string   `json:"TrxDate"`
	CustomerName     string   `json:"CustomerName"`
	ItemCode         string   `json:"ItemCode"`
	ItemName         string   `json:"ItemName"`
	ActualQty        float64  `json:"ActualQty"`
	PredictedQty     float64  `json:"Predicted"`
	BaseQty          float64  `json:"BaseQty"`
	RecommendedQty   float64  `json:"RecommendedOrderQty"`
	Confidence       string   `json:"Confidence"`
	DemandPattern    string   `json:"Demand_Pattern"`
	BuyingCycleWeeks *float64 `json:"BuyingCycleWeeks"`
	Avg4W            float64  `json:"avg_4w"`
	Avg12W           float64  `json:"avg_12w"`
	Avg24W           float64  `json:"avg_24w"`
	Avg52W           float64  `json:"avg_52w"`
	BufferQty        float64  `json:"BufferQty"`
	BufferPct        float64  `json:"BufferPct"`
	Density          float64  `json:"Density"`
	CV               float64  `json:"CV"`
	ReasonCode       string   `json:"ReasonCode"`
	BuyCount         int      `json:"buy_count"`
}

// OrderSummary aggregates one recommended-order run.
type OrderSummary struct {
	Date              string `json:"date"`
	Customers         int    `json:"customers"`
	Items             int    `json:"items"`
	TotalOrderQty     int    `json:"total_order_qty"`
	TotalPredictedQty int    `json:"total_predicted_qty"`
	TotalBufferQty    int    `json:"total_buffer_qty"`
	CustomerFilter    string `json:"customer_filter"`
}

// OrderResult bundles one recommended-order run with its summary.
type OrderResult struct {
	Summary OrderSummary       `json:"summary"`
	Orders  []RecommendedOrder `json:"orders"`
}

// AccuracyMetrics reports model error statistics over a filtered slice of
// prediction data. MAPE is nil when every actual quantity is zero; MASE is
// nil when the naive lag-1 forecast has zero error.
type AccuracyMetrics struct {
	MAE           float64  `json:"mae"`
	RMSE          float64  `json:"rmse"`
	MAPE          *float64 `json:"mape"`
	MASE          *float64 `json:"mase"`
	Samples       int      `json:"n_samples"`
	MeanActual    float64  `json:"mean_actual"`
	MeanPredicted float64  `json:"mean_predicted"`
}
