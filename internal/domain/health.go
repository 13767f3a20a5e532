package domain

// HealthStatus is returned by the operational endpoints.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Store   string `json:"store,omitempty"`
}

// EngineMetrics is an aggregated snapshot of reporting engine counters,
// served by GET /v1/metrics/engine for the admin dashboard.
type EngineMetrics struct {
	BundlesBuilt   int64   `json:"bundles_built"`
	BuildErrors    int64   `json:"build_errors"`
	ErrorRate      float64 `json:"error_rate"`
	CacheHitRate   float64 `json:"cache_hit_rate"`
	StoreErrors    int64   `json:"store_errors"`
	RowsLoaded     int64   `json:"rows_loaded"`
}

// SuccessResponse is a generic acknowledgement payload.
type SuccessResponse struct {
	Message string `json:"message"`
}
