package domain

type DashboardFilter struct {
	Timeframe string `json:"timeframe,omitempty"`
	Category  string `json:"category,omitempty"`
	City      string `json:"city,omitempty"`
}

type DashboardStats struct {
	TotalUsers        int                `json:"total_users"`
	TotalEvents       int                `json:"total_events"`
	ActiveOrganizers  int                `json:"active_organizers"`
	StatusPercentages map[string]float64 `json:"status_percentages"`
	TopRatedEvents    []Event            `json:"top_rated_events"`
	UserGrowthSeries  []DailyCount       `json:"user_growth_series"`
}

type DailyCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}
