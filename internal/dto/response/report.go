package response

type MethodTotalResponse struct {
	PaymentMethod string  `json:"payment_method"`
	Count         int64   `json:"count"`
	Total         float64 `json:"total"`
}

// DailyRevenueResponse is the day-close reconciliation report: everything
// collected on one calendar day, split by method and by package vs. single
// session, with refunds netted out.
type DailyRevenueResponse struct {
	Date           string                `json:"date"`
	TotalCollected float64               `json:"total_collected"`
	PaymentCount   int64                 `json:"payment_count"`
	PackageRevenue float64               `json:"package_revenue"`
	SingleRevenue  float64               `json:"single_revenue"`
	ByMethod       []MethodTotalResponse `json:"by_method"`
	RefundTotal    float64               `json:"refund_total"`
	NetRevenue     float64               `json:"net_revenue"`
}
