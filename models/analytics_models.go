package models

// ProductSales is one entry of the top-sellers ranking: total units sold
// per distinct product name across the whole bill history.
type ProductSales struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// TrendPoint is the bill count for one calendar day of the trailing window.
type TrendPoint struct {
	Date  string `json:"date"`
	Sales int    `json:"sales"`
}

// SalesForecastEntry is one projected day of sales with a confidence
// percentage that decays the further out it is.
type SalesForecastEntry struct {
	Date           string `json:"date"`
	PredictedSales int    `json:"predictedSales"`
	Confidence     int    `json:"confidence"`
}

// RevenueForecastEntry projects revenue for one named forward period.
type RevenueForecastEntry struct {
	Period           string  `json:"period"`
	PredictedRevenue float64 `json:"predictedRevenue"`
	GrowthRate       float64 `json:"growthRate"`
}

// DemandForecastEntry is the weekly demand projection and restock
// recommendation for one top-selling product.
type DemandForecastEntry struct {
	ProductName      string `json:"productName"`
	PredictedDemand  int    `json:"predictedDemand"`
	RecommendedStock int    `json:"recommendedStock"`
}

// StockPrediction classifies how urgently a product needs restocking,
// comparing current stock against the predicted 2-week need.
type StockPrediction struct {
	ProductName   string `json:"productName"`
	CurrentStock  int    `json:"currentStock"`
	PredictedNeed int    `json:"predictedNeed"`
	Urgency       string `json:"urgency"`
}

// SalesOutlookEntry is a qualitative sales projection for one forward
// period, with the factors that informed it.
type SalesOutlookEntry struct {
	Period         string   `json:"period"`
	PredictedSales int      `json:"predictedSales"`
	Confidence     int      `json:"confidence"`
	Factors        []string `json:"factors"`
}

// SalesAnalytics is the full derived view over the bill history and the
// current product list. It carries no state of its own: it is recomputed
// from scratch whenever it is needed and must never be persisted.
type SalesAnalytics struct {
	TotalSales         int                    `json:"totalSales"`
	TotalRevenue       float64                `json:"totalRevenue"`
	AverageOrderValue  float64                `json:"averageOrderValue"`
	TopSellingProducts []ProductSales         `json:"topSellingProducts"`
	SalesTrend         []TrendPoint           `json:"salesTrend"`
	LowStockAlerts     []Product              `json:"lowStockAlerts"`
	SalesForecast      []SalesForecastEntry   `json:"salesForecast"`
	RevenueForecast    []RevenueForecastEntry `json:"revenueForecast"`
	DemandForecast     []DemandForecastEntry  `json:"demandForecast"`
	AIStockPrediction  []StockPrediction      `json:"aiStockPrediction"`
	AISalesPrediction  []SalesOutlookEntry    `json:"aiSalesPrediction"`
}
