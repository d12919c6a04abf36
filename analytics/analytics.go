package analytics

import (
	"math"
	"sort"
	"time"

	"retailpos/models"
)

// Heuristic constants carried over from the original projection rules.
// They are not derived; downstream consumers expect these exact values.
const (
	trendWindowDays      = 7
	forecastDays         = 7
	topSellerLimit       = 5
	lowStockThreshold    = 5
	monthWeekMultiple    = 4.3
	quarterWeekMultiple  = 13.0
	monthGrowthDamping   = 0.8
	quarterGrowthDamping = 0.6
	seasonalGrowth       = 1.1
	safetyStockRatio     = 0.3
	urgencyHorizonWeeks  = 2
	minConfidence        = 60
)

const dayFormat = "2006-01-02"

// Compute derives the full analytics view from the bill history and the
// current product list at time now. It is a pure function: it never
// mutates its inputs, never reads external state, and degenerate input
// (no bills, thin per-product history) yields zero values and empty
// slices rather than errors.
func Compute(bills []models.Bill, products []models.Product, now time.Time) models.SalesAnalytics {
	a := models.SalesAnalytics{
		TotalSales:         len(bills),
		TopSellingProducts: topSellingProducts(bills),
		SalesTrend:         salesTrend(bills, now),
		LowStockAlerts:     lowStockAlerts(products),
	}

	for _, b := range bills {
		a.TotalRevenue += b.Total
	}
	if a.TotalSales > 0 {
		a.AverageOrderValue = a.TotalRevenue / float64(a.TotalSales)
	}

	// With no bills at all there is nothing to extrapolate from; consumers
	// expect empty forecasts, not a week of zeros.
	a.SalesForecast = []models.SalesForecastEntry{}
	if a.TotalSales > 0 {
		a.SalesForecast = forecastSales(a.SalesTrend, now)
	}
	a.RevenueForecast = forecastRevenue(a.SalesForecast, a.AverageOrderValue, a.SalesTrend)
	a.DemandForecast = forecastDemand(a.TopSellingProducts, bills)
	a.AIStockPrediction = classifyStockUrgency(products, bills)
	a.AISalesPrediction = salesOutlook(a.SalesForecast, a.SalesTrend, a.TotalSales)

	return a
}

// topSellingProducts sums quantities per distinct item name across every
// bill and returns the top 5 by units sold. The sort is stable, so ties
// keep first-encountered order.
func topSellingProducts(bills []models.Bill) []models.ProductSales {
	index := make(map[string]int)
	ranked := []models.ProductSales{}

	for _, bill := range bills {
		for _, item := range bill.Items {
			if i, ok := index[item.Name]; ok {
				ranked[i].Quantity += item.Quantity
			} else {
				index[item.Name] = len(ranked)
				ranked = append(ranked, models.ProductSales{Name: item.Name, Quantity: item.Quantity})
			}
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Quantity > ranked[j].Quantity
	})

	if len(ranked) > topSellerLimit {
		ranked = ranked[:topSellerLimit]
	}
	return ranked
}

// salesTrend counts bills per calendar day over the trailing window,
// oldest day first. Days with no bills stay at zero, so the result always
// has exactly 7 entries.
func salesTrend(bills []models.Bill, now time.Time) []models.TrendPoint {
	trend := make([]models.TrendPoint, 0, trendWindowDays)
	byDay := make(map[string]int)
	for _, b := range bills {
		byDay[b.Date.Format(dayFormat)]++
	}

	for offset := trendWindowDays - 1; offset >= 0; offset-- {
		day := now.AddDate(0, 0, -offset).Format(dayFormat)
		trend = append(trend, models.TrendPoint{Date: day, Sales: byDay[day]})
	}
	return trend
}

func lowStockAlerts(products []models.Product) []models.Product {
	alerts := []models.Product{}
	for _, p := range products {
		if p.Stock < lowStockThreshold {
			alerts = append(alerts, p)
		}
	}
	return alerts
}

// forecastSales projects the daily-count trend forward 7 days by linear
// extrapolation over the last 3 trend points. Fewer than 3 points means
// no forecast is attempted; that is policy, not an error.
func forecastSales(trend []models.TrendPoint, now time.Time) []models.SalesForecastEntry {
	if len(trend) < 3 {
		return []models.SalesForecastEntry{}
	}

	last3 := trend[len(trend)-3:]
	avgDelta := (float64(last3[1].Sales-last3[0].Sales) + float64(last3[2].Sales-last3[1].Sales)) / 2
	lastSales := float64(last3[2].Sales)

	forecast := make([]models.SalesForecastEntry, 0, forecastDays)
	for i := 1; i <= forecastDays; i++ {
		predicted := math.Round(lastSales + avgDelta*float64(i))
		confidence := 95 - 5*i
		if confidence < minConfidence {
			confidence = minConfidence
		}
		forecast = append(forecast, models.SalesForecastEntry{
			Date:           now.AddDate(0, 0, i).Format(dayFormat),
			PredictedSales: int(math.Max(0, predicted)),
			Confidence:     confidence,
		})
	}
	return forecast
}

// forecastRevenue scales the sales forecast into revenue estimates for the
// next week, month, and quarter. The month/quarter multipliers and growth
// damping factors are fixed heuristics.
func forecastRevenue(forecast []models.SalesForecastEntry, avgOrderValue float64, trend []models.TrendPoint) []models.RevenueForecastEntry {
	if len(forecast) == 0 || avgOrderValue <= 0 {
		return []models.RevenueForecastEntry{}
	}

	var weeklyPredicted, currentWeekly float64
	for _, f := range forecast {
		weeklyPredicted += float64(f.PredictedSales) * avgOrderValue
	}
	for _, t := range trend {
		currentWeekly += float64(t.Sales) * avgOrderValue
	}

	var weeklyGrowth float64
	if currentWeekly > 0 {
		weeklyGrowth = (weeklyPredicted - currentWeekly) / currentWeekly * 100
	}

	return []models.RevenueForecastEntry{
		{Period: "Next Week", PredictedRevenue: weeklyPredicted, GrowthRate: weeklyGrowth},
		{Period: "Next Month", PredictedRevenue: weeklyPredicted * monthWeekMultiple, GrowthRate: weeklyGrowth * monthGrowthDamping},
		{Period: "Next Quarter", PredictedRevenue: weeklyPredicted * quarterWeekMultiple, GrowthRate: weeklyGrowth * quarterGrowthDamping},
	}
}

// forecastDemand estimates forward weekly demand and a recommended stock
// level for each top seller. Products seen in fewer than 2 bills are
// skipped: one data point is not a trend.
func forecastDemand(topSellers []models.ProductSales, bills []models.Bill) []models.DemandForecastEntry {
	entries := []models.DemandForecastEntry{}

	for _, seller := range topSellers {
		if billsContaining(bills, seller.Name) < 2 {
			continue
		}

		dailyDemand := float64(seller.Quantity) / 7
		predictedWeekly := int(math.Round(dailyDemand * 7 * seasonalGrowth))
		safetyStock := int(math.Ceil(float64(predictedWeekly) * safetyStockRatio))

		entries = append(entries, models.DemandForecastEntry{
			ProductName:      seller.Name,
			PredictedDemand:  predictedWeekly,
			RecommendedStock: predictedWeekly + safetyStock,
		})
	}
	return entries
}

// classifyStockUrgency compares every product's stock against its
// predicted 2-week need and buckets it into low/medium/high. Note the
// horizon here is 2 weeks while the demand forecast projects 1 week; the
// asymmetry is intentional and kept for output compatibility.
func classifyStockUrgency(products []models.Product, bills []models.Bill) []models.StockPrediction {
	weeks := math.Max(1, math.Ceil(float64(len(bills))/7))

	predictions := make([]models.StockPrediction, 0, len(products))
	for _, p := range products {
		totalSold := 0
		for _, bill := range bills {
			for _, item := range bill.Items {
				if item.Name == p.Name {
					totalSold += item.Quantity
				}
			}
		}

		avgPerWeek := float64(totalSold) / weeks
		predictedNeed := int(math.Ceil(avgPerWeek * urgencyHorizonWeeks))

		urgency := "low"
		switch {
		case float64(p.Stock) < float64(predictedNeed)*0.5:
			urgency = "high"
		case p.Stock < predictedNeed:
			urgency = "medium"
		}

		predictions = append(predictions, models.StockPrediction{
			ProductName:   p.Name,
			CurrentStock:  p.Stock,
			PredictedNeed: predictedNeed,
			Urgency:       urgency,
		})
	}
	return predictions
}

// salesOutlook condenses the daily forecast into two qualitative forward
// periods with the factors behind them.
func salesOutlook(forecast []models.SalesForecastEntry, trend []models.TrendPoint, totalSales int) []models.SalesOutlookEntry {
	if len(forecast) == 0 {
		return []models.SalesOutlookEntry{}
	}

	weeklySales := 0
	confidenceSum := 0
	for _, f := range forecast {
		weeklySales += f.PredictedSales
		confidenceSum += f.Confidence
	}
	avgConfidence := int(math.Round(float64(confidenceSum) / float64(len(forecast))))

	factors := outlookFactors(trend, totalSales)

	monthConfidence := avgConfidence - 10
	if monthConfidence < minConfidence {
		monthConfidence = minConfidence
	}

	return []models.SalesOutlookEntry{
		{Period: "Next Week", PredictedSales: weeklySales, Confidence: avgConfidence, Factors: factors},
		{Period: "Next Month", PredictedSales: int(math.Round(float64(weeklySales) * monthWeekMultiple)), Confidence: monthConfidence, Factors: factors},
	}
}

func outlookFactors(trend []models.TrendPoint, totalSales int) []string {
	factors := []string{}

	if len(trend) >= 3 {
		last3 := trend[len(trend)-3:]
		avgDelta := (float64(last3[1].Sales-last3[0].Sales) + float64(last3[2].Sales-last3[1].Sales)) / 2
		switch {
		case avgDelta > 0:
			factors = append(factors, "Upward sales trend")
		case avgDelta < 0:
			factors = append(factors, "Declining sales trend")
		default:
			factors = append(factors, "Flat recent sales")
		}
	}

	if totalSales < 10 {
		factors = append(factors, "Limited sales history")
	} else {
		factors = append(factors, "Established sales history")
	}
	return factors
}

// billsContaining counts bills with at least one line item of the given
// product name.
func billsContaining(bills []models.Bill, name string) int {
	count := 0
	for _, bill := range bills {
		for _, item := range bill.Items {
			if item.Name == name {
				count++
				break
			}
		}
	}
	return count
}
