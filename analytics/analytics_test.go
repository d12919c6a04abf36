package analytics

import (
	"math"
	"testing"
	"time"

	"retailpos/models"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func seedProducts() []models.Product {
	return []models.Product{
		{Code: "P001", Name: "Laptop", Price: 50000, Stock: 10},
		{Code: "P002", Name: "Mouse", Price: 500, Stock: 25},
		{Code: "P003", Name: "Keyboard", Price: 1500, Stock: 15},
	}
}

func makeBill(id string, date time.Time, total float64, items ...models.CartItem) models.Bill {
	return models.Bill{
		ID:            id,
		Date:          date,
		Items:         items,
		Total:         total,
		PaymentMethod: "cash",
	}
}

func item(name string, qty int, price float64) models.CartItem {
	return models.CartItem{
		Product:  models.Product{Code: name, Name: name, Price: price, Stock: 100},
		Quantity: qty,
	}
}

func TestComputeEmptyHistory(t *testing.T) {
	a := Compute(nil, seedProducts(), testNow)

	if a.TotalSales != 0 {
		t.Fatalf("expected totalSales 0, got %d", a.TotalSales)
	}
	if a.TotalRevenue != 0 {
		t.Fatalf("expected totalRevenue 0, got %f", a.TotalRevenue)
	}
	if a.AverageOrderValue != 0 {
		t.Fatalf("expected averageOrderValue 0, got %f", a.AverageOrderValue)
	}
	if len(a.SalesForecast) != 0 {
		t.Errorf("expected empty salesForecast, got %d entries", len(a.SalesForecast))
	}
	if len(a.RevenueForecast) != 0 {
		t.Errorf("expected empty revenueForecast, got %d entries", len(a.RevenueForecast))
	}
	if len(a.DemandForecast) != 0 {
		t.Errorf("expected empty demandForecast, got %d entries", len(a.DemandForecast))
	}
	if len(a.AISalesPrediction) != 0 {
		t.Errorf("expected empty aiSalesPrediction, got %d entries", len(a.AISalesPrediction))
	}
	// Seed stocks are 10/25/15, all at or above the threshold.
	if len(a.LowStockAlerts) != 0 {
		t.Errorf("expected no low stock alerts, got %d", len(a.LowStockAlerts))
	}
	if len(a.SalesTrend) != 7 {
		t.Fatalf("expected 7 trend entries, got %d", len(a.SalesTrend))
	}
	for _, p := range a.SalesTrend {
		if p.Sales != 0 {
			t.Errorf("expected zero sales on %s, got %d", p.Date, p.Sales)
		}
	}
	// Urgency still classifies every product, all low with no history.
	if len(a.AIStockPrediction) != 3 {
		t.Fatalf("expected 3 stock predictions, got %d", len(a.AIStockPrediction))
	}
	for _, sp := range a.AIStockPrediction {
		if sp.Urgency != "low" {
			t.Errorf("expected low urgency for %s, got %s", sp.ProductName, sp.Urgency)
		}
	}
}

func TestComputeThreeBillsSameDay(t *testing.T) {
	bills := []models.Bill{
		makeBill("BILL-1", testNow, 100, item("Mouse", 1, 100)),
		makeBill("BILL-2", testNow.Add(-time.Hour), 100, item("Mouse", 1, 100)),
		makeBill("BILL-3", testNow.Add(-2*time.Hour), 100, item("Mouse", 1, 100)),
	}

	a := Compute(bills, seedProducts(), testNow)

	if a.TotalSales != 3 {
		t.Fatalf("expected totalSales 3, got %d", a.TotalSales)
	}
	if a.TotalRevenue != 300 {
		t.Fatalf("expected totalRevenue 300, got %f", a.TotalRevenue)
	}
	if a.AverageOrderValue != 100 {
		t.Fatalf("expected averageOrderValue 100, got %f", a.AverageOrderValue)
	}

	today := testNow.Format("2006-01-02")
	for _, p := range a.SalesTrend {
		want := 0
		if p.Date == today {
			want = 3
		}
		if p.Sales != want {
			t.Errorf("day %s: expected %d sales, got %d", p.Date, want, p.Sales)
		}
	}
}

func TestAverageOrderValueProperty(t *testing.T) {
	bills := []models.Bill{
		makeBill("BILL-1", testNow, 120),
		makeBill("BILL-2", testNow, 80),
		makeBill("BILL-3", testNow, 100),
	}

	a := Compute(bills, nil, testNow)
	if got, want := a.AverageOrderValue, a.TotalRevenue/float64(a.TotalSales); got != want {
		t.Fatalf("averageOrderValue %f != totalRevenue/totalSales %f", got, want)
	}
}

func TestTopSellingProducts(t *testing.T) {
	bills := []models.Bill{
		makeBill("BILL-1", testNow, 0,
			item("A", 3, 10), item("B", 5, 10), item("C", 1, 10)),
		makeBill("BILL-2", testNow, 0,
			item("D", 5, 10), item("E", 2, 10), item("F", 4, 10)),
		makeBill("BILL-3", testNow, 0, item("A", 2, 10)),
	}

	top := topSellingProducts(bills)

	if len(top) != 5 {
		t.Fatalf("expected top 5, got %d", len(top))
	}
	for i := 1; i < len(top); i++ {
		if top[i].Quantity > top[i-1].Quantity {
			t.Fatalf("ranking not non-increasing at %d: %v", i, top)
		}
	}
	// A (5) and B (5) and D (5) tie; stable sort keeps encounter order.
	if top[0].Name != "A" || top[1].Name != "B" || top[2].Name != "D" {
		t.Fatalf("tie-break should keep first-encountered order, got %v", top)
	}
	// C (1) is the sixth-ranked and must be cut.
	for _, p := range top {
		if p.Name == "C" {
			t.Fatalf("expected C to fall outside the top 5: %v", top)
		}
	}
}

func TestSalesTrendWindow(t *testing.T) {
	bills := []models.Bill{
		makeBill("BILL-old", testNow.AddDate(0, 0, -10), 50),
		makeBill("BILL-edge", testNow.AddDate(0, 0, -6), 50),
		makeBill("BILL-today", testNow, 50),
	}

	trend := salesTrend(bills, testNow)

	if len(trend) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(trend))
	}
	for i := 1; i < len(trend); i++ {
		if trend[i].Date <= trend[i-1].Date {
			t.Fatalf("trend not oldest-to-newest: %v", trend)
		}
	}
	if trend[0].Sales != 1 {
		t.Errorf("expected the 6-days-ago bill in the first slot, got %d", trend[0].Sales)
	}
	if trend[6].Sales != 1 {
		t.Errorf("expected today's bill in the last slot, got %d", trend[6].Sales)
	}
	// The 10-day-old bill is outside the window entirely.
	total := 0
	for _, p := range trend {
		total += p.Sales
	}
	if total != 2 {
		t.Errorf("expected 2 bills inside the window, got %d", total)
	}
}

func TestForecastSalesConfidenceDecay(t *testing.T) {
	trend := []models.TrendPoint{
		{Date: "2025-03-04", Sales: 1}, {Date: "2025-03-05", Sales: 2},
		{Date: "2025-03-06", Sales: 2}, {Date: "2025-03-07", Sales: 3},
		{Date: "2025-03-08", Sales: 3}, {Date: "2025-03-09", Sales: 4},
		{Date: "2025-03-10", Sales: 5},
	}

	forecast := forecastSales(trend, testNow)

	if len(forecast) != 7 {
		t.Fatalf("expected 7 forecast entries, got %d", len(forecast))
	}
	if forecast[0].Confidence != 90 {
		t.Errorf("expected confidence 90 on day 1, got %d", forecast[0].Confidence)
	}
	for i, f := range forecast {
		if f.Confidence < 60 {
			t.Errorf("confidence below floor at day %d: %d", i+1, f.Confidence)
		}
		if i > 0 && f.Confidence > forecast[i-1].Confidence {
			t.Errorf("confidence increased at day %d", i+1)
		}
	}
	if forecast[6].Confidence != 60 {
		t.Errorf("expected confidence 60 on day 7, got %d", forecast[6].Confidence)
	}

	// Last 3 points are 3, 4, 5: avg delta 1, so day i predicts 5+i.
	for i, f := range forecast {
		if f.PredictedSales != 5+i+1 {
			t.Errorf("day %d: expected %d predicted sales, got %d", i+1, 5+i+1, f.PredictedSales)
		}
	}
}

func TestForecastSalesAllZeroTrendClamps(t *testing.T) {
	trend := make([]models.TrendPoint, 7)
	for i := range trend {
		trend[i] = models.TrendPoint{Date: testNow.AddDate(0, 0, i-6).Format("2006-01-02")}
	}

	forecast := forecastSales(trend, testNow)
	if len(forecast) != 7 {
		t.Fatalf("expected 7 entries, got %d", len(forecast))
	}
	for _, f := range forecast {
		if f.PredictedSales < 0 {
			t.Errorf("predicted sales must be clamped to >= 0, got %d", f.PredictedSales)
		}
	}
}

func TestForecastSalesDecliningTrendClamps(t *testing.T) {
	// 5, 3, 1 over the last 3 days: avg delta -2, raw day-1 prediction -1.
	trend := []models.TrendPoint{
		{Sales: 0}, {Sales: 0}, {Sales: 0}, {Sales: 0},
		{Sales: 5}, {Sales: 3}, {Sales: 1},
	}

	forecast := forecastSales(trend, testNow)
	for i, f := range forecast {
		if f.PredictedSales != 0 {
			t.Errorf("day %d: expected clamped 0, got %d", i+1, f.PredictedSales)
		}
	}
}

func TestForecastSalesTooFewPoints(t *testing.T) {
	trend := []models.TrendPoint{{Sales: 1}, {Sales: 2}}
	if got := forecastSales(trend, testNow); len(got) != 0 {
		t.Fatalf("expected empty forecast for < 3 points, got %d entries", len(got))
	}
}

func TestForecastRevenuePeriods(t *testing.T) {
	bills := []models.Bill{
		makeBill("BILL-1", testNow, 100, item("Mouse", 1, 100)),
		makeBill("BILL-2", testNow.AddDate(0, 0, -1), 200, item("Mouse", 2, 100)),
		makeBill("BILL-3", testNow.AddDate(0, 0, -2), 100, item("Mouse", 1, 100)),
	}

	a := Compute(bills, seedProducts(), testNow)

	if len(a.RevenueForecast) != 3 {
		t.Fatalf("expected 3 revenue periods, got %d", len(a.RevenueForecast))
	}
	periods := []string{"Next Week", "Next Month", "Next Quarter"}
	for i, want := range periods {
		if a.RevenueForecast[i].Period != want {
			t.Errorf("period %d: expected %q, got %q", i, want, a.RevenueForecast[i].Period)
		}
	}

	week := a.RevenueForecast[0]
	month := a.RevenueForecast[1]
	quarter := a.RevenueForecast[2]

	if diff := math.Abs(month.PredictedRevenue - week.PredictedRevenue*4.3); diff > 1e-9 {
		t.Errorf("month revenue should be week*4.3, off by %g", diff)
	}
	if diff := math.Abs(quarter.PredictedRevenue - week.PredictedRevenue*13); diff > 1e-9 {
		t.Errorf("quarter revenue should be week*13, off by %g", diff)
	}
	if diff := math.Abs(month.GrowthRate - week.GrowthRate*0.8); diff > 1e-9 {
		t.Errorf("month growth should be damped by 0.8, off by %g", diff)
	}
	if diff := math.Abs(quarter.GrowthRate - week.GrowthRate*0.6); diff > 1e-9 {
		t.Errorf("quarter growth should be damped by 0.6, off by %g", diff)
	}
}

func TestForecastRevenueZeroAOV(t *testing.T) {
	forecast := []models.SalesForecastEntry{{PredictedSales: 3, Confidence: 90}}
	if got := forecastRevenue(forecast, 0, nil); len(got) != 0 {
		t.Fatalf("expected empty revenue forecast for zero AOV, got %d entries", len(got))
	}
}

func TestForecastDemandScenario(t *testing.T) {
	// One product sold in quantities 2 and 3 across 2 bills.
	bills := []models.Bill{
		makeBill("BILL-1", testNow, 1000, item("Laptop", 2, 500)),
		makeBill("BILL-2", testNow.AddDate(0, 0, -1), 1500, item("Laptop", 3, 500)),
	}

	a := Compute(bills, seedProducts(), testNow)

	if len(a.DemandForecast) != 1 {
		t.Fatalf("expected 1 demand entry, got %d", len(a.DemandForecast))
	}
	d := a.DemandForecast[0]
	if d.ProductName != "Laptop" {
		t.Fatalf("expected Laptop, got %s", d.ProductName)
	}
	// dailyDemand 5/7, weekly = round(5 * 1.1) = round(5.5) = 6 (half away
	// from zero, matching the original), safety = ceil(1.8) = 2.
	if d.PredictedDemand != 6 {
		t.Errorf("expected predictedDemand 6, got %d", d.PredictedDemand)
	}
	if d.RecommendedStock != 8 {
		t.Errorf("expected recommendedStock 8, got %d", d.RecommendedStock)
	}
}

func TestForecastDemandSkipsThinHistory(t *testing.T) {
	// Sold once only: a single bill is not enough history to project.
	bills := []models.Bill{
		makeBill("BILL-1", testNow, 1000, item("Laptop", 5, 200)),
	}

	a := Compute(bills, seedProducts(), testNow)
	if len(a.DemandForecast) != 0 {
		t.Fatalf("expected no demand forecast for single-bill history, got %v", a.DemandForecast)
	}
}

func TestClassifyStockUrgencyHigh(t *testing.T) {
	// 5 units sold in 1 bill: 1 week of history, avg 5/week, predicted
	// 2-week need 10. Stock 1 < 10*0.5 so urgency is high.
	products := []models.Product{{Code: "W01", Name: "Widget", Price: 10, Stock: 1}}
	bills := []models.Bill{
		makeBill("BILL-1", testNow, 50, item("Widget", 5, 10)),
	}

	predictions := classifyStockUrgency(products, bills)

	if len(predictions) != 1 {
		t.Fatalf("expected 1 prediction, got %d", len(predictions))
	}
	p := predictions[0]
	if p.PredictedNeed != 10 {
		t.Fatalf("expected predictedNeed 10, got %d", p.PredictedNeed)
	}
	if p.Urgency != "high" {
		t.Fatalf("expected high urgency, got %s", p.Urgency)
	}
}

func TestClassifyStockUrgencyLevels(t *testing.T) {
	bills := []models.Bill{
		makeBill("BILL-1", testNow, 0, item("Widget", 3, 10)),
		makeBill("BILL-2", testNow, 0, item("Widget", 2, 10)),
	}
	// predictedNeed = ceil(5/1 * 2) = 10.
	cases := []struct {
		stock   int
		urgency string
	}{
		{4, "high"},   // < 5
		{5, "medium"}, // >= 5, < 10
		{9, "medium"},
		{10, "low"},
		{50, "low"},
	}

	for _, tc := range cases {
		products := []models.Product{{Code: "W01", Name: "Widget", Price: 10, Stock: tc.stock}}
		got := classifyStockUrgency(products, bills)[0]
		if got.Urgency != tc.urgency {
			t.Errorf("stock %d: expected %s, got %s (need %d)", tc.stock, tc.urgency, got.Urgency, got.PredictedNeed)
		}
	}
}

func TestDemandHorizonAsymmetry(t *testing.T) {
	// The urgency classifier projects 2 weeks ahead while the demand
	// recommender projects 1 week (+10%). Known asymmetry, kept on purpose.
	products := []models.Product{{Code: "W01", Name: "Widget", Price: 10, Stock: 100}}
	bills := []models.Bill{
		makeBill("BILL-1", testNow, 0, item("Widget", 4, 10)),
		makeBill("BILL-2", testNow, 0, item("Widget", 3, 10)),
	}

	a := Compute(bills, products, testNow)

	if len(a.DemandForecast) != 1 || len(a.AIStockPrediction) != 1 {
		t.Fatalf("expected one entry each, got %d and %d", len(a.DemandForecast), len(a.AIStockPrediction))
	}
	// Weekly recommendation: round(7 * 1.1) = 8. Two-week need: ceil(7*2) = 14.
	if a.DemandForecast[0].PredictedDemand != 8 {
		t.Errorf("expected weekly demand 8, got %d", a.DemandForecast[0].PredictedDemand)
	}
	if a.AIStockPrediction[0].PredictedNeed != 14 {
		t.Errorf("expected 2-week need 14, got %d", a.AIStockPrediction[0].PredictedNeed)
	}
}

func TestSalesOutlook(t *testing.T) {
	bills := []models.Bill{
		makeBill("BILL-1", testNow, 100, item("Mouse", 1, 100)),
		makeBill("BILL-2", testNow.AddDate(0, 0, -1), 100, item("Mouse", 1, 100)),
	}

	a := Compute(bills, seedProducts(), testNow)

	if len(a.AISalesPrediction) != 2 {
		t.Fatalf("expected 2 outlook entries, got %d", len(a.AISalesPrediction))
	}
	week := a.AISalesPrediction[0]
	month := a.AISalesPrediction[1]

	if week.Period != "Next Week" || month.Period != "Next Month" {
		t.Fatalf("unexpected periods: %q, %q", week.Period, month.Period)
	}

	sum := 0
	for _, f := range a.SalesForecast {
		sum += f.PredictedSales
	}
	if week.PredictedSales != sum {
		t.Errorf("week outlook should equal forecast sum %d, got %d", sum, week.PredictedSales)
	}
	if want := int(math.Round(float64(sum) * 4.3)); month.PredictedSales != want {
		t.Errorf("month outlook should be week*4.3 rounded (%d), got %d", want, month.PredictedSales)
	}
	if month.Confidence > week.Confidence {
		t.Errorf("month confidence must not exceed week confidence")
	}
	if month.Confidence < 60 {
		t.Errorf("confidence below floor: %d", month.Confidence)
	}

	foundHistory := false
	for _, f := range week.Factors {
		if f == "Limited sales history" {
			foundHistory = true
		}
	}
	if !foundHistory {
		t.Errorf("expected 'Limited sales history' factor with 2 bills, got %v", week.Factors)
	}
}

func TestLowStockAlerts(t *testing.T) {
	products := []models.Product{
		{Code: "P001", Name: "Laptop", Price: 50000, Stock: 10},
		{Code: "P004", Name: "Cable", Price: 200, Stock: 2},
		{Code: "P005", Name: "Charger", Price: 900, Stock: 0},
	}

	alerts := lowStockAlerts(products)

	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %d", len(alerts))
	}
	if alerts[0].Code != "P004" || alerts[1].Code != "P005" {
		t.Fatalf("alerts should preserve product order, got %v", alerts)
	}
}

func TestComputeDoesNotMutateInputs(t *testing.T) {
	bills := []models.Bill{
		makeBill("BILL-1", testNow, 100, item("Mouse", 1, 100)),
	}
	products := seedProducts()

	before := products[1].Stock
	_ = Compute(bills, products, testNow)
	if products[1].Stock != before {
		t.Fatalf("Compute mutated its product input")
	}
	if bills[0].Total != 100 || len(bills[0].Items) != 1 {
		t.Fatalf("Compute mutated its bill input")
	}
}
