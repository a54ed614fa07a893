package sales

import (
	"sort"
	"time"

	"nexuspos-backend/internal/models"

	"gorm.io/gorm"
)

type DailyTotal struct {
	Date      string  `json:"date"`
	Total     float64 `json:"total"`
	Cash      float64 `json:"cash"`
	Transfers float64 `json:"transfers"`
	Count     int     `json:"count"`
}

type ProductRank struct {
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Quantity    int     `json:"quantity"`
	Total       float64 `json:"total"`
}

type CategoryTotal struct {
	Category string  `json:"category"`
	Quantity int     `json:"quantity"`
	Total    float64 `json:"total"`
}

type Summary struct {
	Count     int     `json:"count"`
	Total     float64 `json:"total"`
	Cash      float64 `json:"cash"`
	Transfers float64 `json:"transfers"`
	Average   float64 `json:"average"`
}

func salesBetween(db *gorm.DB, from, to time.Time) ([]models.Sale, error) {
	var rows []models.Sale
	err := db.Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// SummaryBetween acumula ventas del rango [from, to).
func SummaryBetween(db *gorm.DB, from, to time.Time) (*Summary, error) {
	rows, err := salesBetween(db, from, to)
	if err != nil {
		return nil, err
	}
	s := &Summary{Count: len(rows)}
	for _, sale := range rows {
		s.Total += sale.Total
		s.Cash += sale.Cash
		s.Transfers += sale.Transfers
	}
	if s.Count > 0 {
		s.Average = s.Total / float64(s.Count)
	}
	return s, nil
}

// DailyTotals devuelve un renglón por día de los últimos `days` días,
// incluidos los días sin ventas.
func DailyTotals(db *gorm.DB, days int) ([]DailyTotal, error) {
	if days <= 0 {
		days = 7
	}
	now := time.Now()
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	start := end.AddDate(0, 0, -days)

	rows, err := salesBetween(db, start, end)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]*DailyTotal, days)
	result := make([]DailyTotal, 0, days)
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		result = append(result, DailyTotal{Date: key})
		byDay[key] = &result[len(result)-1]
	}
	for _, sale := range rows {
		key := sale.CreatedAt.Format("2006-01-02")
		if day, ok := byDay[key]; ok {
			day.Total += sale.Total
			day.Cash += sale.Cash
			day.Transfers += sale.Transfers
			day.Count++
		}
	}
	return result, nil
}

// TopProducts rankea productos vendidos en el rango, decodificando las
// líneas congeladas de cada venta. Un producto borrado del catálogo sigue
// apareciendo con su nombre de entonces.
func TopProducts(db *gorm.DB, from, to time.Time, limit int) ([]ProductRank, error) {
	rows, err := salesBetween(db, from, to)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[string]*ProductRank)
	for i := range rows {
		lines, err := Lines(&rows[i])
		if err != nil {
			return nil, err
		}
		for _, l := range lines {
			rank, ok := byProduct[l.ProductName]
			if !ok {
				rank = &ProductRank{ProductName: l.ProductName, Category: l.Category}
				byProduct[l.ProductName] = rank
			}
			rank.Quantity += l.Quantity
			rank.Total += l.Subtotal
		}
	}

	result := make([]ProductRank, 0, len(byProduct))
	for _, r := range byProduct {
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Quantity != result[j].Quantity {
			return result[i].Quantity > result[j].Quantity
		}
		return result[i].ProductName < result[j].ProductName
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ByCategory acumula ventas del rango por categoría.
func ByCategory(db *gorm.DB, from, to time.Time) ([]CategoryTotal, error) {
	rows, err := salesBetween(db, from, to)
	if err != nil {
		return nil, err
	}

	byCat := make(map[string]*CategoryTotal)
	for i := range rows {
		lines, err := Lines(&rows[i])
		if err != nil {
			return nil, err
		}
		for _, l := range lines {
			cat, ok := byCat[l.Category]
			if !ok {
				cat = &CategoryTotal{Category: l.Category}
				byCat[l.Category] = cat
			}
			cat.Quantity += l.Quantity
			cat.Total += l.Subtotal
		}
	}

	result := make([]CategoryTotal, 0, len(byCat))
	for _, c := range byCat {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Total > result[j].Total
	})
	return result, nil
}
