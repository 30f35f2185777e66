package analytics

import (
	"sort"
	"time"

	"github.com/lumiforge/vidlinkgen-backend/internal/models"
	"github.com/lumiforge/vidlinkgen-backend/internal/ydb"
)

const (
	dayLayout   = "2006-01-02"
	topLinksMax = 5
)

// startOfDay полночь дня t в зоне loc
func startOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// SeriesStart начало первого дня окна из days дней, заканчивающегося сегодня
func SeriesStart(now time.Time, loc *time.Location, days int) time.Time {
	return startOfDay(now, loc).AddDate(0, 0, -(days - 1))
}

// BucketDaily раскладывает клики по локальным календарным дням, от старого к новому.
// Дни без кликов присутствуют с нулем, события вне окна отбрасываются.
func BucketDaily(events []*ydb.ClickEvent, now time.Time, loc *time.Location, days int) []*models.DailyClicks {
	start := SeriesStart(now, loc, days)

	series := make([]*models.DailyClicks, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format(dayLayout)
		series[i] = &models.DailyClicks{Date: day}
		index[day] = i
	}

	for _, e := range events {
		if i, ok := index[e.ClickedAt.In(loc).Format(dayLayout)]; ok {
			series[i].Clicks++
		}
	}
	return series
}

// Summarize считает сводку по набору ссылок
func Summarize(links []*ydb.VideoLink, now time.Time, loc *time.Location) models.SummaryResponse {
	lnow := now.In(loc)
	monthStart := time.Date(lnow.Year(), lnow.Month(), 1, 0, 0, 0, 0, loc)

	summary := models.SummaryResponse{TotalLinks: len(links), TopLinks: []*models.TopLink{}}
	for _, l := range links {
		summary.TotalClicks += l.Clicks
		if l.ExpiresAt == nil || l.ExpiresAt.After(now) {
			summary.ActiveLinks++
		}
		if !l.CreatedAt.Before(monthStart) {
			summary.CreatedThisMonth++
		}
	}

	ranked := make([]*ydb.VideoLink, len(links))
	copy(ranked, links)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Clicks != ranked[j].Clicks {
			return ranked[i].Clicks > ranked[j].Clicks
		}
		return ranked[i].CreatedAt.After(ranked[j].CreatedAt)
	})
	for i := 0; i < len(ranked) && i < topLinksMax; i++ {
		summary.TopLinks = append(summary.TopLinks, &models.TopLink{
			LinkID:   ranked[i].LinkID,
			Name:     ranked[i].Name,
			ShortURL: ranked[i].ShortURL,
			Clicks:   ranked[i].Clicks,
		})
	}
	return summary
}
