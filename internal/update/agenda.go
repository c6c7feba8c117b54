package update

import (
	"fmt"
	"sort"

	"myguide/internal/dateutil"
	"myguide/internal/model"
	"myguide/internal/planner"
	"myguide/internal/store"
)

// refreshAgenda rebuilds the calendar agenda for the week containing the
// focused date: every dated task bucketed to its local day plus every class
// slot that lands in the week.
func (m *Model) refreshAgenda() {
	weekStart := dateutil.StartOfWeek(m.Calendar.FocusDate, m.Store.Settings.WeekStartDay)
	items := make([]AgendaItem, 0)
	for offset := 0; offset < 7; offset++ {
		day := dateutil.AddDays(weekStart, offset)
		key := dateutil.LocalDateKey(day)
		for i := range m.Store.Courses {
			c := &m.Store.Courses[i]
			for _, t := range store.TasksOnLocalDate(c, key) {
				items = append(items, AgendaItem{
					ID:    t.ID,
					Title: c.Label() + ": " + t.Title,
					Date:  key,
					Time:  t.Due.Format("15:04"),
					Kind:  "task",
				})
			}
			for _, ct := range c.ClassTimes {
				if ct.Day != day.Weekday() {
					continue
				}
				items = append(items, AgendaItem{
					ID:    fmt.Sprintf("%s-%s-%s", c.ID, key, ct.Start),
					Title: c.Label(),
					Date:  key,
					Time:  ct.Start,
					Kind:  "class",
				})
			}
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date != items[j].Date {
			return items[i].Date < items[j].Date
		}
		return items[i].Time < items[j].Time
	})
	m.Calendar.Items = items
	if m.Calendar.Cursor >= len(items) {
		m.Calendar.Cursor = 0
	}
}

func planItemsForDay(c *model.Course, weekKey string, offset int) ([]model.WeeklyItem, error) {
	return planner.ItemsForDay(c, weekKey, offset, nil)
}
