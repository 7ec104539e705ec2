// Package todos builds the list page model: projection, category filter and statistics.
package todos

import (
	"math"

	"todolist/internal/models"
)

// Project turns stored todos into view records. imageURL maps a stored image name to a link.
func Project(items []models.Todo, palette models.Palette, imageURL func(string) string) []models.TodoView {
	views := make([]models.TodoView, 0, len(items))
	for _, t := range items {
		v := models.TodoView{
			ID:        t.ID,
			Task:      t.Task,
			Category:  t.Category,
			Color:     palette.Color(t.Category),
			Done:      t.Done,
			Priority:  models.DefaultPriority,
			CreatedAt: t.CreatedAt,
		}
		if t.Image != "" && imageURL != nil {
			v.ImageURL = imageURL(t.Image)
		}
		views = append(views, v)
	}
	return views
}

// Filter keeps views whose category equals category. "all" and "" keep everything.
func Filter(views []models.TodoView, category string) []models.TodoView {
	if category == "" || category == models.FilterAll {
		return views
	}
	out := make([]models.TodoView, 0, len(views))
	for _, v := range views {
		if v.Category == category {
			out = append(out, v)
		}
	}
	return out
}

// ComputeStats counts views and their completion rate.
func ComputeStats(views []models.TodoView) models.Stats {
	st := models.Stats{Total: len(views)}
	for _, v := range views {
		if v.Done {
			st.Completed++
		}
	}
	st.CompletionRate = CompletionRate(st.Completed, st.Total)
	return st
}

// CompletionRate returns completed/total as a percentage rounded to one decimal,
// halves to even; 0 when total is 0.
func CompletionRate(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.RoundToEven(float64(completed)*1000/float64(total)) / 10
}
