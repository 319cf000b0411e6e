package movieclient

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Render draws m as a two column table.
func Render(m Movie) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetTitle(m.Title)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: text.Colors{text.Bold}},
		{Number: 2, WidthMax: 80},
	})

	t.AppendRows([]table.Row{
		{"Year", m.Year},
		{"Genre", m.Genre},
		{"Director", m.Director},
		{"Writer", m.Writer},
		{"Actors", m.Actors},
		{"Country", m.Country},
		{"Plot", m.Plot},
		{"IMDB Rating", imdbRating(m.ImdbRating)},
		{"Poster", m.Poster},
	})

	return t.Render()
}

// the rating is out of 10, also shown on a 5 star scale
func imdbRating(rating string) string {
	r, err := strconv.ParseFloat(rating, 64)
	if err != nil {
		return rating
	}
	return fmt.Sprintf("%s (%.1f/5)", rating, r/2)
}
