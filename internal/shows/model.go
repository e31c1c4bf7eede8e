package shows

import "fmt"

// Collection names one of the two per-user show lists.
type Collection string

const (
	Favorites Collection = "fav"
	Later     Collection = "later"
)

// table is the only place a Collection becomes SQL text.
func (c Collection) table() (string, error) {
	switch c {
	case Favorites:
		return "fav_shows", nil
	case Later:
		return "later_shows", nil
	default:
		return "", fmt.Errorf("shows: unknown collection %q", string(c))
	}
}

// Entry is one show reference in a collection.
type Entry struct {
	ShowID     string `json:"show_id"`
	ShowType   string `json:"show_type"`
	ShowPoster string `json:"show_poster"`
	ShowName   string `json:"show_name"`
}
