package models

// Movie represents a film in the catalog
type Movie struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Genre       string   `json:"genre"`
	Director    string   `json:"director"`
	ReleaseDate string   `json:"releaseDate"`
	RunningTime string   `json:"runningTime"`
	Language    string   `json:"language,omitempty"`
	BasePrice   float64  `json:"basePrice"`
	Showtimes   []string `json:"showtimes"`
	Experiences []string `json:"experiences"`
}

// Experience labels with a price multiplier
const (
	ExperienceStandard  = "Standard"
	ExperienceIMAX      = "IMAX"
	ExperienceGoldClass = "Gold Class"
)

// DefaultShowtimes and DefaultExperiences are assigned to every movie read
// back from storage; schedules are not part of the persisted record.
var (
	DefaultShowtimes   = []string{"10:00 AM", "2:00 PM", "8:00 PM"}
	DefaultExperiences = []string{ExperienceStandard, ExperienceIMAX, ExperienceGoldClass}
)
