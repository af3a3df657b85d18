// Package fixtures holds the static seed data shown next to a live session:
// past drives, weekly chart series, stat cards and articles.
package fixtures

import (
	"math"

	"codeberg.org/mutker/drivemon/internal/biometric"
)

// DriveRecord is one entry of the drive history list.
type DriveRecord struct {
	ID       string
	Date     string
	Duration string
	Distance string
	Location string
	Alerts   int
	Status   biometric.Status
}

// Point is one chart sample.
type Point struct {
	X int
	Y float64
}

// Series is a named chart line.
type Series struct {
	Channel biometric.Channel
	Points  []Point
}

// Summary describes a series.
type Summary struct {
	Min, Max, Mean float64
}

// Change is the week-over-week delta of a stat card, in percent.
type Change struct {
	Value      int
	IsPositive bool
}

// Stat is a headline statistic.
type Stat struct {
	Title  string
	Value  string
	Unit   string
	Change Change
	Icon   string
}

// Article is an entry on the learn screen.
type Article struct {
	ID       string
	Title    string
	Excerpt  string
	ImageURL string
	ReadTime string
	Category string
}

// Category groups articles.
type Category struct {
	ID   string
	Name string
}

func DriveHistory() []DriveRecord {
	return []DriveRecord{
		{ID: "1", Date: "Today, 3:45 PM", Duration: "1h 23m", Distance: "45 km", Location: "Home to Office", Alerts: 2, Status: biometric.StatusWarning},
		{ID: "2", Date: "Today, 9:12 AM", Duration: "32m", Distance: "12 km", Location: "Office to Meeting", Alerts: 0, Status: biometric.StatusNormal},
		{ID: "3", Date: "Yesterday, 6:30 PM", Duration: "45m", Distance: "23 km", Location: "Office to Home", Alerts: 4, Status: biometric.StatusCritical},
		{ID: "4", Date: "Yesterday, 8:15 AM", Duration: "35m", Distance: "14 km", Location: "Home to Office", Alerts: 1, Status: biometric.StatusWarning},
		{ID: "5", Date: "2 days ago, 7:20 PM", Duration: "1h 10m", Distance: "52 km", Location: "Office to Restaurant", Alerts: 0, Status: biometric.StatusNormal},
	}
}

func ChartSeries() []Series {
	return []Series{
		{Channel: biometric.HeartRate, Points: points(72, 75, 79, 82, 76, 71, 74)},
		{Channel: biometric.HRV, Points: points(45, 42, 39, 35, 38, 43, 40)},
		{Channel: biometric.GSR, Points: points(8.2, 9.1, 10.3, 14.7, 12.5, 10.8, 9.4)},
	}
}

func points(ys ...float64) []Point {
	out := make([]Point, len(ys))
	for i, y := range ys {
		out[i] = Point{X: i, Y: y}
	}

	return out
}

// Summary returns min, max and mean of the series. An empty series yields zeros.
func (s Series) Summary() Summary {
	if len(s.Points) == 0 {
		return Summary{}
	}

	sum := Summary{Min: math.Inf(1), Max: math.Inf(-1)}
	var total float64
	for _, p := range s.Points {
		sum.Min = math.Min(sum.Min, p.Y)
		sum.Max = math.Max(sum.Max, p.Y)
		total += p.Y
	}
	sum.Mean = total / float64(len(s.Points))

	return sum
}

func Stats() []Stat {
	return []Stat{
		{Title: "Avg. Heart Rate", Value: "74", Unit: "BPM", Change: Change{Value: 5}, Icon: "heart"},
		{Title: "Avg. Drive Duration", Value: "45", Unit: "min", Change: Change{Value: 12, IsPositive: true}, Icon: "clock"},
		{Title: "Alert Frequency", Value: "1.4", Unit: "/drive", Change: Change{Value: 8}, Icon: "zap"},
		{Title: "Total Drives", Value: "28", Unit: "", Change: Change{Value: 15, IsPositive: true}, Icon: "car"},
	}
}

func Categories() []Category {
	return []Category{
		{ID: "technology", Name: "Technology"},
		{ID: "health", Name: "Health"},
		{ID: "safety", Name: "Safety"},
	}
}

func Articles() []Article {
	return []Article{
		{
			ID:       "1",
			Title:    "How Smart Rings Monitor Your Health",
			Excerpt:  "Learn about the advanced sensors in smart rings and how they track your vital signs.",
			ImageURL: "https://images.pexels.com/photos/4047186/pexels-photo-4047186.jpeg",
			ReadTime: "3 min read",
			Category: "technology",
		},
		{
			ID:       "2",
			Title:    "Signs of Drowsiness While Driving",
			Excerpt:  "Recognize the early signs of fatigue and drowsiness to prevent accidents.",
			ImageURL: "https://images.pexels.com/photos/7357/startup-photos.jpg",
			ReadTime: "4 min read",
			Category: "safety",
		},
		{
			ID:       "3",
			Title:    "Heart Rate Variability Explained",
			Excerpt:  "Understanding HRV and why it is an important indicator of your health.",
			ImageURL: "https://images.pexels.com/photos/9464471/pexels-photo-9464471.jpeg",
			ReadTime: "5 min read",
			Category: "health",
		},
		{
			ID:       "4",
			Title:    "Preventing Driver Fatigue",
			Excerpt:  "Practical tips to stay alert and avoid fatigue during long drives.",
			ImageURL: "https://images.pexels.com/photos/1231643/pexels-photo-1231643.jpeg",
			ReadTime: "4 min read",
			Category: "safety",
		},
		{
			ID:       "5",
			Title:    "The Future of Wearable Technology",
			Excerpt:  "How wearables are evolving to save lives and improve health outcomes.",
			ImageURL: "https://images.pexels.com/photos/4482911/pexels-photo-4482911.jpeg",
			ReadTime: "6 min read",
			Category: "technology",
		},
	}
}

// ArticlesByCategory filters Articles by category id. An empty id returns all.
func ArticlesByCategory(id string) []Article {
	all := Articles()
	if id == "" {
		return all
	}

	var out []Article
	for _, a := range all {
		if a.Category == id {
			out = append(out, a)
		}
	}

	return out
}
