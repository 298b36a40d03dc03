package service

import (
	"fmt"
	"math"
	"regexp"
	"strconv"

	"github.com/pkordes/trip-planner/internal/domain"
)

// TripStatistics aggregates totals derived purely from the current routes,
// stops, and POI collection. Driving times and distances are parsed back out
// of the provider's formatted strings; a missing hours or minutes component
// counts as zero.
type TripStatistics struct {
	Stops            int    `json:"stops"`
	PointsOfInterest int    `json:"pointsOfInterest"`
	TotalDays        int    `json:"totalDays"`
	TotalDrivingTime string `json:"totalDrivingTime"`
	AvgDrivingTime   string `json:"averageDrivingTime"`
	TotalDistance    string `json:"totalDistance"`
	AvgDistance      string `json:"averageDistance"`
}

var (
	hoursPattern    = regexp.MustCompile(`(\d+)\s*h`)
	minutesPattern  = regexp.MustCompile(`(\d+)\s*m`)
	distancePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*km`)
)

// ComputeStatistics derives aggregate totals from a trip snapshot.
// Placeholder POIs (blank names) are excluded from the POI count. With no
// routes computed yet, all totals and averages are zero-valued strings.
func ComputeStatistics(trip domain.Trip) TripStatistics {
	stats := TripStatistics{
		Stops:     len(trip.Locations),
		TotalDays: trip.TotalDays,
	}
	for _, poi := range trip.PointsOfInterest {
		if poi.HasContent() {
			stats.PointsOfInterest++
		}
	}

	var totalMinutes int
	var totalKm float64
	for _, r := range trip.Routes {
		totalMinutes += parseMinutes(r.DrivingTime)
		totalKm += parseKilometers(r.Distance)
	}

	stats.TotalDrivingTime = formatMinutes(totalMinutes)
	stats.TotalDistance = formatKilometers(totalKm)
	if n := len(trip.Routes); n > 0 {
		// Averages round to whole minutes / two decimal kilometers.
		stats.AvgDrivingTime = formatMinutes(int(math.Round(float64(totalMinutes) / float64(n))))
		stats.AvgDistance = formatKilometers(totalKm / float64(n))
	} else {
		stats.AvgDrivingTime = formatMinutes(0)
		stats.AvgDistance = formatKilometers(0)
	}
	return stats
}

// parseMinutes extracts total minutes from a formatted duration such as
// "2 hours 15 mins" or "45 m". Missing components default to 0.
func parseMinutes(s string) int {
	minutes := 0
	if m := hoursPattern.FindStringSubmatch(s); m != nil {
		h, _ := strconv.Atoi(m[1])
		minutes += h * 60
	}
	if m := minutesPattern.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		minutes += n
	}
	return minutes
}

// parseKilometers extracts the kilometer value from a formatted distance
// such as "184 km" or "20.5 km". Unparseable input counts as 0.
func parseKilometers(s string) float64 {
	m := distancePattern.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	km, _ := strconv.ParseFloat(m[1], 64)
	return km
}

func formatMinutes(total int) string {
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}

func formatKilometers(km float64) string {
	rounded := math.Round(km*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " km"
}
