package usecase

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"flightlo-service/internal/domain/entity"
	"flightlo-service/pkg/utils"
)

// HaulTier classifies a route by great-circle distance
type HaulTier string

const (
	ShortHaul  HaulTier = "short"
	MediumHaul HaulTier = "medium"
	LongHaul   HaulTier = "long"
)

const (
	// DefaultDistanceKm is used when either airport lacks coordinates
	DefaultDistanceKm = 1000.0
	cruiseSpeedKmh    = 800.0
	minimumPrice      = 100.0
	priceJitter       = 200.0
	premiumMultiplier = 1.3
	peakMultiplier    = 1.2
	departuresOnBoard = 10
)

type tierProfile struct {
	basePrice float64
	aircraft  []string
	// departure slots as hour, minute
	slots [][2]int
}

var tierProfiles = map[HaulTier]tierProfile{
	ShortHaul: {
		basePrice: 150,
		aircraft:  []string{"Boeing 737-800", "Airbus A320", "Embraer E190", "CRJ-900"},
		slots: [][2]int{
			{6, 0}, {7, 30}, {9, 0}, {10, 30}, {12, 0}, {13, 30},
			{15, 0}, {16, 30}, {18, 0}, {19, 30}, {21, 0},
		},
	},
	MediumHaul: {
		basePrice: 450,
		aircraft:  []string{"Boeing 757-200", "Airbus A321", "Boeing 767-300", "Airbus A330-200"},
		slots:     [][2]int{{6, 30}, {8, 45}, {11, 15}, {14, 0}, {17, 10}, {20, 30}},
	},
	LongHaul: {
		basePrice: 800,
		aircraft:  []string{"Boeing 777-300ER", "Boeing 787-9", "Airbus A350-900", "Airbus A380", "Boeing 747-8"},
		slots:     [][2]int{{9, 40}, {13, 15}, {18, 30}, {22, 5}},
	},
}

var premiumAirlines = map[string]bool{
	"EK": true, "QR": true, "SQ": true, "CX": true, "NH": true,
	"JL": true, "LX": true, "BA": true, "LH": true, "AF": true,
}

// countryAirlines lists carriers considered relevant for routes touching a country.
// Keys are lowercase country names as they appear in the catalog.
var countryAirlines = map[string][]string{
	"united states":        {"AA", "DL", "UA"},
	"united kingdom":       {"BA", "VS", "U2"},
	"germany":              {"LH"},
	"france":               {"AF"},
	"netherlands":          {"KL"},
	"switzerland":          {"LX"},
	"austria":              {"LH"},
	"ireland":              {"FR"},
	"united arab emirates": {"EK"},
	"qatar":                {"QR"},
	"singapore":            {"SQ"},
	"hong kong":            {"CX"},
	"japan":                {"JL", "NH"},
	"turkey":               {"TK"},
	"russia":               {"SU"},
	"india":                {"AI"},
	"ethiopia":             {"ET"},
	"canada":               {"AC"},
	"australia":            {"QF"},
}

// defaultAirlines is used when the catalog holds no airlines
var defaultAirlines = []entity.Airline{
	{Code: "AA", Name: "American Airlines"},
	{Code: "DL", Name: "Delta Air Lines"},
	{Code: "UA", Name: "United Airlines"},
	{Code: "BA", Name: "British Airways"},
	{Code: "LH", Name: "Lufthansa"},
	{Code: "AF", Name: "Air France"},
	{Code: "EK", Name: "Emirates"},
	{Code: "SQ", Name: "Singapore Airlines"},
}

// StatusWeight is one option of the weighted status draw
type StatusWeight struct {
	Status entity.FlightStatus
	Weight float64
}

var (
	// SearchStatusWeights are used for generated search results
	SearchStatusWeights = []StatusWeight{
		{entity.StatusOnTime, 0.6},
		{entity.StatusDelayed, 0.2},
		{entity.StatusBoarding, 0.15},
		{entity.StatusDeparted, 0.05},
	}
	// BoardStatusWeights are used for airport departure boards
	BoardStatusWeights = []StatusWeight{
		{entity.StatusOnTime, 0.6},
		{entity.StatusDelayed, 0.2},
		{entity.StatusBoarding, 0.1},
		{entity.StatusDeparted, 0.08},
		{entity.StatusCancelled, 0.02},
	}
)

// scheduleRoutes are the routes shown on an airline's schedule page
var scheduleRoutes = [][2]string{
	{"JFK", "LAX"}, {"LHR", "CDG"}, {"DXB", "SIN"},
	{"NRT", "SYD"}, {"FRA", "JFK"}, {"AMS", "BOM"},
}

// FlightGenerator fabricates plausible flights when live feeds have nothing.
// Every flight it creates is tagged as simulated.
type FlightGenerator struct {
	catalog *Catalog
	count   int

	mu  sync.Mutex
	rng *rand.Rand

	now   func() time.Time
	newID func() string
}

// GeneratorOption customizes a FlightGenerator
type GeneratorOption func(*FlightGenerator)

// WithRandSource makes generation reproducible
func WithRandSource(src rand.Source) GeneratorOption {
	return func(g *FlightGenerator) {
		g.rng = rand.New(src)
	}
}

// WithClock overrides the generator's notion of now
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *FlightGenerator) {
		g.now = now
	}
}

// NewFlightGenerator creates a generator producing count flights per route search
func NewFlightGenerator(catalog *Catalog, count int, opts ...GeneratorOption) *FlightGenerator {
	if count <= 0 {
		count = 8
	}
	g := &FlightGenerator{
		catalog: catalog,
		count:   count,
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Distance returns the great-circle distance between two airports, or
// DefaultDistanceKm when either lacks coordinates.
func Distance(origin, destination entity.Airport) float64 {
	if origin.Coordinates == nil || destination.Coordinates == nil {
		return DefaultDistanceKm
	}
	return utils.HaversineDistance(
		origin.Coordinates.Lat, origin.Coordinates.Lng,
		destination.Coordinates.Lat, destination.Coordinates.Lng,
	)
}

// TierFor classifies a distance in kilometres
func TierFor(km float64) HaulTier {
	switch {
	case km < 1000:
		return ShortHaul
	case km < 3000:
		return MediumHaul
	default:
		return LongHaul
	}
}

// AircraftPool returns the aircraft types flown on a tier
func AircraftPool(tier HaulTier) []string {
	pool := tierProfiles[tier].aircraft
	out := make([]string, len(pool))
	copy(out, pool)
	return out
}

// DurationMinutes converts a distance into block time at cruise speed.
// Distinct points always take at least one minute.
func DurationMinutes(km float64) int {
	if km <= 0 {
		return 0
	}
	minutes := int(math.Ceil(km / cruiseSpeedKmh * 60))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// Generate fabricates flights from origin to destination on the day of when.
// A nil airline picks carriers relevant to the route's countries. It never fails.
func (g *FlightGenerator) Generate(origin, destination entity.Airport, when time.Time, airline *entity.Airline) []entity.Flight {
	km := Distance(origin, destination)
	tier := TierFor(km)
	profile := tierProfiles[tier]
	duration := DurationMinutes(km)

	originLoc := utils.LoadLocationOrUTC(origin.Timezone)
	destLoc := utils.LoadLocationOrUTC(destination.Timezone)
	// A requested date is a calendar day; only "now" needs converting to local time.
	day := when
	if day.IsZero() {
		day = g.now().In(originLoc)
	}

	var airlines []entity.Airline
	if airline != nil {
		airlines = []entity.Airline{*airline}
	} else {
		airlines = g.relevantAirlines(origin.Country, destination.Country)
	}

	flights := make([]entity.Flight, 0, g.count)
	for i := 0; i < g.count; i++ {
		carrier := airlines[i%len(airlines)]
		slot := profile.slots[i%len(profile.slots)]
		departDay := day.AddDate(0, 0, i/len(profile.slots))
		departure := utils.AtLocalTime(departDay, slot[0], slot[1], originLoc)

		flights = append(flights, g.newFlight(
			carrier, origin, destination, departure, destLoc, duration, tier, SearchStatusWeights,
		))
	}
	return flights
}

func (g *FlightGenerator) newFlight(
	carrier entity.Airline,
	origin, destination entity.Airport,
	departure time.Time,
	destLoc *time.Location,
	duration int,
	tier HaulTier,
	weights []StatusWeight,
) entity.Flight {
	arrival := departure.Add(time.Duration(duration) * time.Minute).In(destLoc)

	return entity.Flight{
		ID:           g.newID(),
		AirlineCode:  carrier.Code,
		AirlineName:  carrier.Name,
		FlightNumber: g.flightNumber(carrier.Code),
		Departure: entity.FlightEndpoint{
			Airport: origin.Ref(),
			Time:    departure,
			Gate:    g.gate(),
		},
		Arrival: entity.FlightEndpoint{
			Airport: destination.Ref(),
			Time:    arrival,
			Gate:    g.gate(),
		},
		DurationMinutes: duration,
		Price:           g.Price(tier, carrier.Code, departure.Hour()),
		Status:          g.PickStatus(weights),
		AircraftType:    g.pick(tierProfiles[tier].aircraft),
		Provenance:      entity.ProvenanceGenerator,
		Simulated:       true,
	}
}

// relevantAirlines ranks catalog airlines serving either country first and
// keeps the generator's flight count.
func (g *FlightGenerator) relevantAirlines(countries ...string) []entity.Airline {
	var all []entity.Airline
	if g.catalog != nil {
		all = g.catalog.Airlines()
	}
	if len(all) == 0 {
		all = append([]entity.Airline(nil), defaultAirlines...)
	}

	relevant := make(map[string]bool)
	for _, country := range countries {
		for _, code := range countryAirlines[strings.ToLower(strings.TrimSpace(country))] {
			relevant[code] = true
		}
	}
	sort.SliceStable(all, func(i, j int) bool {
		return relevant[all[i].Code] && !relevant[all[j].Code]
	})

	return Limit(all, g.count)
}

// Price applies the tier base price, premium and peak multipliers and a uniform
// jitter of ±200, never going below 100.
func (g *FlightGenerator) Price(tier HaulTier, airlineCode string, departureHour int) float64 {
	price := tierProfiles[tier].basePrice
	if premiumAirlines[strings.ToUpper(airlineCode)] {
		price *= premiumMultiplier
	}
	if isPeakHour(departureHour) {
		price *= peakMultiplier
	}
	price += g.randFloat()*2*priceJitter - priceJitter
	return math.Max(minimumPrice, math.Round(price))
}

func isPeakHour(hour int) bool {
	return (hour >= 7 && hour <= 9) || (hour >= 17 && hour <= 19)
}

// PickStatus draws a status with one uniform draw against cumulative weights
func (g *FlightGenerator) PickStatus(weights []StatusWeight) entity.FlightStatus {
	if len(weights) == 0 {
		return entity.StatusOnTime
	}
	total := 0.0
	for _, w := range weights {
		total += w.Weight
	}
	draw := g.randFloat() * total
	cumulative := 0.0
	for _, w := range weights {
		cumulative += w.Weight
		if draw < cumulative {
			return w.Status
		}
	}
	return weights[len(weights)-1].Status
}

// Enrich fills the fields live feeds leave empty: price, gates, duration and
// aircraft type. Provenance and the simulated flag are left untouched.
func (g *FlightGenerator) Enrich(f *entity.Flight) {
	km := DefaultDistanceKm
	if g.catalog != nil {
		origin, okOrigin := g.catalog.Airport(f.Departure.Airport.Code)
		dest, okDest := g.catalog.Airport(f.Arrival.Airport.Code)
		if okOrigin && okDest {
			km = Distance(origin, dest)
		}
	}
	tier := TierFor(km)

	if f.DurationMinutes <= 0 {
		if !f.Departure.Time.IsZero() && f.Arrival.Time.After(f.Departure.Time) {
			f.DurationMinutes = int(f.Arrival.Time.Sub(f.Departure.Time).Minutes())
		} else {
			f.DurationMinutes = DurationMinutes(km)
		}
	}
	if f.Price <= 0 {
		hour := 12
		if !f.Departure.Time.IsZero() {
			hour = f.Departure.Time.Hour()
		}
		f.Price = g.Price(tier, f.AirlineCode, hour)
	}
	if f.Departure.Gate == "" {
		f.Departure.Gate = g.gate()
	}
	if f.Arrival.Gate == "" {
		f.Arrival.Gate = g.gate()
	}
	if f.AircraftType == "" {
		f.AircraftType = g.pick(tierProfiles[tier].aircraft)
	}
}

// DeparturesBoard lists upcoming generated departures from origin to other
// catalog airports, one per hour starting now.
func (g *FlightGenerator) DeparturesBoard(origin entity.Airport) []entity.Flight {
	if g.catalog == nil {
		return nil
	}
	originLoc := utils.LoadLocationOrUTC(origin.Timezone)
	airlines := g.relevantAirlines(origin.Country)
	start := g.now().In(originLoc).Truncate(time.Minute)

	flights := make([]entity.Flight, 0, departuresOnBoard)
	for _, dest := range g.catalog.Airports() {
		if len(flights) == departuresOnBoard {
			break
		}
		if dest.Code == origin.Code {
			continue
		}
		i := len(flights)
		km := Distance(origin, dest)
		departure := start.Add(time.Duration(i+1) * time.Hour)
		flights = append(flights, g.newFlight(
			airlines[i%len(airlines)], origin, dest, departure,
			utils.LoadLocationOrUTC(dest.Timezone), DurationMinutes(km), TierFor(km), BoardStatusWeights,
		))
	}
	return flights
}

// AirlineSchedule lists one generated flight per schedule route for airline.
// Routes whose airports are missing from the catalog are skipped.
func (g *FlightGenerator) AirlineSchedule(airline entity.Airline, when time.Time) []entity.Flight {
	if g.catalog == nil {
		return nil
	}
	flights := make([]entity.Flight, 0, len(scheduleRoutes))
	for i, route := range scheduleRoutes {
		origin, ok := g.catalog.Airport(route[0])
		if !ok {
			continue
		}
		dest, ok := g.catalog.Airport(route[1])
		if !ok {
			continue
		}
		originLoc := utils.LoadLocationOrUTC(origin.Timezone)
		day := when
		if day.IsZero() {
			day = g.now().In(originLoc)
		}
		departure := utils.AtLocalTime(day, 8+2*i, 0, originLoc)
		km := Distance(origin, dest)
		flights = append(flights, g.newFlight(
			airline, origin, dest, departure,
			utils.LoadLocationOrUTC(dest.Timezone), DurationMinutes(km), TierFor(km), SearchStatusWeights,
		))
	}
	return flights
}

// AirportStatistics returns illustrative facility numbers for an airport
func (g *FlightGenerator) AirportStatistics(airport entity.Airport) entity.AirportStatistics {
	stats := entity.AirportStatistics{
		Terminals:      2 + g.intN(4),
		Gates:          50 + g.intN(100),
		Runways:        2 + g.intN(3),
		OperatingHours: "24/7",
		DailyFlights:   200 + g.intN(800),
	}
	if g.catalog != nil {
		stats.Airlines = len(g.catalog.Airlines())
		if n := len(g.catalog.Airports()); n > 0 {
			stats.Destinations = n - 1
		}
	}
	return stats
}

func (g *FlightGenerator) flightNumber(airlineCode string) string {
	return fmt.Sprintf("%s%d", airlineCode, 1000+g.intN(9000))
}

func (g *FlightGenerator) gate() string {
	return fmt.Sprintf("%c%d", 'A'+rune(g.intN(6)), 1+g.intN(20))
}

func (g *FlightGenerator) pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[g.intN(len(options))]
}

func (g *FlightGenerator) randFloat() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Float64()
}

func (g *FlightGenerator) intN(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.IntN(n)
}
