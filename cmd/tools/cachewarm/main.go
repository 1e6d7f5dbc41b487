package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/bikecast/bikecast/internal/config"
	"github.com/bikecast/bikecast/internal/logging"
	"github.com/bikecast/bikecast/internal/utils"
	"github.com/bikecast/bikecast/internal/weather"
	"github.com/joho/godotenv"
)

func main() {
	// Command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	location := flag.String("location", "", "Query location (default: weather.location from config)")
	from := flag.String("from", "", "First date to fetch (yyyy-mm-dd)")
	to := flag.String("to", "", "Last date to fetch (yyyy-mm-dd)")
	out := flag.String("out", "", "Cache CSV to append to (default: weather.cache_file from config)")

	flag.Parse()

	// Validate required parameters
	if *from == "" || *to == "" {
		log.Fatal("Error: -from and -to parameters are required (format: yyyy-mm-dd)")
	}

	start, err := time.Parse(utils.DateFormat, *from)
	if err != nil {
		log.Fatalf("Error: Invalid -from date '%s'. Expected yyyy-mm-dd\n", *from)
	}
	end, err := time.Parse(utils.DateFormat, *to)
	if err != nil {
		log.Fatalf("Error: Invalid -to date '%s'. Expected yyyy-mm-dd\n", *to)
	}
	if end.Before(start) {
		log.Fatalf("Error: -to date %s precedes -from date %s\n", *to, *from)
	}

	// Load .env overrides if present
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error loading config: %v\n", err)
	}

	if !cfg.Weather.NetworkBackfillEnabled() {
		log.Fatal("Error: no weather API key configured (weather.api_key or BIKECAST_WEATHER_API_KEY)")
	}

	if *location == "" {
		*location = cfg.Weather.Location
	}
	if *out == "" {
		*out = cfg.Weather.CacheFile
	}
	if *out == "" {
		log.Fatal("Error: no cache file configured; pass -out or set weather.cache_file")
	}

	client := weather.NewClient(cfg.Weather, logging.NewDevelopment())

	fmt.Printf("Fetching weather for %s from %s to %s\n", *location, *from, *to)

	// The range is inclusive, so extend the end to the day's final hour
	count, err := client.CachePeriod(context.Background(), *location, *out,
		start, end.Add(utils.EndOfDayHour*time.Hour))
	if err != nil {
		log.Fatalf("Error warming cache: %v\n", err)
	}

	if count == 0 {
		log.Printf("Warning: no rows fetched\n")
		return
	}

	fmt.Printf("Successfully appended %d rows to: %s\n", count, *out)
}
