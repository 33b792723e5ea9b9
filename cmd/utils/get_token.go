package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"flightlo-service/internal/infrastructure/config"
	"flightlo-service/internal/infrastructure/oauth"
)

// Fetches a client-credentials token for a feed to check that the configured
// credentials work.
func main() {
	feedName := flag.String("feed", "amadeus", "feed to authenticate: amadeus or opensky")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var creds *oauth.ClientCredentials
	switch *feedName {
	case "amadeus":
		creds = oauth.NewClientCredentials(cfg.Feeds.AmadeusClientID, cfg.Feeds.AmadeusClientSecret, cfg.Feeds.AmadeusTokenURL)
	case "opensky":
		creds = oauth.NewClientCredentials(cfg.Feeds.OpenSkyClientID, cfg.Feeds.OpenSkyClientSecret, cfg.Feeds.OpenSkyTokenURL)
	default:
		log.Fatalf("Unknown feed %q", *feedName)
	}
	if creds == nil {
		log.Fatalf("Client ID and secret for %s are not set", *feedName)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	token, err := creds.Token(ctx)
	if err != nil {
		log.Fatalf("Failed to fetch token: %v", err)
	}

	tokenJSON, err := oauth.TokenToJSON(token)
	if err != nil {
		log.Fatalf("Failed to encode token: %v", err)
	}
	fmt.Printf("\n%s token:\n%s\n\nExpires: %s\n", *feedName, tokenJSON, token.Expiry.Format(time.RFC3339))
}
