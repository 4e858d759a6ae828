// Command token-generator mints signed JWTs for local development and
// manual API testing. The signing secret must match the server's
// FLASHDECK_AUTH_JWT_SECRET so the tokens are accepted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/flashdeck/flashdeck-api/internal/config"
	"github.com/flashdeck/flashdeck-api/internal/service/auth"
)

func main() {
	userID := flag.String("user", "dev-user", "subject user ID for the token")
	secret := flag.String("secret", os.Getenv("FLASHDECK_AUTH_JWT_SECRET"), "JWT signing secret (min 32 chars)")
	lifetime := flag.Int("lifetime", 60, "token lifetime in minutes")
	unlimitedDecks := flag.Bool("unlimited-decks", false, "grant the unlimited decks entitlement")
	aiGeneration := flag.Bool("ai-generation", false, "grant the AI generation entitlement")
	flag.Parse()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            *secret,
		TokenLifetimeMinutes: *lifetime,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	token, err := jwtService.GenerateToken(context.Background(), auth.Identity{
		UserID: *userID,
		Entitlements: auth.Entitlements{
			UnlimitedDecks: *unlimitedDecks,
			AIGeneration:   *aiGeneration,
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
