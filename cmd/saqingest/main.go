// Command saqingest looks up every known ingredient on the SAQ catalog and
// records the best match. Run periodically; results feed the indexer.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"cocktail_agent/pkg/core/config"
	"cocktail_agent/pkg/core/saq"
	"cocktail_agent/pkg/core/store"
)

// requestDelay spaces out catalog calls to stay polite.
const requestDelay = 500 * time.Millisecond

func main() {
	ctx := context.Background()

	settings, err := config.Load()
	if err != nil {
		fmt.Printf("[FATAL] Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if settings.DatabaseURL == "" {
		fmt.Println("[FATAL] DATABASE_URL not set")
		os.Exit(1)
	}

	pool, err := store.Connect(ctx, settings.DatabaseURL)
	if err != nil {
		fmt.Printf("[FATAL] Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	saqRepo := store.NewSAQRepo(pool)
	client := saq.NewClient()

	ingredients, err := saqRepo.ListIngredients(ctx)
	if err != nil {
		fmt.Printf("[FATAL] Failed to list ingredients: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[SAQ] Found %d ingredients to process\n", len(ingredients))

	found, missed, failed := 0, 0, 0
	for _, phrase := range ingredients {
		fmt.Printf("[SAQ] Looking up %q\n", phrase)

		product, err := client.SearchFirst(ctx, phrase)
		if err != nil {
			fmt.Printf("[SAQ] Lookup failed for %q: %v\n", phrase, err)
			failed++
			time.Sleep(requestDelay)
			continue
		}

		if product == nil {
			fmt.Printf("[SAQ] No catalog match for %q\n", phrase)
			missed++
		} else {
			fmt.Printf("[SAQ] Matched %q -> %s (%s, %.2f %s)\n",
				phrase, product.Name, product.Size, product.PriceFinal.Value, product.PriceFinal.Currency)
			found++
		}

		if err := saqRepo.UpsertLookup(ctx, phrase, product); err != nil {
			fmt.Printf("[SAQ] Failed to store lookup for %q: %v\n", phrase, err)
			failed++
		}
		time.Sleep(requestDelay)
	}

	fmt.Printf("[SAQ] Done: %d matched, %d without match, %d failed\n", found, missed, failed)
}
