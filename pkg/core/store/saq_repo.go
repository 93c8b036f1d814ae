package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"cocktail_agent/pkg/core/saq"
)

// SAQRepo stores catalog lookups that map recipe ingredients to real
// purchasable bottles. One row per ingredient phrase; a lookup that found
// nothing is recorded too so the ingest loop does not re-query it blindly.
type SAQRepo struct {
	pool *pgxpool.Pool
}

func NewSAQRepo(pool *pgxpool.Pool) *SAQRepo {
	return &SAQRepo{pool: pool}
}

// ListIngredients returns the distinct ingredient names across all stored
// recipes. The ingest command looks each one up on the catalog.
func (r *SAQRepo) ListIngredients(ctx context.Context) ([]string, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT name FROM cocktail_ingredient ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// UpsertLookup records the catalog result for one ingredient phrase. A nil
// product clears any previous match and bumps last_checked.
func (r *SAQRepo) UpsertLookup(ctx context.Context, phrase string, product *saq.Product) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}

	query := `
		INSERT INTO saq_product (
			phrase, saq_name, saq_url, size,
			price_final_value, price_final_currency,
			price_regular_value, price_regular_currency,
			last_checked
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (phrase)
		DO UPDATE SET
			saq_name = EXCLUDED.saq_name,
			saq_url = EXCLUDED.saq_url,
			size = EXCLUDED.size,
			price_final_value = EXCLUDED.price_final_value,
			price_final_currency = EXCLUDED.price_final_currency,
			price_regular_value = EXCLUDED.price_regular_value,
			price_regular_currency = EXCLUDED.price_regular_currency,
			last_checked = NOW()
	`

	var (
		name, url, size                *string
		finalValue, regularValue       *float64
		finalCurrency, regularCurrency *string
	)
	if product != nil {
		name = &product.Name
		if product.URL != "" {
			url = &product.URL
		}
		if product.Size != "" {
			size = &product.Size
		}
		finalValue = &product.PriceFinal.Value
		finalCurrency = &product.PriceFinal.Currency
		regularValue = &product.PriceRegular.Value
		regularCurrency = &product.PriceRegular.Currency
	}

	_, err := r.pool.Exec(ctx, query, phrase, name, url, size,
		finalValue, finalCurrency, regularValue, regularCurrency)
	if err != nil {
		return fmt.Errorf("failed to upsert SAQ lookup for %q: %w", phrase, err)
	}
	return nil
}

// ListLookups returns stored catalog matches that found a product, as
// content strings ready for embedding.
func (r *SAQRepo) ListLookups(ctx context.Context) ([]SAQLookup, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT phrase, saq_name, saq_url, COALESCE(size, ''),
		       COALESCE(price_final_value, 0), COALESCE(price_final_currency, '')
		FROM saq_product
		WHERE saq_name IS NOT NULL
		ORDER BY phrase
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query SAQ lookups: %w", err)
	}
	defer rows.Close()

	var lookups []SAQLookup
	for rows.Next() {
		var l SAQLookup
		if err := rows.Scan(&l.Phrase, &l.Name, &l.URL, &l.Size, &l.PriceValue, &l.PriceCurrency); err != nil {
			return nil, fmt.Errorf("failed to scan SAQ lookup: %w", err)
		}
		lookups = append(lookups, l)
	}
	return lookups, rows.Err()
}

// SAQLookup is a stored catalog match for one ingredient phrase.
type SAQLookup struct {
	Phrase        string
	Name          string
	URL           string
	Size          string
	PriceValue    float64
	PriceCurrency string
}

// Describe renders the lookup as a retrieval document.
func (l SAQLookup) Describe() string {
	s := fmt.Sprintf("%s (catalog match for %q)", l.Name, l.Phrase)
	if l.Size != "" {
		s += ", " + l.Size
	}
	if l.PriceValue > 0 {
		s += fmt.Sprintf(", %.2f %s", l.PriceValue, l.PriceCurrency)
	}
	return s
}
