package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cocktail_agent/pkg/core/agent"
)

// ErrNotFound is returned when a cocktail does not exist or is not owned by
// the requesting user.
var ErrNotFound = errors.New("cocktail not found")

// Cocktail is a stored recipe plus ownership metadata.
type Cocktail struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	Recipe    agent.DrinkRecipe `json:"recipe"`
	CreatedAt string            `json:"created_at"`
}

// CocktailRepo stores generated recipes on a user's shelf. A recipe spans
// four tables: cocktail, user_cocktails (ownership), cocktail_ingredient and
// cocktail_garnish; writes are transactional so a shelf never holds a
// half-saved drink.
type CocktailRepo struct {
	pool *pgxpool.Pool
}

func NewCocktailRepo(pool *pgxpool.Pool) *CocktailRepo {
	return &CocktailRepo{pool: pool}
}

// Create persists a recipe and links it to the user. Returns the new
// cocktail ID.
func (r *CocktailRepo) Create(ctx context.Context, userID string, recipe *agent.DrinkRecipe) (string, error) {
	if r.pool == nil {
		return "", fmt.Errorf("database pool not configured")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	cocktailID := uuid.NewString()

	_, err = tx.Exec(ctx, `
		INSERT INTO cocktail (id, name, description, instructions, glass_type, has_ice)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, cocktailID, recipe.Name, recipe.Description, recipe.Instructions, recipe.GlassType, recipe.HasIce)
	if err != nil {
		return "", fmt.Errorf("failed to insert cocktail: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO user_cocktails (user_id, cocktail_id)
		VALUES ($1, $2)
	`, userID, cocktailID)
	if err != nil {
		return "", fmt.Errorf("failed to link cocktail to user: %w", err)
	}

	for i, ing := range recipe.Ingredients {
		_, err = tx.Exec(ctx, `
			INSERT INTO cocktail_ingredient (cocktail_id, position, name, amount, unit, color)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, cocktailID, i, ing.Name, ing.Amount, ing.Unit, ing.Color)
		if err != nil {
			return "", fmt.Errorf("failed to insert ingredient %d: %w", i, err)
		}
	}

	if recipe.Garnish != nil {
		_, err = tx.Exec(ctx, `
			INSERT INTO cocktail_garnish (cocktail_id, garnish)
			VALUES ($1, $2)
		`, cocktailID, *recipe.Garnish)
		if err != nil {
			return "", fmt.Errorf("failed to insert garnish: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit cocktail: %w", err)
	}
	return cocktailID, nil
}

// ListShelf returns all cocktails owned by the user, newest first.
func (r *CocktailRepo) ListShelf(ctx context.Context, userID string) ([]*Cocktail, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, c.description, c.instructions, c.glass_type, c.has_ice, c.created_at::text
		FROM cocktail c
		JOIN user_cocktails uc ON uc.cocktail_id = c.id
		WHERE uc.user_id = $1
		ORDER BY c.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shelf: %w", err)
	}
	defer rows.Close()

	var cocktails []*Cocktail
	for rows.Next() {
		c := &Cocktail{UserID: userID}
		if err := rows.Scan(&c.ID, &c.Recipe.Name, &c.Recipe.Description, &c.Recipe.Instructions,
			&c.Recipe.GlassType, &c.Recipe.HasIce, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cocktail row: %w", err)
		}
		cocktails = append(cocktails, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range cocktails {
		if err := r.loadDetails(ctx, c); err != nil {
			return nil, err
		}
	}
	return cocktails, nil
}

// ListAll returns every stored cocktail regardless of owner. Used by the
// offline indexer to build the cocktail embedding corpus.
func (r *CocktailRepo) ListAll(ctx context.Context) ([]*Cocktail, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, instructions, glass_type, has_ice, created_at::text
		FROM cocktail
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cocktails: %w", err)
	}
	defer rows.Close()

	var cocktails []*Cocktail
	for rows.Next() {
		c := &Cocktail{}
		if err := rows.Scan(&c.ID, &c.Recipe.Name, &c.Recipe.Description, &c.Recipe.Instructions,
			&c.Recipe.GlassType, &c.Recipe.HasIce, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cocktail row: %w", err)
		}
		cocktails = append(cocktails, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, c := range cocktails {
		if err := r.loadDetails(ctx, c); err != nil {
			return nil, err
		}
	}
	return cocktails, nil
}

// Get returns one cocktail owned by the user, or ErrNotFound.
func (r *CocktailRepo) Get(ctx context.Context, userID string, cocktailID string) (*Cocktail, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	c := &Cocktail{ID: cocktailID, UserID: userID}
	err := r.pool.QueryRow(ctx, `
		SELECT c.name, c.description, c.instructions, c.glass_type, c.has_ice, c.created_at::text
		FROM cocktail c
		JOIN user_cocktails uc ON uc.cocktail_id = c.id
		WHERE c.id = $1 AND uc.user_id = $2
	`, cocktailID, userID).Scan(&c.Recipe.Name, &c.Recipe.Description, &c.Recipe.Instructions,
		&c.Recipe.GlassType, &c.Recipe.HasIce, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cocktail: %w", err)
	}

	if err := r.loadDetails(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a cocktail from the user's shelf. The cocktail row itself is
// removed when no owner remains; child rows cascade.
func (r *CocktailRepo) Delete(ctx context.Context, userID string, cocktailID string) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM user_cocktails WHERE user_id = $1 AND cocktail_id = $2
	`, userID, cocktailID)
	if err != nil {
		return fmt.Errorf("failed to delete cocktail link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	_, err = r.pool.Exec(ctx, `
		DELETE FROM cocktail c
		WHERE c.id = $1
		  AND NOT EXISTS (SELECT 1 FROM user_cocktails uc WHERE uc.cocktail_id = c.id)
	`, cocktailID)
	if err != nil {
		return fmt.Errorf("failed to delete orphaned cocktail: %w", err)
	}
	return nil
}

func (r *CocktailRepo) loadDetails(ctx context.Context, c *Cocktail) error {
	rows, err := r.pool.Query(ctx, `
		SELECT name, amount, unit, color
		FROM cocktail_ingredient
		WHERE cocktail_id = $1
		ORDER BY position
	`, c.ID)
	if err != nil {
		return fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	c.Recipe.Ingredients = nil
	for rows.Next() {
		var ing agent.DrinkIngredient
		if err := rows.Scan(&ing.Name, &ing.Amount, &ing.Unit, &ing.Color); err != nil {
			return fmt.Errorf("failed to scan ingredient row: %w", err)
		}
		c.Recipe.Ingredients = append(c.Recipe.Ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var garnish string
	err = r.pool.QueryRow(ctx, `
		SELECT garnish FROM cocktail_garnish WHERE cocktail_id = $1
	`, c.ID).Scan(&garnish)
	if err == nil {
		c.Recipe.Garnish = &garnish
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to query garnish: %w", err)
	}
	return nil
}
