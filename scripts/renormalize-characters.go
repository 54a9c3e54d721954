package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/KirkDiggler/rpg-sheet/internal/config"
	"github.com/KirkDiggler/rpg-sheet/internal/entities/sheet"
	"github.com/KirkDiggler/rpg-sheet/internal/orchestrators/session"
	redisclient "github.com/KirkDiggler/rpg-sheet/internal/redis"
	"github.com/KirkDiggler/rpg-sheet/internal/repositories/character"
)

func main() {
	if err := config.LoadDotEnv(""); err != nil {
		fail("Failed to load env file", err)
	}
	cfg, err := config.Load(nil)
	if err != nil {
		fail("Failed to load config", err)
	}
	addr := cfg.RedisAddr
	if addr == "" {
		addr = "redis://localhost:6379"
	}

	client, err := redisclient.NewClient(addr, nil)
	if err != nil {
		fail("Failed to create Redis client", err)
	}
	defer func() { _ = client.Close() }()

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		fail("Failed to connect to Redis", err)
	}

	repo, err := character.NewRedis(&character.RedisConfig{Client: client})
	if err != nil {
		fail("Failed to create repository", err)
	}

	fmt.Println("Connected to Redis:", addr)
	fmt.Println("Scanning character rows...")

	stale, checked, err := findStale(ctx, repo)
	if err != nil {
		fail("Failed to scan rows", err)
	}

	fmt.Printf("\nChecked %d rows, %d need renormalizing\n", checked, len(stale))
	if len(stale) == 0 {
		fmt.Println("Every row is already normalized!")
		return
	}
	for _, rec := range stale {
		fmt.Printf("  - %s (%s, owner %s)\n", rec.ID, rec.Name, rec.UserID)
	}

	fmt.Print("\nRewrite these rows? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response)
	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}

	rewritten := rewrite(ctx, repo, stale)
	fmt.Printf("\nRewrote %d of %d rows\n", rewritten, len(stale))
}

func fail(msg string, err error) {
	slog.Error(msg, "error", err.Error())
	os.Exit(1)
}

// renormalize returns the row as the current normalizer would write it. The
// row's id and public code are kept so indexes stay valid.
func renormalize(rec *character.Record) (*character.Record, error) {
	c := sheet.NormalizeCharacter(rec.Data)
	c.ID = rec.ID
	if code := sheet.NormalizeCode(rec.PublicCode); code != "" {
		c.PublicCode = code
	}
	return session.ToRecord(c, rec.UserID)
}

// findStale lists every row whose stored document or columns differ from
// their normalized form. The returned rows are already renormalized.
func findStale(ctx context.Context, repo character.Repository) ([]*character.Record, int, error) {
	out, err := repo.ListAll(ctx, character.ListAllInput{})
	if err != nil {
		return nil, 0, err
	}

	var stale []*character.Record
	for _, rec := range out.Records {
		fixed, err := renormalize(rec)
		if err != nil {
			slog.Warn("skipping row", "character_id", rec.ID, "error", err.Error())
			continue
		}
		if !sameDocument(rec.Data, fixed.Data) || rec.Name != fixed.Name || rec.PublicCode != fixed.PublicCode {
			stale = append(stale, fixed)
		}
	}
	return stale, len(out.Records), nil
}

func sameDocument(a, b []byte) bool {
	var ca, cb bytes.Buffer
	if json.Compact(&ca, a) != nil || json.Compact(&cb, b) != nil {
		return false
	}
	return bytes.Equal(ca.Bytes(), cb.Bytes())
}

// rewrite upserts each row and returns how many succeeded
func rewrite(ctx context.Context, repo character.Repository, rows []*character.Record) int {
	var n int
	for _, rec := range rows {
		if _, err := repo.Upsert(ctx, character.UpsertInput{Record: rec}); err != nil {
			fmt.Printf("Failed to rewrite %s: %v\n", rec.ID, err)
			continue
		}
		fmt.Printf("Rewrote %s\n", rec.ID)
		n++
	}
	return n
}
