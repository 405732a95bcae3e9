package main

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"jobwatch-engine/internal/config"
	"jobwatch-engine/internal/render"
	"jobwatch-engine/internal/scrape"
	"jobwatch-engine/internal/scrape/booking"
	"jobwatch-engine/internal/scrape/email"
	"jobwatch-engine/internal/scrape/hellofresh"
	"jobwatch-engine/internal/scrape/uber"
	"jobwatch-engine/internal/secrets"
	"jobwatch-engine/internal/store"
)

func main() {
	_ = godotenv.Load()

	// one-shot secret storage, so credentials never have to live in env files:
	//   engine set-secret store-token < token.txt
	if len(os.Args) > 1 && os.Args[1] == "set-secret" {
		if len(os.Args) != 3 {
			log.Fatal("usage: engine set-secret <account>")
		}
		setSecret(os.Args[2])
		return
	}

	dsn := strings.TrimSpace(os.Getenv("JOBWATCH_STORE_DSN"))
	if dsn == "" {
		log.Fatal("JOBWATCH_STORE_DSN is required")
	}
	var token string
	if store.NeedsToken(dsn) {
		t, err := secrets.Resolve("JOBWATCH_STORE_TOKEN", "store-token")
		if err != nil {
			log.Fatalf("store credentials: %v", err)
		}
		token = t
	}

	cfgPath := os.Getenv("JOBWATCH_SOURCES")
	if cfgPath == "" {
		cfgPath = filepath.Join("config", "sources.yml")
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed (%s): %v", cfgPath, err)
	}
	cfg, v := config.NormalizeAndValidate(cfg)
	for _, w := range v.Warnings {
		log.Printf("[config] warning: %s", w)
	}
	if !v.OK() {
		log.Fatalf("config invalid: %s", strings.Join(v.Errors, "; "))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	st, err := store.Open(ctx, dsn, token)
	if err != nil {
		log.Fatalf("store open failed (%s): %v", dsn, err)
	}
	defer st.Close()

	renderer := render.NewSwitch(cfg.Fetch)
	defer renderer.Close()

	reg := scrape.NewRegistry(
		hellofresh.New(renderer),
		uber.New(renderer),
		booking.New(renderer),
	)
	if cfg.Email.Enabled {
		pw, err := secrets.Resolve("JOBWATCH_IMAP_PASSWORD", cfg.Email.KeyringAccount)
		if err != nil {
			log.Fatalf("imap password: %v", err)
		}
		reg.Register(email.New(cfg.Email, pw))
	}

	res, err := scrape.Run(ctx, cfg, st, reg)
	if err != nil {
		log.Fatalf("run failed: %v", err)
	}
	log.Printf("[run] done sources=%d candidates=%d new=%d", res.Sources, res.Candidates, len(res.NewBatch))
}

// setSecret reads one value from stdin and stores it in the OS keyring. An
// empty value deletes the account's entry.
func setSecret(account string) {
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatalf("read secret from stdin: %v", err)
	}
	value := strings.TrimSpace(string(b))
	if err := secrets.Set(account, value); err != nil {
		log.Fatalf("store secret %q: %v", account, err)
	}
	if value == "" {
		log.Printf("[secrets] deleted account %q", account)
		return
	}
	log.Printf("[secrets] stored account %q", account)
}
