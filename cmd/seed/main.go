// Command seed creates an initial organisation and an active admin user
// against the configured storage backend.
//
//	AUTH_ACCESS_SECRET=... AUTH_REFRESH_SECRET=... \
//	STORAGE_DRIVER=mongo STORAGE_DSN=mongodb://localhost:27017 \
//	go run ./cmd/seed -email admin@example.com -password changeme -org "Acme" -slug acme
package main

import (
	"context"
	"errors"
	"flag"
	"strings"
	"time"

	"saasbase.org/internal/auth"
	"saasbase.org/internal/config"
	"saasbase.org/internal/db"
	"saasbase.org/internal/obs"
	"saasbase.org/internal/org"
)

func main() {
	var (
		email    = flag.String("email", "", "admin email (required)")
		password = flag.String("password", "", "admin password (required)")
		orgName  = flag.String("org", "", "organisation name (required)")
		slug     = flag.String("slug", "", "organisation slug (defaults from name)")
	)
	flag.Parse()

	cfg := config.MustLoad()
	obs.InitLogger(obs.LogOptions{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	log := obs.Logger()

	if *email == "" || *password == "" || *orgName == "" {
		log.Fatal("-email, -password and -org are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		users auth.UserStore
		orgs  org.Store
	)
	switch cfg.Storage.Driver {
	case "mongo":
		mdb, err := db.OpenMongo(ctx, cfg.Storage.DSN, cfg.Storage.Database)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		defer func() { _ = mdb.Client().Disconnect(context.Background()) }()
		userStore := auth.NewMongoUserStore(mdb)
		orgStore := org.NewMongoStore(mdb)
		if err := userStore.EnsureIndexes(ctx); err != nil {
			log.Fatalf("user indexes: %v", err)
		}
		if err := orgStore.EnsureIndexes(ctx); err != nil {
			log.Fatalf("organisation indexes: %v", err)
		}
		users, orgs = userStore, orgStore
	case "postgres":
		pool, err := db.OpenPostgres(cfg.Storage.DSN)
		if err != nil {
			log.Fatalf("storage: %v", err)
		}
		defer func() { _ = pool.Close() }()
		users = auth.NewPGUserStore(pool)
		orgs = org.NewPGStore(pool)
	default:
		log.Fatal("seed needs a persistent storage.driver (mongo or postgres)")
	}

	orgSvc, err := org.NewService(orgs)
	if err != nil {
		log.Fatalf("organisation service: %v", err)
	}

	orgSlug := *slug
	if orgSlug == "" {
		orgSlug = slugify(*orgName)
	}
	created, err := orgSvc.Create(ctx, org.CreateInput{
		Name: *orgName,
		Slug: orgSlug,
	})
	if err != nil && !errors.Is(err, org.ErrSlugTaken) {
		log.Fatalf("create organisation: %v", err)
	}
	orgID := ""
	if err == nil {
		orgID = created.ID
		log.Infof("created organisation %s (%s)", created.Name, created.Slug)
	} else {
		log.Warnf("organisation slug already taken, creating user without one")
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}
	user := &auth.User{
		Email:          *email,
		PasswordHash:   hash,
		Status:         auth.StatusActive,
		OrganisationID: orgID,
	}
	if err := users.Insert(ctx, user); err != nil {
		if errors.Is(err, auth.ErrConflict) {
			log.Fatalf("user %s already exists", *email)
		}
		log.Fatalf("create user: %v", err)
	}
	log.Infof("created admin user %s (%s)", user.Email, user.ID)
}

// slugify lowercases the name and joins its alphanumeric runs with hyphens.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
