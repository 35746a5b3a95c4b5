// Command seed loads development fixtures from a YAML file: an admin user,
// a handful of retreats and optionally leads against them. It is idempotent,
// rows that already exist (by slug or email) are skipped.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"retiros_backend/internal/auth/password"
	authrepo "retiros_backend/internal/auth/repository"
	leaddomain "retiros_backend/internal/leads/domain"
	leadrepo "retiros_backend/internal/leads/repository"
	retreatdomain "retiros_backend/internal/retreats/domain"
	retreatrepo "retiros_backend/internal/retreats/repository"
	"retiros_backend/migrations"
	"retiros_backend/platform/apperr"
	"retiros_backend/platform/config"
	"retiros_backend/platform/db"
	"retiros_backend/platform/logger"

	"gopkg.in/yaml.v3"
)

type fixtures struct {
	Admin    *adminFixture    `yaml:"admin"`
	Retreats []retreatFixture `yaml:"retreats"`
	Leads    []leadFixture    `yaml:"leads"`
}

type adminFixture struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type retreatFixture struct {
	Title            string    `yaml:"title"`
	Description      string    `yaml:"description"`
	ShortDescription string    `yaml:"shortDescription"`
	StartDate        time.Time `yaml:"startDate"`
	EndDate          time.Time `yaml:"endDate"`
	LocationName     string    `yaml:"locationName"`
	Address          string    `yaml:"address"`
	City             string    `yaml:"city"`
	Price            float64   `yaml:"price"`
	Currency         string    `yaml:"currency"`
	MaxParticipants  int       `yaml:"maxParticipants"`
	Status           string    `yaml:"status"`
	ShowInHero       bool      `yaml:"showInHero"`
	Experiences      []string  `yaml:"experiences"`
	Includes         []string  `yaml:"includes"`
}

type leadFixture struct {
	Name        string `yaml:"name"`
	Email       string `yaml:"email"`
	Phone       string `yaml:"phone"`
	Message     string `yaml:"message"`
	Interest    string `yaml:"interest"`
	RetreatSlug string `yaml:"retreatSlug"`
}

func main() {
	file := flag.String("file", "seed.yaml", "path to the YAML fixtures file")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("seeding fixtures", "file", *file)

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Error("failed to read fixtures file", "error", err)
		panic("failed to read fixtures file: " + err.Error())
	}

	var fx fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		log.Error("failed to parse fixtures file", "error", err)
		panic("failed to parse fixtures file: " + err.Error())
	}

	ctx := context.Background()

	if err := db.RunMigrations(ctx, cfg, migrations.FS, "."); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	if fx.Admin != nil {
		seedAdmin(ctx, log, authrepo.New(pool), *fx.Admin)
	}

	retreats := retreatrepo.New(pool)
	slugToID := seedRetreats(ctx, log, retreats, fx.Retreats)
	seedLeads(ctx, log, leadrepo.New(pool), slugToID, fx.Leads)

	log.Info("seeding complete")
}

func seedAdmin(ctx context.Context, log *logger.Logger, repo authrepo.Repository, fx adminFixture) {
	hash, err := password.Hash(fx.Password)
	if err != nil {
		log.Error("failed to hash admin password", "error", err)
		return
	}

	_, err = repo.Create(ctx, authrepo.CreateParams{
		Name:         fx.Name,
		Email:        fx.Email,
		PasswordHash: hash,
	})
	switch {
	case err == nil:
		log.Info("admin user created", "email", fx.Email)
	case apperr.IsKind(err, apperr.KindConflict):
		log.Info("admin user already exists, skipping", "email", fx.Email)
	default:
		log.Error("failed to create admin user", "error", err)
	}
}

func seedRetreats(ctx context.Context, log *logger.Logger, repo retreatrepo.Repository, items []retreatFixture) map[string]retreatdomain.Retreat {
	created := make(map[string]retreatdomain.Retreat, len(items))

	for _, fx := range items {
		slug := retreatdomain.Slugify(fx.Title)

		if existing, err := repo.GetBySlug(ctx, slug); err == nil {
			log.Info("retreat already exists, skipping", "slug", slug)
			created[slug] = existing
			continue
		} else if !apperr.IsKind(err, apperr.KindNotFound) {
			log.Error("failed to check retreat", "slug", slug, "error", err)
			continue
		}

		status := retreatdomain.Status(fx.Status)
		if status == "" {
			status = retreatdomain.StatusDraft
		}
		currency := retreatdomain.Currency(fx.Currency)
		if currency == "" {
			currency = retreatdomain.CurrencyARS
		}

		retreat, err := repo.Create(ctx, retreatdomain.Retreat{
			Slug:             slug,
			Title:            fx.Title,
			Description:      fx.Description,
			ShortDescription: fx.ShortDescription,
			StartDate:        fx.StartDate,
			EndDate:          fx.EndDate,
			Location: retreatdomain.Location{
				Name:    fx.LocationName,
				Address: fx.Address,
				City:    fx.City,
			},
			Price:           fx.Price,
			Currency:        currency,
			MaxParticipants: fx.MaxParticipants,
			Experiences:     fx.Experiences,
			Includes:        fx.Includes,
			Status:          status,
			ShowInHero:      fx.ShowInHero,
		})
		if err != nil {
			log.Error("failed to create retreat", "slug", slug, "error", err)
			continue
		}

		created[slug] = retreat
		log.Info("retreat created", "slug", slug, "status", status)
	}

	return created
}

func seedLeads(ctx context.Context, log *logger.Logger, repo leadrepo.Repository, retreats map[string]retreatdomain.Retreat, items []leadFixture) {
	for _, fx := range items {
		retreat, ok := retreats[fx.RetreatSlug]
		if !ok {
			log.Warn("lead references unknown retreat, skipping", "slug", fx.RetreatSlug, "email", fx.Email)
			continue
		}

		interest := leaddomain.Interest(fx.Interest)
		if interest == "" {
			interest = leaddomain.InterestInfo
		}

		_, err := repo.Create(ctx, leadrepo.CreateParams{
			Name:      fx.Name,
			Email:     fx.Email,
			Phone:     fx.Phone,
			Message:   fx.Message,
			Interest:  interest,
			RetreatID: retreat.ID,
			Source:    leaddomain.SourceLanding,
		})
		if err != nil {
			if apperr.IsKind(err, apperr.KindConflict) {
				log.Info("lead already exists, skipping", "email", fx.Email, "slug", fx.RetreatSlug)
				continue
			}
			log.Error("failed to create lead", "email", fx.Email, "error", err)
			continue
		}

		log.Info("lead created", "email", fx.Email, "retreat", fx.RetreatSlug)
	}
}
