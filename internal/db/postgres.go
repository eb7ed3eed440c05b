package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Kirill-Svitsov/foodgram-project-react/internal/logger"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/types"
	"github.com/Kirill-Svitsov/foodgram-project-react/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "foodgram", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrate(s.db); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	for _, stmt := range []string{
		`ALTER TABLE "user_token" ADD CONSTRAINT "fk_user_token_user_id" FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`,
		`ALTER TABLE "recipe" ADD CONSTRAINT "fk_recipe_author_id" FOREIGN KEY ("author_id") REFERENCES "user"("id") ON DELETE CASCADE`,
		`ALTER TABLE "recipe_ingredient" ADD CONSTRAINT "fk_recipe_ingredient_recipe_id" FOREIGN KEY ("recipe_id") REFERENCES "recipe"("id") ON DELETE CASCADE`,
		`ALTER TABLE "recipe_ingredient" ADD CONSTRAINT "fk_recipe_ingredient_ingredient_id" FOREIGN KEY ("ingredient_id") REFERENCES "ingredient"("id")`,
		`ALTER TABLE "user_recipe" ADD CONSTRAINT "fk_user_recipe_user_id" FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`,
		`ALTER TABLE "user_recipe" ADD CONSTRAINT "fk_user_recipe_recipe_id" FOREIGN KEY ("recipe_id") REFERENCES "recipe"("id") ON DELETE CASCADE`,
		`ALTER TABLE "follow" ADD CONSTRAINT "fk_follow_user_id" FOREIGN KEY ("user_id") REFERENCES "user"("id") ON DELETE CASCADE`,
		`ALTER TABLE "follow" ADD CONSTRAINT "fk_follow_author_id" FOREIGN KEY ("author_id") REFERENCES "user"("id") ON DELETE CASCADE`,
	} {
		if err := s.db.Exec(stmt).Error; err != nil {
			s.log.Warn("Failed to add foreign key constraint", "stmt", stmt, "error", err)
		}
	}
	return nil
}

// AutoMigrate migrates every model; shared with the sqlite-backed tests.
func AutoMigrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Tag{},
		&types.Ingredient{},
		&types.Recipe{},
		&types.RecipeIngredient{},
		&types.UserRecipe{},
		&types.Follow{},
	)
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
