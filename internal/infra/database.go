package infra

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/model"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (the pgvector extension and the ledger's composite unique
// index must exist before any insert).
//
// TranslateError is ON: the check-in pipeline relies on gorm.ErrDuplicatedKey
// to detect a concurrent duplicate at insert time.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	// The vector extension must exist before AutoMigrate touches the
	// empleados.descriptor column.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector`).Error; err != nil {
		return nil, fmt.Errorf("pgvector extension: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Ubicacion{},
		&model.Turno{},
		&model.Empleado{},
		&model.RegistroChequeo{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// fully handle on its own. Each statement uses IF NOT EXISTS / existence-check
// semantics so re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Safety net: deployments migrated before the composite tag existed
		// carry the ledger table without its uniqueness authority.
		`DO $$ BEGIN
		  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'registro_chequeos')
		    AND NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uq_chequeo_dia') THEN
		    CREATE UNIQUE INDEX uq_chequeo_dia
		        ON registro_chequeos (empleado_id, fecha, tipo);
		  END IF;
		END $$`,
		// Index for the daily report query (whole-company scan by date).
		`DO $$ BEGIN
		  IF EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'registro_chequeos')
		    AND NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_chequeos_fecha') THEN
		    CREATE INDEX idx_chequeos_fecha
		        ON registro_chequeos (fecha);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

// RunMigrations applies the full schema for integration tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS vector`).Error; err != nil {
		return err
	}
	if err := db.AutoMigrate(
		&model.Ubicacion{},
		&model.Turno{},
		&model.Empleado{},
		&model.RegistroChequeo{},
	); err != nil {
		return err
	}
	return applySchemaPatches(db)
}
