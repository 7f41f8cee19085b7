package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/config"
	"github.com/almightyeric/VisaTrack-Visa-Management/pkg/models"
)

// DB wraps the gorm.DB instance with additional functionality
type DB struct {
	*gorm.DB
	config *config.DatabaseConfig
}

// New creates a new database connection
func New(cfg *config.DatabaseConfig) (*DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.GetDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	// Configure GORM
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	// Open database connection
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB for connection pooling
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)

	// Test the connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		DB:     db,
		config: cfg,
	}, nil
}

// Migrate runs database migrations
func (db *DB) Migrate() error {
	if err := models.AutoMigrate(db.DB); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := models.CreateIndexes(db.DB); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// SeedVisaTypes seeds the visa-type encyclopedia with initial entries.
// Existing codes are left untouched.
func (db *DB) SeedVisaTypes() error {
	visaTypes := []models.VisaType{
		{
			Code:          "TH-TR",
			Country:       "Thailand",
			NameEN:        "Tourist Visa (TR)",
			NameZH:        "旅游签证 (TR)",
			NameKM:        "ទិដ្ឋាការទេសចរណ៍ (TR)",
			DescriptionEN: "Single-entry tourist visa valid for a 60-day stay, extendable once by 30 days.",
			DescriptionZH: "单次入境旅游签证，可停留60天，可延期一次30天。",
			Materials: models.JSON{
				"en": []interface{}{"Passport valid 6 months", "Photo 4x6cm", "Proof of funds", "Return ticket"},
			},
			DurationDays:       60,
			ProcessingTimeDays: 3,
			FeeUSD:             40,
			IsActive:           true,
		},
		{
			Code:          "KH-EB",
			Country:       "Cambodia",
			NameEN:        "Business Visa Extension (EB)",
			NameZH:        "商务签证延期 (EB)",
			NameKM:        "ការបន្តទិដ្ឋាការអាជីវកម្ម (EB)",
			DescriptionEN: "Extension of stay for E-class visa holders working or doing business in Cambodia.",
			Materials: models.JSON{
				"en": []interface{}{"Passport with E-class visa", "Work permit or employment letter"},
			},
			DurationDays:       365,
			ProcessingTimeDays: 10,
			FeeUSD:             290,
			IsActive:           true,
		},
		{
			Code:               "VN-DL",
			Country:            "Vietnam",
			NameEN:             "Tourist Visa (DL)",
			NameZH:             "旅游签证 (DL)",
			DescriptionEN:      "Tourist visa for visits up to 90 days, single or multiple entry.",
			DurationDays:       90,
			ProcessingTimeDays: 5,
			FeeUSD:             25,
			IsActive:           true,
		},
		{
			Code:               "CN-L",
			Country:            "China",
			NameEN:             "Tourist Visa (L)",
			NameZH:             "旅游签证 (L类)",
			DescriptionEN:      "Issued to foreigners entering China for tourism.",
			DurationDays:       30,
			ProcessingTimeDays: 7,
			FeeUSD:             140,
			IsActive:           true,
		},
		{
			Code:               "US-B1B2",
			Country:            "United States",
			NameEN:             "Visitor Visa (B-1/B-2)",
			NameZH:             "访问签证 (B-1/B-2)",
			DescriptionEN:      "Nonimmigrant visa for business (B-1) and tourism or medical treatment (B-2).",
			DurationDays:       180,
			ProcessingTimeDays: 30,
			FeeUSD:             185,
			IsActive:           true,
		},
		{
			Code:               "SG-TV",
			Country:            "Singapore",
			NameEN:             "Tourist Visa",
			NameZH:             "旅游签证",
			DescriptionEN:      "Entry visa for nationals of visa-required countries, typically 30-day stay.",
			DurationDays:       30,
			ProcessingTimeDays: 3,
			FeeUSD:             22,
			IsActive:           true,
		},
	}

	for _, visaType := range visaTypes {
		var existing models.VisaType
		result := db.Where("code = ?", visaType.Code).First(&existing)
		if result.Error == gorm.ErrRecordNotFound {
			if err := db.Create(&visaType).Error; err != nil {
				return fmt.Errorf("failed to seed visa type %s: %w", visaType.Code, err)
			}
		}
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck performs a health check on the database
func (db *DB) HealthCheck() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return sqlDB.PingContext(ctx)
}
