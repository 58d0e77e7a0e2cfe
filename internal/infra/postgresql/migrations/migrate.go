package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/mudassar003/scholarsync/internal/repository"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "000001_create_professors",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.ProfessorModel{}); err != nil {
					return err
				}
				indexes := []string{
					`CREATE INDEX IF NOT EXISTS idx_professors_user_status ON professors (user_id, status)`,
					`CREATE INDEX IF NOT EXISTS idx_professors_due ON professors (user_id, email_date) WHERE status = 'Pending' AND last_notification_sent_at IS NULL`,
				}
				for _, sql := range indexes {
					if err := tx.Exec(sql).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.ProfessorModel{})
			},
		},
		{
			ID: "000002_create_reminder_settings",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&repository.ReminderSettingsModel{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.ReminderSettingsModel{})
			},
		},
		{
			ID: "000003_create_notification_history",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.HistoryModel{}); err != nil {
					return err
				}
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_history_user_created ON notification_history (user_id, created_at DESC)`).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.HistoryModel{})
			},
		},
		{
			ID: "000004_create_lookup_tables",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&repository.UniversityModel{},
					&repository.CountryModel{},
					&repository.ScholarshipModel{},
				)
			},
			Rollback: func(tx *gorm.DB) error {
				if err := tx.Migrator().DropTable(&repository.ScholarshipModel{}); err != nil {
					return err
				}
				if err := tx.Migrator().DropTable(&repository.CountryModel{}); err != nil {
					return err
				}
				return tx.Migrator().DropTable(&repository.UniversityModel{})
			},
		},
	})

	return m.Migrate()
}
