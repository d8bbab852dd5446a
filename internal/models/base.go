package models

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// InitDB opens the MySQL connection and migrates the schema.
// TranslateError makes uniqueness and foreign key violations surface as
// gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated across drivers.
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// AutoMigrate creates or updates the tables for every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Usuario{},
		&Paciente{},
		&Medico{},
		&Consulta{},
		&Prontuario{},
		&Exame{},
		&Prescricao{},
	)
}
