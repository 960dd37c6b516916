// internal/config/database.go
package config

import (
	"fmt"
)

func (d *DatabaseConfig) DSN() string {
	if d.Driver == "sqlite" {
		return fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", d.Path, d.BusyTimeout)
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode,
	)
}
