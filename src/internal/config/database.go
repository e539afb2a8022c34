package config

import (
	"wallet-service/src/internal/repository"
	"wallet-service/src/pkg/databases/mysql"
	"wallet-service/src/pkg/log"

	"github.com/spf13/viper"
)

// NewDatabase opens MySQL and, unless database.migrate is false, creates
// the wallet tables. A failed connection yields a handle whose calls
// return mysql.ErrNotConnected.
func NewDatabase(viper *viper.Viper, log log.Log) mysql.DBInterface {
	db, err := mysql.InitConnection(viper, log)
	if err != nil {
		log.Error("database init", err.Error(), "config", "")
		return mysql.NewFromSQLX(nil)
	}

	if viper.GetBool("database.migrate") {
		if err := db.Migrate(repository.Models()...); err != nil {
			log.Error("database migrate", err.Error(), "config", "")
		}
	}
	return db
}
