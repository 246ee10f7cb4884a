package migrations

import (
	"database/sql"
	"fmt"
	"time"

	"storefront-service/internal/store"
)

// AutoMigrateCollections creates the kv_<collection> record tables if they do
// not exist.
func AutoMigrateCollections(retries int, db *sql.DB, collections ...string) error {
	for _, collection := range collections {
		query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			position INT AUTO_INCREMENT PRIMARY KEY,
			id VARCHAR(64) NOT NULL UNIQUE,
			data JSON NOT NULL
		);
	`, store.TableName(collection))

		_, err := db.Exec(query)
		if err != nil {
			// Retry creating the table
			for i := 0; i < retries; i++ {
				time.Sleep(1 * time.Second)
				_, err = db.Exec(query)
				if err == nil {
					break
				}
			}
		}
		if err != nil {
			return fmt.Errorf("failed to migrate collection %s: %v", collection, err)
		}
	}
	return nil
}
