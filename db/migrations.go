package db

import (
	"fmt"

	"gorm.io/gorm"
)

// CreateFriendshipStatusEnum creates the friendship_status ENUM if it does
// not exist. Postgres only; sqlite test databases keep the plain varchar.
func CreateFriendshipStatusEnum(db *gorm.DB) error {
	createEnumSQL := `
	DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'friendship_status') THEN
			CREATE TYPE friendship_status AS ENUM ('pending', 'accepted', 'rejected');
		END IF;
	END
	$$;
	`
	if err := db.Exec(createEnumSQL).Error; err != nil {
		return fmt.Errorf("failed to create enum friendship_status: %w", err)
	}
	return nil
}

// CreateHotPathIndexes adds the composite indexes the calendar aggregation
// and the requests inbox hit on every load.
func CreateHotPathIndexes(db *gorm.DB) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_events_user_id_date ON events (user_id, date);`,
		`CREATE INDEX IF NOT EXISTS idx_friendships_receiver_status ON friendships (receiver_id, status);`,
		`CREATE INDEX IF NOT EXISTS idx_friendships_sender_status ON friendships (sender_id, status);`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
