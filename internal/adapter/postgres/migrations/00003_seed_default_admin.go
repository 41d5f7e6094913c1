package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	goose.AddMigrationContext(upSeedDefaultAdmin, downSeedDefaultAdmin)
}

// Seeds the initial admin account so a fresh install has a staff login.
// The password must be changed after first login.
func upSeedDefaultAdmin(ctx context.Context, tx *sql.Tx) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
INSERT INTO users (username, password_hash, role)
VALUES ('admin', $1, 'admin')
ON CONFLICT (username) DO NOTHING
`, string(hash))
	return err
}

func downSeedDefaultAdmin(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM users WHERE username = 'admin' AND role = 'admin'`)
	return err
}
