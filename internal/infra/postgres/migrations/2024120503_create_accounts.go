package migrations

import (
	_ "embed"
)

//go:embed 0004_create_accounts.sql
var createAccountsSQL string

func init() {
	Migrations.MustRegister(
		execSQL(createAccountsSQL),
		execSQL(`DROP TABLE IF EXISTS quiz_attempts; DROP TABLE IF EXISTS user_accounts`),
	)
}
