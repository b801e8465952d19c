package migrations

import (
	_ "embed"
)

//go:embed 0003_create_user_details.sql
var createUserDetailsSQL string

func init() {
	Migrations.MustRegister(
		execSQL(createUserDetailsSQL),
		execSQL(`DROP TABLE IF EXISTS user_details`),
	)
}
