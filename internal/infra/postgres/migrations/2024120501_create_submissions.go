package migrations

import (
	_ "embed"
)

//go:embed 0002_create_submissions.sql
var createSubmissionsSQL string

func init() {
	Migrations.MustRegister(
		execSQL(createSubmissionsSQL),
		execSQL(`DROP TABLE IF EXISTS submissions`),
	)
}
