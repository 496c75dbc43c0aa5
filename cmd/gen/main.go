package main

import (
	"lebay/internal/infra/persistence/model"

	"gorm.io/gen"
)

// Generates typed query helpers for the marketplace models into
// internal/infra/persistence/postgres/query.
func main() {
	gen := gen.NewGenerator(gen.Config{
		OutPath:       "./internal/infra/persistence/postgres/query",
		Mode:          gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable: true,
	})

	gen.ApplyBasic(model.AllModels()...)

	gen.Execute()
}
