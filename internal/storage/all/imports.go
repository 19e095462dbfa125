// Package all wires every built-in storage backend into the storage factory.
//
// It exists purely for side effects: importing it runs the init functions of
// the concrete backends, which register their factories and DDL
// bootstrappers. A binary that needs only a subset of backends can import
// those packages directly instead.
package all

import (
	_ "github.com/lily4499/superstore-sql-project/internal/storage/mssql"
	_ "github.com/lily4499/superstore-sql-project/internal/storage/postgres"
	_ "github.com/lily4499/superstore-sql-project/internal/storage/sqlite"
)
