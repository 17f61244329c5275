// Package schema bootstraps the database layout and migrates the one legacy
// table generation this application ever shipped: order items that carried
// the product name and unit price inline instead of referencing produtos.
package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/kcmvp/orderdesk/store"
)

// ErrMigration wraps every failure of the legacy-table rewrite.
var ErrMigration = errors.New("schema: migration failure")

// Version is the current schema generation. Generation 1 stored product name
// and price inline in itens_pedido; generation 2 references produtos by id.
const Version = 2

const (
	createSchemaVersion = `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER NOT NULL
	);`

	createClientes = `CREATE TABLE IF NOT EXISTS clientes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL,
		email TEXT,
		telefone TEXT
	);`

	createProdutos = `CREATE TABLE IF NOT EXISTS produtos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		nome TEXT NOT NULL,
		preco_unit REAL NOT NULL DEFAULT 0
	);`

	createPedidos = `CREATE TABLE IF NOT EXISTS pedidos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		id_cliente INTEGER NOT NULL,
		data TEXT NOT NULL,
		total REAL DEFAULT 0,
		FOREIGN KEY (id_cliente) REFERENCES clientes (id)
	);`

	// Foreign keys are declared but not enforced: SQLite leaves enforcement
	// off unless the connection opts in, and this application deliberately
	// keeps the permissive behavior (deleting a customer leaves its orders
	// dangling rather than blocking).
	createItensPedido = `CREATE TABLE IF NOT EXISTS itens_pedido (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pedido_id INTEGER NOT NULL,
		produto_id INTEGER NOT NULL,
		quantidade INTEGER NOT NULL,
		FOREIGN KEY (pedido_id) REFERENCES pedidos (id),
		FOREIGN KEY (produto_id) REFERENCES produtos (id)
	);`
)

// Ensure creates any missing tables and, when it finds the legacy
// itens_pedido shape, rewrites it to the normalized one. It must run once at
// startup before any other storage access.
//
// Ensure is idempotent: against an already-normalized schema it only replays
// CREATE TABLE IF NOT EXISTS statements. A migration failure is returned so
// the caller can log it, but the intended policy is to proceed with startup
// regardless — the transaction rollback guarantees whichever table generation
// existed before is still intact.
func Ensure(ctx context.Context) error {
	if res := store.Exec(ctx, createSchemaVersion); res.IsError() {
		return res.Error()
	}
	ver, err := currentVersion(ctx)
	if err != nil {
		return err
	}

	for _, ddl := range []string{createClientes, createProdutos, createPedidos} {
		if res := store.Exec(ctx, ddl); res.IsError() {
			return res.Error()
		}
	}

	if ver == Version {
		// Normalized already; make sure the item table exists and stop.
		return store.Exec(ctx, createItensPedido).Error()
	}

	legacy, err := hasLegacyItemTable(ctx)
	if err != nil {
		return err
	}
	if legacy {
		if err := migrateLegacyItems(ctx); err != nil {
			return fmt.Errorf("%w: %v", ErrMigration, err)
		}
		return nil
	}

	// Fresh database, or a pre-version one that is already normalized.
	if res := store.Exec(ctx, createItensPedido); res.IsError() {
		return res.Error()
	}
	return recordVersion(ctx, nil)
}

// currentVersion reads the schema_version record; 0 means no record yet
// (a fresh database or one created before versioning existed).
func currentVersion(ctx context.Context) (int64, error) {
	res := store.Query(ctx, "SELECT version FROM schema_version LIMIT 1")
	if res.IsError() {
		return 0, res.Error()
	}
	rows := res.MustGet()
	if len(rows) == 0 {
		return 0, nil
	}
	return asInt64(rows[0][0]), nil
}

// hasLegacyItemTable introspects itens_pedido: the legacy generation has a
// `produto` text column, the normalized one a `produto_id` column. An absent
// table is not legacy.
func hasLegacyItemTable(ctx context.Context) (bool, error) {
	res := store.Query(ctx, "PRAGMA table_info(itens_pedido)")
	if res.IsError() {
		return false, res.Error()
	}
	for _, row := range res.MustGet() {
		if asString(row[1]) == "produto" {
			return true, nil
		}
	}
	return false, nil
}

type legacyItem struct {
	orderID  int64
	product  string
	quantity int64
}

// migrateLegacyItems rewrites the legacy item table inside one transaction:
// rename it aside, create the normalized table, remap every legacy row to a
// product id by exact name lookup, drop the renamed table, record the new
// schema version. Rows whose product name matches nothing in produtos are
// dropped; when several products share a name the lowest id wins.
func migrateLegacyItems(ctx context.Context) error {
	var dropped int
	err := store.WithTx(ctx, func(tx store.Conn) error {
		if res := store.ExecOn(ctx, tx, "ALTER TABLE itens_pedido RENAME TO itens_pedido_legada"); res.IsError() {
			return res.Error()
		}
		if res := store.ExecOn(ctx, tx, createItensPedido); res.IsError() {
			return res.Error()
		}

		items := store.SelectOn(ctx, tx,
			"SELECT pedido_id, produto, quantidade FROM itens_pedido_legada",
			func(rows *sql.Rows) (legacyItem, error) {
				var it legacyItem
				err := rows.Scan(&it.orderID, &it.product, &it.quantity)
				return it, err
			})
		if items.IsError() {
			return items.Error()
		}

		for _, it := range items.MustGet() {
			match := store.QueryOn(ctx, tx, "SELECT MIN(id) FROM produtos WHERE nome = ?", it.product)
			if match.IsError() {
				return match.Error()
			}
			rows := match.MustGet()
			if len(rows) == 0 || rows[0][0] == nil {
				dropped++
				continue
			}
			ins := store.ExecOn(ctx, tx,
				"INSERT INTO itens_pedido (pedido_id, produto_id, quantidade) VALUES (?, ?, ?)",
				it.orderID, asInt64(rows[0][0]), it.quantity)
			if ins.IsError() {
				return ins.Error()
			}
		}

		if res := store.ExecOn(ctx, tx, "DROP TABLE itens_pedido_legada"); res.IsError() {
			return res.Error()
		}
		return recordVersion(ctx, tx)
	})
	if err != nil {
		return err
	}
	if dropped > 0 {
		log.Printf("schema: dropped %d legacy order item(s) with no matching product", dropped)
	}
	return nil
}

// recordVersion stamps the schema_version table, on tx when non-nil.
func recordVersion(ctx context.Context, tx store.Conn) error {
	del, ins := "DELETE FROM schema_version", "INSERT INTO schema_version (version) VALUES (?)"
	if tx != nil {
		if res := store.ExecOn(ctx, tx, del); res.IsError() {
			return res.Error()
		}
		return store.ExecOn(ctx, tx, ins, Version).Error()
	}
	if res := store.Exec(ctx, del); res.IsError() {
		return res.Error()
	}
	return store.Exec(ctx, ins, Version).Error()
}

// The sqlite3 driver hands back int64 for INTEGER and string for TEXT when
// scanning into any, but PRAGMA output and aggregate columns are looser.
func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case float64:
		return int64(t)
	default:
		return 0
	}
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
