package launch

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/denisenkom/go-mssqldb" // MS SQL Server driver
	_ "github.com/go-sql-driver/mysql"   // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib"   // PostgreSQL driver (database/sql)
	_ "modernc.org/sqlite"               // SQLite driver

	"github.com/ruslano69/launchdash/pkg/retry"
)

// driverName - имя database/sql драйвера для типа источника
func driverName(kind string) string {
	switch kind {
	case SourceSQLite:
		return "sqlite"
	case SourcePostgres:
		return "pgx"
	case SourceMySQL:
		return "mysql"
	case SourceMSSQL:
		return "mssql"
	}
	return ""
}

func loadSQLWithRetry(ctx context.Context, cfg SourceConfig) ([]Record, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%s source requires dsn", cfg.Kind())
	}

	r, err := retrier(cfg)
	if err != nil {
		return nil, err
	}

	var records []Record
	err = r.Do(ctx, func(ctx context.Context) error {
		recs, err := loadSQL(ctx, cfg)
		if err != nil {
			return err
		}
		records = recs
		return nil
	})
	return records, err
}

// loadSQL выполняет запрос и читает результат как прямоугольную таблицу.
// Ошибки разбора данных помечаются permanent: повтор их не исправит.
func loadSQL(ctx context.Context, cfg SourceConfig) ([]Record, error) {
	db, err := sql.Open(driverName(cfg.Kind()), cfg.DSN)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("open %s: %w", cfg.Kind(), err))
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, cfg.query())
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	header, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	var table [][]string
	for rows.Next() {
		cells := make([]sql.NullString, len(header))
		dest := make([]any, len(header))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		row := make([]string, len(header))
		for i, c := range cells {
			row[i] = c.String
		}
		table = append(table, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	records, err := parseTable(header, table)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			return nil, retry.Permanent(err)
		}
		return nil, err
	}
	return records, nil
}
