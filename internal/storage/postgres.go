package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq"
)

// PostgresGateway stores each collection as jsonb document rows keyed by
// (collection, seq). A save replaces the whole collection inside one SQL
// transaction, which keeps the overwrite semantics crash-safe.
type PostgresGateway struct {
	db *sql.DB
}

// NewPostgresGateway connects and verifies the connection.
func NewPostgresGateway(connStr string) (*PostgresGateway, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return &PostgresGateway{db: db}, nil
}

// InitSchema creates the documents table.
func (g *PostgresGateway) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS documents (
		collection VARCHAR(32) NOT NULL,
		seq INT NOT NULL,
		doc JSONB NOT NULL,
		PRIMARY KEY (collection, seq)
	);`

	_, err := g.db.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}
	return nil
}

func (g *PostgresGateway) LoadCollection(ctx context.Context, name string, out any) error {
	rows, err := g.db.QueryContext(
		ctx,
		"SELECT doc FROM documents WHERE collection = $1 ORDER BY seq",
		name,
	)
	if err != nil {
		return fmt.Errorf("failed to query collection %s: %w", name, err)
	}
	defer rows.Close()

	docs := make([]json.RawMessage, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, json.RawMessage(doc))
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read collection %s: %w", name, err)
	}
	if len(docs) == 0 {
		return nil
	}

	data, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("failed to assemble collection %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode collection %s: %w", name, err)
	}
	return nil
}

func (g *PostgresGateway) SaveCollection(ctx context.Context, name string, records any) (err error) {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", name, err)
	}
	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		return fmt.Errorf("failed to split collection %s: %w", name, err)
	}

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM documents WHERE collection = $1", name); err != nil {
		return fmt.Errorf("failed to clear collection %s: %w", name, err)
	}
	for i, doc := range docs {
		if _, err = tx.ExecContext(
			ctx,
			"INSERT INTO documents (collection, seq, doc) VALUES ($1, $2, $3)",
			name, i, []byte(doc),
		); err != nil {
			return fmt.Errorf("failed to insert document: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit collection %s: %w", name, err)
	}
	return nil
}

func (g *PostgresGateway) Close(context.Context) error {
	return g.db.Close()
}
