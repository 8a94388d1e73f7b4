// Package repository is the document store adapter: named collections of
// schema-less documents addressed by opaque string ids.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/vilain-Petit-Canard/API-Films/internal/models"
)

var (
	// ErrNotFound is returned by Update when no document has the id.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate is returned by InsertIfAbsent when the key is taken.
	ErrDuplicate = errors.New("document already exists")
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Operator is a Where comparison.
type Operator string

const (
	OpEq  Operator = "=="
	OpNe  Operator = "!="
	OpLt  Operator = "<"
	OpLte Operator = "<="
	OpGt  Operator = ">"
	OpGte Operator = ">="
)

func (o Operator) valid() bool {
	switch o {
	case OpEq, OpNe, OpLt, OpLte, OpGt, OpGte:
		return true
	}
	return false
}

// Collection is a handle on one named collection.
type Collection interface {
	// Add stores doc under a new id and returns it.
	Add(ctx context.Context, doc models.Document) (string, error)

	// Get returns nil, nil when the id is unknown or malformed.
	Get(ctx context.Context, id string) (models.Document, error)

	// Update merges partial into the stored document. Keys absent from
	// partial are left alone. Returns ErrNotFound for an unknown id.
	Update(ctx context.Context, id string, partial models.Document) error

	// Delete removes the document. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	Where(ctx context.Context, field string, op Operator, value any) ([]models.Record, error)

	// List returns at most |limit| documents ordered by field. limit 0 means
	// no limit; a negative limit is read as its absolute value.
	List(ctx context.Context, field string, dir Direction, limit int) ([]models.Record, error)

	// InsertIfAbsent atomically adds doc unless a document already has
	// field == value, in which case it returns ErrDuplicate.
	InsertIfAbsent(ctx context.Context, field string, value any, doc models.Document) (string, error)
}

type Store interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
}

func checkOperator(op Operator) error {
	if !op.valid() {
		return fmt.Errorf("unsupported operator %q", op)
	}
	return nil
}

func absLimit(limit int) int {
	if limit < 0 {
		return -limit
	}
	return limit
}

// stripID drops a client-supplied _id so it never reaches the stored fields.
func stripID(doc models.Document) models.Document {
	if _, ok := doc[models.FieldID]; !ok {
		return doc
	}
	return doc.Without(models.FieldID)
}
