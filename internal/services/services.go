// Package services holds the business rules of the backend. Services take
// plain inputs, talk to the store and return *common.Error values that the
// HTTP layer renders directly.
package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/zaqqye/attendance_backend_v1/internal/common"
	"github.com/zaqqye/attendance_backend_v1/internal/models"
	"github.com/zaqqye/attendance_backend_v1/internal/store"
)

// Publisher receives ledger events, the live feed hub implements it.
type Publisher interface {
	Publish(event models.AttendanceEvent)
}

// Archiver keeps a copy of generated exports.
type Archiver interface {
	Archive(ctx context.Context, name string, data []byte) error
}

type nopPublisher struct{}

func (nopPublisher) Publish(models.AttendanceEvent) {}

func validID(raw string) bool {
	_, err := uuid.Parse(raw)
	return err == nil
}

// fromStore maps store sentinels onto client-facing errors.
func fromStore(err error, notFound, conflict string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound) && notFound != "":
		return common.NotFound(notFound)
	case errors.Is(err, store.ErrConflict) && conflict != "":
		return common.Conflict(conflict)
	default:
		return common.Internal("database error", err)
	}
}

// cleanNames trims names and drops blanks and repeats, keeping order.
func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
