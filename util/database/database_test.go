package database_test

import (
	"context"
	"testing"

	"bookswap/util/database"
)

func TestNew_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	db, err := database.New(ctx, "postgres://localhost:1/bookswap")
	if err == nil {
		db.Close()
		t.Fatal("expected ping failure with cancelled context")
	}
}
