package tracing_test

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/rentdesk/rentdesk/internal/tracing"
)

func TestInit_DisabledWithoutEndpoint(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	shutdown, err := tracing.Init(context.Background(), log, "", "rentdesk", "dev", "test")
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}
