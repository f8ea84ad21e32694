package helpers

import (
	"gorm.io/gorm"

	"github.com/andrescamacho/railbot-go/internal/adapters/persistence"
	"github.com/andrescamacho/railbot-go/internal/application/ports"
	"github.com/andrescamacho/railbot-go/internal/domain/game"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
	"github.com/andrescamacho/railbot-go/internal/domain/shared"
	"github.com/andrescamacho/railbot-go/internal/domain/track"
)

// TestRepositories holds all real repository instances for integration tests
type TestRepositories struct {
	DB         *gorm.DB
	GameRepo   game.Repository
	PlayerRepo player.Repository
	TrackRepo  track.Repository
	AuditSink  ports.AuditSink
}

// NewTestRepositories creates all real repository instances using the shared
// test DB. clock is used for audit timestamps (usually a MockClock in tests).
func NewTestRepositories(clock shared.Clock) *TestRepositories {
	db := SharedTestDB

	return &TestRepositories{
		DB:         db,
		GameRepo:   persistence.NewGormGameRepository(db),
		PlayerRepo: persistence.NewGormPlayerRepository(db),
		TrackRepo:  persistence.NewGormTrackRepository(db),
		AuditSink:  persistence.NewGormAuditRepository(db, clock),
	}
}
