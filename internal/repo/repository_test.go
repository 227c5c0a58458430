package repo_test

import (
	"testing"

	"github.com/liveprobe/liveprobe/internal/repo"
	"github.com/liveprobe/liveprobe/internal/repo/memory"
	pg "github.com/liveprobe/liveprobe/internal/repo/postgres"
)

// Compile-time interface satisfaction checks.
// Using an external test package avoids an import cycle.
func TestInterfaceSatisfaction(t *testing.T) {
	var _ repo.TargetStore = memory.New()
	var _ repo.ResultStore = memory.New()
	var _ repo.AlertStore = memory.New()

	var _ repo.TargetStore = (*pg.Store)(nil)
	var _ repo.ResultStore = (*pg.Store)(nil)
	var _ repo.AlertStore = (*pg.Store)(nil)
}
