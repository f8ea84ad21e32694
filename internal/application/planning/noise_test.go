package planning

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/railbot-go/internal/domain/loads"
	"github.com/andrescamacho/railbot-go/internal/domain/planning"
	"github.com/andrescamacho/railbot-go/internal/domain/player"
)

func scorerFor(t *testing.T, skill player.Skill) planning.Scorer {
	t.Helper()
	scorer, err := planning.NewScorer(player.BotConfig{
		Archetype: player.ArchetypeOpportunist,
		Skill:     skill,
	})
	require.NoError(t, err)
	return scorer
}

func deliverParis() planning.FeasibleOption {
	return planning.NewDeliverOption(planning.DeliverParams{
		CardID:      7,
		DemandIndex: 0,
		City:        "Paris",
		Load:        loads.Coal,
		Payment:     15,
	}).WithScore(12)
}

func cheapBuild() planning.FeasibleOption {
	return planning.NewBuildOption(planning.BuildParams{Cost: 4}).WithScore(6)
}

// An easy bot draws both noise branches over enough seeds. The exploratory
// pick must stay off Pass, and an overlooked top option must fall through to
// the runner-up, not to sitting the turn out.
func TestChooseIndexEasySkillNoiseAvoidsPass(t *testing.T) {
	scorer := scorerFor(t, player.SkillEasy)
	ranked := []planning.FeasibleOption{deliverParis(), cheapBuild(), planning.NewPassOption()}

	exploratory, missed := 0, 0
	for seed := int64(0); seed < 500; seed++ {
		idx, note := chooseIndex(ranked, scorer, rand.New(rand.NewSource(seed)))
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, len(ranked))

		switch note {
		case "exploratory pick":
			exploratory++
			assert.NotEqual(t, planning.ActionPass, ranked[idx].Type,
				"seed %d wandered onto Pass", seed)
		case "overlooked a stronger option":
			missed++
			assert.Equal(t, 1, idx, "seed %d missed past the runner-up", seed)
		case "":
			assert.Equal(t, 0, idx, "seed %d deviated without a note", seed)
		default:
			t.Fatalf("seed %d produced unknown note %q", seed, note)
		}
	}

	// RandomChoice 0.20 and MissedOption 0.30 make both branches near-certain
	// across 500 seeds.
	assert.Positive(t, exploratory)
	assert.Positive(t, missed)
}

func TestChooseIndexMissSkipsAPassRankedSecond(t *testing.T) {
	scorer := scorerFor(t, player.SkillEasy)
	ranked := []planning.FeasibleOption{deliverParis(), planning.NewPassOption(), cheapBuild()}

	missed := 0
	for seed := int64(0); seed < 500; seed++ {
		idx, note := chooseIndex(ranked, scorer, rand.New(rand.NewSource(seed)))
		if note == "overlooked a stronger option" {
			missed++
			assert.Equal(t, 2, idx, "seed %d settled on Pass instead of the next action", seed)
		}
	}
	assert.Positive(t, missed)
}

func TestChooseIndexHardSkillNeverDeviates(t *testing.T) {
	scorer := scorerFor(t, player.SkillHard)
	ranked := []planning.FeasibleOption{deliverParis(), cheapBuild(), planning.NewPassOption()}

	for seed := int64(0); seed < 50; seed++ {
		idx, note := chooseIndex(ranked, scorer, rand.New(rand.NewSource(seed)))
		assert.Equal(t, 0, idx)
		assert.Empty(t, note)
	}
}

func TestChooseIndexSingleOptionShortCircuits(t *testing.T) {
	scorer := scorerFor(t, player.SkillEasy)
	ranked := []planning.FeasibleOption{planning.NewPassOption()}

	idx, note := chooseIndex(ranked, scorer, rand.New(rand.NewSource(1)))
	assert.Equal(t, 0, idx)
	assert.Empty(t, note)
}
