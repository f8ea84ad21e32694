package bdd

import (
	"os"
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/railbot-go/test/bdd/steps"
	"github.com/andrescamacho/railbot-go/test/helpers"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	steps.InitializeBotTurnScenario(sc)
	steps.InitializeTrainChangeScenario(sc)
	steps.InitializeSchedulingScenario(sc)
	steps.InitializeBuildingScenario(sc)
}

func TestMain(m *testing.M) {
	if err := helpers.InitializeSharedTestDB(); err != nil {
		panic(err)
	}
	code := m.Run()
	helpers.CloseSharedTestDB()
	os.Exit(code)
}
