package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/Telokis/cg-selfarena/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func validConfig() *config.Config {
	cfg := config.New()
	cfg.Referee.Command = "java -jar referee.jar"
	cfg.Players = []config.Player{
		{Name: "alpha", Command: "./alpha"},
		{Command: "./beta"},
		{Name: "gamma", Command: "./gamma"},
	}
	return cfg
}

func TestConfig_New(t *testing.T) {
	convey.Convey("Given the default config", t, func() {
		cfg := config.New()

		convey.Convey("Then defaults match the documented values", func() {
			convey.So(cfg.Game.Seed, convey.ShouldEqual, 0)
			convey.So(cfg.Game.GamesPerMatchup, convey.ShouldEqual, 1)
			convey.So(cfg.Game.PlayersPerGame, convey.ShouldEqual, 2)
			convey.So(cfg.Game.SwapPositions, convey.ShouldBeFalse)
			convey.So(cfg.Execution.Batches, convey.ShouldEqual, 20)
			convey.So(cfg.Execution.Pause, convey.ShouldEqual, 100*time.Millisecond)
			convey.So(cfg.Execution.MatchTimeout, convey.ShouldEqual, 0)
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Quiet, convey.ShouldBeFalse)
			convey.So(cfg.MetricsAddr, convey.ShouldBeEmpty)
		})
	})
}

func TestConfig_Players(t *testing.T) {
	convey.Convey("Given players with and without names", t, func() {
		cfg := validConfig()

		convey.So(cfg.PlayerNames(), convey.ShouldResemble, []string{"alpha", "P2", "gamma"})
		convey.So(cfg.PlayerCommands(), convey.ShouldResemble, []string{"./alpha", "./beta", "./gamma"})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a valid config", t, func() {
		cfg := validConfig()
		convey.So(cfg.Validate(), convey.ShouldBeNil)

		cases := []struct {
			name   string
			mutate func(c *config.Config)
		}{
			{"missing referee", func(c *config.Config) { c.Referee.Command = "" }},
			{"a single player", func(c *config.Config) { c.Players = c.Players[:1] }},
			{"zero games", func(c *config.Config) { c.Game.GamesPerMatchup = 0 }},
			{"negative batches", func(c *config.Config) { c.Execution.Batches = -1 }},
			{"one seat", func(c *config.Config) { c.Game.PlayersPerGame = 1 }},
			{"five seats", func(c *config.Config) { c.Game.PlayersPerGame = 5 }},
			{"more seats than players", func(c *config.Config) { c.Game.PlayersPerGame = 4 }},
			{"an empty player command", func(c *config.Config) { c.Players[1].Command = "" }},
			{"a negative pause", func(c *config.Config) { c.Execution.Pause = -time.Second }},
			{"a negative match timeout", func(c *config.Config) { c.Execution.MatchTimeout = -time.Second }},
		}

		for _, tc := range cases {
			convey.Convey("When it has "+tc.name, func() {
				broken := validConfig()
				tc.mutate(broken)

				convey.Convey("Then validation fails as invalid config", func() {
					err := broken.Validate()
					convey.So(err, convey.ShouldNotBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}
