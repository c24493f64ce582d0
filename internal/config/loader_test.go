package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	config "github.com/okian/arena/internal/config"
	. "github.com/smartystreets/goconvey/convey"
)

func TestConfigDefaults(t *testing.T) {
	Convey("Given the default configuration", t, func() {
		cfg := config.New()

		Convey("Then the rating parameters match the engine defaults", func() {
			So(cfg.KFactor, ShouldEqual, 32.0)
			So(cfg.InitialRating, ShouldEqual, 1500.0)
			So(cfg.PairStep, ShouldEqual, 10.0)
			So(cfg.PairMaxAttempts, ShouldEqual, 100)
		})

		Convey("Then the assembled weights validate", func() {
			So(cfg.Weights().Validate(), ShouldBeNil)
			So(cfg.Weights().OverallQuality, ShouldEqual, 0.4)
		})

		Convey("Then operational defaults are sane", func() {
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.LogLevel, ShouldEqual, "info")
			So(cfg.VotesPath, ShouldEqual, "arena_votes.jsonl")
			So(cfg.SyncOnAppend, ShouldBeTrue)
		})
	})
}

func TestLoadDefaults(t *testing.T) {
	Convey("Given no file or env overrides", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then defaults come through unchanged", func() {
			So(cfg.Addr, ShouldEqual, ":9080")
			So(cfg.KFactor, ShouldEqual, 32.0)
		})
	})
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ARENA_ADDR", ":8088")
	t.Setenv("ARENA_K_FACTOR", "24")
	t.Setenv("ARENA_SYNC_ON_APPEND", "false")

	Convey("Given env variable overrides", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then the env layer wins over defaults", func() {
			So(cfg.Addr, ShouldEqual, ":8088")
			So(cfg.KFactor, ShouldEqual, 24.0)
			So(cfg.SyncOnAppend, ShouldBeFalse)
		})
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.yaml")
	yaml := "addr: \":7070\"\npair_step: 25\nvotes_path: /tmp/test_votes.jsonl\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ARENA_CONFIG", path)

	Convey("Given a YAML config file", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then file values override defaults", func() {
			So(cfg.Addr, ShouldEqual, ":7070")
			So(cfg.PairStep, ShouldEqual, 25.0)
			So(cfg.VotesPath, ShouldEqual, "/tmp/test_votes.jsonl")
		})
	})
}

func TestLoadEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "arena.yaml")
	if err := os.WriteFile(path, []byte("addr: \":7070\"\npair_step: 25\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ARENA_CONFIG", path)
	t.Setenv("ARENA_ADDR", ":6060")

	Convey("Given both a file and an env override", t, func() {
		cfg, err := config.Load(context.Background())
		So(err, ShouldBeNil)

		Convey("Then env wins over the file, file over defaults", func() {
			So(cfg.Addr, ShouldEqual, ":6060")
			So(cfg.PairStep, ShouldEqual, 25.0)
		})
	})
}

func TestLoadBadFile(t *testing.T) {
	t.Setenv("ARENA_CONFIG", "/definitely/not/here.yaml")

	Convey("Given a bogus config file path", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then loading fails", func() {
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLoadValidation(t *testing.T) {
	// An empty env value is still a set key for koanf.
	t.Setenv("ARENA_ADDR", "")

	Convey("Given a blanked required field", t, func() {
		_, err := config.Load(context.Background())

		Convey("Then validation catches it", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
