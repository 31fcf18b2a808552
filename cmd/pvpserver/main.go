// Command pvpserver runs a Dragonfly server with the blocking, exhaustion and
// fishing features enabled.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/df-mc/dragonfly/server"
	"github.com/df-mc/dragonfly/server/player/chat"
	"github.com/oriumgames/pvp"
	"github.com/oriumgames/pvp/block"
	"github.com/oriumgames/pvp/config"
	"github.com/oriumgames/pvp/exhaustion"
	"github.com/oriumgames/pvp/fishing"
)

func main() {
	path := flag.String("config", "pvp.yaml", "path to the YAML configuration")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if err := run(log, *path); err != nil {
		log.Error("pvpserver: exiting", "err", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, path string) error {
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	rules, _ := c.Ruleset()
	difficulty, _ := c.DifficultyLevel()

	blockingItem, err := c.BlockingItem()
	if err != nil {
		return err
	}

	b := pvp.NewBuilder().
		Logger(log).
		Resource(&rules).
		Feature(exhaustion.NewFeature(exhaustion.Options{KeepNativeHunger: c.Hunger.KeepNative})).
		Feature(block.NewFeature(block.Options{Item: blockingItem, Debounce: c.Block.Debounce})).
		Feature(fishing.NewFeature(fishing.Options{Spread: c.Fishing.Spread}))
	pvp.Provide[pvp.DifficultyProvider](b, pvp.FixedDifficulty(difficulty))
	pvp.Provide[pvp.ItemDamager](b, pvp.HeldItemDamager{})
	pvp.Provide[fishing.Launcher](b, fishing.FloatLauncher{})

	mngr, err := b.Build()
	if err != nil {
		return err
	}
	mngr.Start()
	defer mngr.Shutdown()

	chat.Global.Subscribe(chat.StdoutSubscriber{})

	uc := server.DefaultConfig()
	if c.Server.Address != "" {
		uc.Network.Address = c.Server.Address
	}
	if c.Server.Name != "" {
		uc.Server.Name = c.Server.Name
	}
	conf, err := uc.Config(log)
	if err != nil {
		return err
	}

	srv := conf.New()
	srv.CloseOnProgramEnd()
	srv.Listen()

	log.Info("pvpserver: listening",
		"version", rules.Version,
		"difficulty", difficulty,
		"address", uc.Network.Address)

	for p := range srv.Accept() {
		sess, err := mngr.NewSession(p)
		if err != nil {
			log.Warn("pvpserver: session rejected", "player", p.Name(), "err", err)
			p.Disconnect("failed to initialize session")
			continue
		}
		p.Handle(pvp.NewHandler(sess))
	}
	return nil
}
