package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notecal/internal/config"
	"notecal/internal/convert"
	appLog "notecal/internal/log"
	"notecal/internal/model"
	"notecal/internal/remind"
	"notecal/internal/title"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	configPath string
	eventsPath string
	local      bool
	remindRun  bool
	debug      bool
}

func main() {
	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	zone, err := conf.Location()
	if err != nil {
		appLog.Error("bad configured timezone", err, "timezone", conf.Timezone)
		os.Exit(1)
	}

	appLog.Info("effective config",
		"timezone", conf.Timezone,
		"week_start", conf.WeekStart,
		"group_by_category", conf.GroupByCategory,
		"source_count", len(conf.Sources),
		"reminder_enabled", conf.Reminder.Enabled,
	)

	events := loadEvents(flags.eventsPath)

	opts := convert.Options{
		DisplayZone:     zone,
		Palette:         palette(conf),
		GroupByCategory: conf.GroupByCategory,
		Local:           flags.local,
	}

	rendered := 0
	for _, ev := range events {
		re, ok := convert.ToRenderEvent(ev, opts)
		if !ok {
			continue
		}
		rendered++
		printRenderEvent(noteName(ev), re)
	}
	appLog.Info("conversion finished", "events", len(events), "rendered", rendered)

	if !flags.remindRun || !conf.Reminder.Enabled {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	scheduler := remind.New(
		func() []model.Event { return events },
		logNotifier{},
		zone,
		time.Duration(conf.Reminder.LeadMinutes)*time.Minute,
	)
	if err := scheduler.Start(conf.Reminder.PollCron); err != nil {
		appLog.Error("failed to start reminder scheduler", err, "poll", conf.Reminder.PollCron)
		os.Exit(1)
	}
	defer scheduler.Stop()

	<-ctx.Done()
	appLog.Info("notecal exiting")
}

func loadEvents(path string) []model.Event {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		appLog.Error("failed to read events file", err, "events_path", path)
		os.Exit(1)
	}
	events, errs := model.DecodeEvents(data)
	for _, derr := range errs {
		appLog.Error("skipping undecodable event", derr, "events_path", path)
	}
	return events
}

func palette(conf *config.Config) map[string]convert.Colors {
	out := make(map[string]convert.Colors, len(conf.Categories))
	for name, style := range conf.Categories {
		out[name] = convert.Colors{Color: style.Color, TextColor: style.TextColor}
	}
	return out
}

// noteName renders the full note-name form of an event,
// "Category - Sub - Title", degrading gracefully when parts are absent.
func noteName(ev model.Event) string {
	c := ev.Common()
	return title.ConstructFull(c.Category, c.SubCategory, c.Title)
}

func printRenderEvent(name string, re *convert.RenderEvent) {
	fmt.Printf("# %s (%s)\n", name, re.ID)
	if re.RuleText != "" {
		fmt.Println(re.RuleText)
		if re.Duration > 0 {
			fmt.Printf("DURATION:%s\n", re.Duration)
		}
	} else {
		fmt.Printf("START:%s\nEND:%s\n", re.Start.Format(time.RFC3339), re.End.Format(time.RFC3339))
	}
	if re.ResourceID != "" {
		fmt.Printf("RESOURCE:%s\n", re.ResourceID)
	}
	fmt.Println()
}

// logNotifier writes due reminders to the log; real delivery lives with
// the host application.
type logNotifier struct{}

func (logNotifier) Notify(ev model.Event, kind remind.Boundary, at time.Time) {
	appLog.Info("reminder",
		"event_id", ev.Common().ID,
		"title", ev.Common().Title,
		"boundary", string(kind),
		"at", at.Format(time.RFC3339),
	)
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "notecal.yaml", "Path to config file")
	flag.StringVar(&cfg.eventsPath, "events", "", "Path to YAML events file to convert")
	flag.BoolVar(&cfg.local, "local", true, "Treat the events file as a locally owned calendar")
	flag.BoolVar(&cfg.remindRun, "remind", false, "Keep running and fire reminder notifications")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
