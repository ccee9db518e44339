package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexschlessinger/martool/activity"
	"github.com/alexschlessinger/martool/events"
	"github.com/alexschlessinger/martool/runs"
	"github.com/alexschlessinger/martool/session"
	"golang.org/x/sync/errgroup"
)

// runGeneration drives one streaming operation end to end: start the
// run, render events live, surface the outcome, and record the run in
// local history.
func runGeneration(ctx context.Context, cfg *Config, opName string, request any, op session.Operation) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	render := newRenderer(cfg.Quiet)
	notice := activity.NewLongRunNotice(0, func() {
		render.printNotice("Still working. Generation runs on the server; it is safe to close this window.")
	})
	defer notice.Stop()

	runner := session.NewRunner()
	renderCh := make(chan *events.Event, 64)

	var g errgroup.Group
	g.Go(func() error {
		for ev := range renderCh {
			render.printEvent(ev)
		}
		return nil
	})

	started := time.Now()
	handle := runner.Start(ctx, func(opCtx context.Context, emit func(*events.Event)) error {
		defer close(renderCh)
		return op(opCtx, func(ev *events.Event) {
			emit(ev)
			select {
			case renderCh <- ev:
			case <-opCtx.Done():
			}
		})
	})
	notice.LoadingChanged(true)

	handle.Wait()
	notice.LoadingChanged(false)
	_ = g.Wait()

	snap := runner.Session().Snapshot()
	render.printTrailing(snap.Events)

	if !cfg.NoSave {
		if err := saveRun(cfg, opName, request, started, snap); err != nil {
			render.printNotice(fmt.Sprintf("could not save run history: %v", err))
		}
	}

	if ctx.Err() != nil {
		render.printNotice("Cancelled. The generation job may still complete on the server.")
		runner.Reset()
		return nil
	}

	if snap.Err != nil {
		render.printErrorLine(snap.Err.Error())
		return fmt.Errorf("%s failed: %w", opName, snap.Err)
	}

	if snap.Result != nil {
		printResult(snap.Result)
	}
	return nil
}

// printResult writes the done payload as indented JSON on stdout.
func printResult(result *events.Event) {
	var pretty json.RawMessage = result.Raw
	if buf, err := json.MarshalIndent(json.RawMessage(result.Raw), "", "  "); err == nil {
		pretty = buf
	}
	fmt.Println(string(pretty))
}

func saveRun(cfg *Config, opName string, request any, started time.Time, snap session.Snapshot) error {
	store, err := runs.Open(cfg.RunsDir)
	if err != nil {
		return err
	}

	rec := &runs.Record{
		ID:        runs.NewID(opName, started),
		Operation: opName,
		Request:   request,
		Started:   started,
		Finished:  time.Now(),
	}
	for _, ev := range snap.Events {
		rec.Events = append(rec.Events, ev.Raw)
	}
	if snap.Result != nil {
		rec.Result = snap.Result.Raw
	}
	if snap.Err != nil {
		rec.Error = snap.Err.Error()
	}
	return store.Save(rec)
}
