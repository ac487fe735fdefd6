// Package main contains a command to run the head pose estimation node: it
// pulls face-mesh landmark frames from an upstream producer and broadcasts
// pose records to websocket subscribers.
package main

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"github.com/kalidoface/kalidokit/calculator"
	"github.com/kalidoface/kalidokit/landmark"
	"github.com/kalidoface/kalidokit/web"
)

var logger = golog.NewDevelopmentLogger("headpose")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	SourceAddress string `flag:"source,usage=TCP address of the landmark producer"`
	ReplayPath    string `flag:"replay,usage=JSONL capture of landmark frames to replay"`
	ListenAddress string `flag:"listen,default=localhost:8555,usage=websocket listen address"`
	FrameRate     int    `flag:"fps,default=30,usage=frames per second to pull"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) (err error) {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}

	var upstream landmark.Source
	switch {
	case argsParsed.SourceAddress != "" && argsParsed.ReplayPath != "":
		return errors.New("set only one of source and replay")
	case argsParsed.SourceAddress != "":
		upstream, err = landmark.NewTCPSource(argsParsed.SourceAddress, logger)
	case argsParsed.ReplayPath != "":
		upstream, err = landmark.NewReplaySource(argsParsed.ReplayPath)
	default:
		return errors.New("one of source or replay is required")
	}
	if err != nil {
		return err
	}

	return runNode(ctx, upstream, argsParsed, logger)
}

func runNode(ctx context.Context, upstream landmark.Source, args Arguments, logger golog.Logger) (err error) {
	src, err := calculator.NewSource(upstream, calculator.New(logger), float64(args.FrameRate), clock.New(), logger)
	if err != nil {
		return multierr.Combine(err, upstream.Close())
	}
	defer func() {
		err = multierr.Combine(err, src.Close())
	}()

	server, err := web.NewServer(args.ListenAddress, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = multierr.Combine(err, server.Close(closeCtx))
	}()

	ticker := time.NewTicker(time.Second / time.Duration(args.FrameRate))
	defer ticker.Stop()

	var last time.Time
	for {
		if !utils.SelectContextOrWaitChan(ctx, ticker.C) {
			return nil
		}
		res, err := src.Next(ctx)
		if err != nil {
			return err
		}
		if res == nil || res.Timestamp.Equal(last) {
			continue
		}
		last = res.Timestamp
		if err := server.Broadcast(res); err != nil {
			logger.Errorw("cannot broadcast pose record", "error", err)
		}
	}
}
