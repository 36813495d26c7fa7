// Package terminal runs a typing test against stdin and stdout.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/NuZard84/go-speedtype/internal/constants"
	"github.com/NuZard84/go-speedtype/internal/game"
	"github.com/NuZard84/go-speedtype/internal/models"
)

// ReportEvery is how often, in countdown seconds, the remaining time is printed.
const ReportEvery = 10

// Play starts a test on ctrl and feeds it lines from in. Each line extends the
// typed text, separated by a single space. It returns the final snapshot once
// time runs out, in is exhausted, or ctx is cancelled.
func Play(ctx context.Context, ctrl *game.Controller, in io.Reader, out io.Writer) (models.Snapshot, error) {
	updates := make(chan models.Snapshot, 64)
	unsubscribe := ctrl.Subscribe(func(snap models.Snapshot) {
		select {
		case updates <- snap:
		default:
		}
	})
	defer unsubscribe()

	if err := ctrl.Start(ctx); err != nil {
		return models.Snapshot{}, err
	}

	snap := ctrl.Snapshot()
	if snap.Notice != "" {
		fmt.Fprintf(out, "! %s\n", snap.Notice)
	}
	fmt.Fprintf(out, "Type the text below. You have %d seconds.\n\n%s\n\n", snap.SecondsRemaining, snap.ReferenceText)

	lines := make(chan string)
	eof := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
		eof <- scanner.Err()
	}()

	var typed []string
	lastReported := snap.SecondsRemaining
	for {
		select {
		case <-ctx.Done():
			return finish(ctrl, out), ctx.Err()

		case err := <-eof:
			final := finish(ctrl, out)
			return final, err

		case line := <-lines:
			typed = append(typed, line)
			if !ctrl.Input(strings.Join(typed, " ")) {
				fmt.Fprintln(out, "(input ignored, time is up)")
			}

		case s := <-updates:
			if s.Status == constants.StatusExpired {
				return finish(ctrl, out), nil
			}
			if s.Running && s.SecondsRemaining != lastReported && s.SecondsRemaining%ReportEvery == 0 {
				lastReported = s.SecondsRemaining
				fmt.Fprintf(out, "%ds left\n", s.SecondsRemaining)
			}
		}
	}
}

func finish(ctrl *game.Controller, out io.Writer) models.Snapshot {
	snap := ctrl.Snapshot()
	fmt.Fprintf(out, "\nTest Complete!\nFinal Speed: %d WPM\nFinal Accuracy: %d%%\n", snap.WPM, snap.Accuracy)
	return snap
}
