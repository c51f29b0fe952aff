package tui_test

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/require"

	"github.com/mapworks-io/protool/pkg/scaffold"
	"github.com/mapworks-io/protool/pkg/tui"
)

func TestScaffoldModel_Success(t *testing.T) {
	t.Parallel()

	m := tui.NewScaffoldModel("20250101_Demo")
	tm := teatest.NewTestModel(
		t, m,
		teatest.WithInitialTermSize(300, 100),
	)
	time.Sleep(100 * time.Millisecond)

	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("Creating")) &&
				bytes.Contains(bts, []byte("20250101_Demo"))
		},
	)

	tm.Send(scaffold.EventCopied{Path: "/gis/Projects/20250101_Demo/20250101_Demo.mapx"})
	tm.Send(scaffold.EventContainer{Path: "/gis/Projects/20250101_Demo/20250101_Demo.gpkg", Created: true})
	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("✓ Copied template")) &&
				bytes.Contains(bts, []byte("✓ Created container"))
		},
	)

	tm.Send(scaffold.EventDone{})

	out, err := io.ReadAll(tm.FinalOutput(t, teatest.WithFinalTimeout(10*time.Second)))
	require.NoError(t, err)
	require.Contains(t, string(out), "Created 20250101_Demo.")
}

func TestScaffoldModel_Error(t *testing.T) {
	t.Parallel()

	m := tui.NewScaffoldModel("20250101_Demo")
	tm := teatest.NewTestModel(
		t, m,
		teatest.WithInitialTermSize(300, 100),
	)
	time.Sleep(100 * time.Millisecond)

	tm.Send(scaffold.EventDone{Err: errors.New("destination already exists")})

	out, err := io.ReadAll(tm.FinalOutput(t, teatest.WithFinalTimeout(10*time.Second)))
	require.NoError(t, err)
	require.Contains(t, string(out), "destination already exists")
}
